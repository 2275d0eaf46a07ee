package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mbeckett/carworth/internal/domain"
	"github.com/mbeckett/carworth/internal/service"
)

// ReportsHandler handles vehicle-value report requests.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// HandleCreateReport stores a new report owned by the current user.
// POST /api/reports (auth required)
// Request: {"make":...,"model":...,"year":...,"mileage":...,"lat":...,"lng":...,"price":...}
func (h *ReportsHandler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req struct {
		Make    string  `json:"make"`
		Model   string  `json:"model"`
		Year    int     `json:"year"`
		Mileage int     `json:"mileage"`
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
		Price   float64 `json:"price"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	report, err := h.reports.Create(r.Context(), user, service.CreateReport{
		Make:    req.Make,
		Model:   req.Model,
		Year:    req.Year,
		Mileage: req.Mileage,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Price:   req.Price,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create report", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"report": toReportDTO(report),
	})
}

// HandleApproveReport approves or rejects a report.
// PATCH /api/reports/{id} (admin required)
// Request: {"approve": true|false}
func (h *ReportsHandler) HandleApproveReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	report, err := h.reports.SetApproved(r.Context(), id, req.Approve)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found.")
			return
		}
		slog.Error("approve report", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report": toReportDTO(report),
	})
}

// HandleMyReports lists the current user's reports.
// GET /api/reports/mine (auth required)
func (h *ReportsHandler) HandleMyReports(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	reports, err := h.reports.ListByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": toReportDTOs(reports),
	})
}

// HandleEstimate returns a value estimate for the queried vehicle.
// GET /api/reports?make=...&model=...&year=...&mileage=...&lat=...&lng=...
func (h *ReportsHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	q, err := parseEstimateQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	est, err := h.reports.Estimate(r.Context(), q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("estimate", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, EstimateDTO{Price: est.Price, Samples: est.Samples})
}

func parseEstimateQuery(r *http.Request) (domain.EstimateQuery, error) {
	params := r.URL.Query()
	q := domain.EstimateQuery{
		Make:  params.Get("make"),
		Model: params.Get("model"),
	}

	var err error
	if q.Year, err = strconv.Atoi(params.Get("year")); err != nil {
		return q, errors.New("query parameter year must be a number")
	}
	if q.Mileage, err = strconv.Atoi(params.Get("mileage")); err != nil {
		return q, errors.New("query parameter mileage must be a number")
	}
	if q.Lat, err = strconv.ParseFloat(params.Get("lat"), 64); err != nil {
		return q, errors.New("query parameter lat must be a number")
	}
	if q.Lng, err = strconv.ParseFloat(params.Get("lng"), 64); err != nil {
		return q, errors.New("query parameter lng must be a number")
	}
	return q, nil
}
