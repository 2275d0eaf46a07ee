package service

import (
	"context"
	"fmt"

	"github.com/mbeckett/carworth/internal/domain"
)

const (
	minYear    = 1930
	maxYear    = 2050
	maxMileage = 1_000_000
	maxPrice   = 1_000_000
)

// ReportService handles vehicle-value reports: submission, admin approval,
// and price estimates over the approved pool.
type ReportService struct {
	reports domain.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reports domain.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// CreateReport carries the fields of a new report submission.
type CreateReport struct {
	Make    string
	Model   string
	Year    int
	Mileage int
	Lat     float64
	Lng     float64
	Price   float64
}

// Create validates and stores a new report owned by user. Reports start
// unapproved and do not feed estimates until an admin approves them.
func (s *ReportService) Create(ctx context.Context, user *domain.User, input CreateReport) (*domain.Report, error) {
	if err := validateVehicle(input.Make, input.Model, input.Year, input.Mileage, input.Lat, input.Lng); err != nil {
		return nil, err
	}
	if input.Price < 0 || input.Price > maxPrice {
		return nil, fmt.Errorf("%w: price must be between 0 and %d", domain.ErrInvalidInput, maxPrice)
	}

	report := &domain.Report{
		UserID:   user.ID,
		Make:     input.Make,
		Model:    input.Model,
		Year:     input.Year,
		Mileage:  input.Mileage,
		Lat:      input.Lat,
		Lng:      input.Lng,
		Price:    input.Price,
		Approved: false,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// SetApproved marks the report approved or rejected and returns the updated
// record.
func (s *ReportService) SetApproved(ctx context.Context, id int64, approved bool) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report.Approved = approved
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListByUser returns all reports submitted by the given user.
func (s *ReportService) ListByUser(ctx context.Context, userID int64) ([]domain.Report, error) {
	return s.reports.ListByUser(ctx, userID)
}

// Estimate returns the average price of approved reports near the queried
// vehicle. A query with no matches is a zero estimate, not an error.
func (s *ReportService) Estimate(ctx context.Context, q domain.EstimateQuery) (*domain.Estimate, error) {
	if err := validateVehicle(q.Make, q.Model, q.Year, q.Mileage, q.Lat, q.Lng); err != nil {
		return nil, err
	}
	return s.reports.Estimate(ctx, q)
}

func validateVehicle(make, model string, year, mileage int, lat, lng float64) error {
	if make == "" || model == "" {
		return fmt.Errorf("%w: make and model are required", domain.ErrInvalidInput)
	}
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", domain.ErrInvalidInput, minYear, maxYear)
	}
	if mileage < 0 || mileage > maxMileage {
		return fmt.Errorf("%w: mileage must be between 0 and %d", domain.ErrInvalidInput, maxMileage)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: lat must be between -90 and 90", domain.ErrInvalidInput)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: lng must be between -180 and 180", domain.ErrInvalidInput)
	}
	return nil
}
