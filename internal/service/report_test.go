package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mbeckett/carworth/internal/domain"
	"github.com/mbeckett/carworth/internal/service"
)

func newTestReportService(t *testing.T) (*service.ReportService, *domain.User) {
	t.Helper()
	db := newTestDB(t)

	auth := service.NewAuthService(db.Users(), testBcryptCost)
	user, err := auth.Signup(context.Background(), "owner@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	return service.NewReportService(db.Reports()), user
}

func validCreate() service.CreateReport {
	return service.CreateReport{
		Make:    "honda",
		Model:   "civic",
		Year:    2016,
		Mileage: 52000,
		Lat:     40.7,
		Lng:     -74.0,
		Price:   13500,
	}
}

func TestReportService_Create(t *testing.T) {
	reports, user := newTestReportService(t)
	ctx := context.Background()

	report, err := reports.Create(ctx, user, validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if report.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if report.UserID != user.ID {
		t.Fatalf("expected report owned by %d, got %d", user.ID, report.UserID)
	}
	if report.Approved {
		t.Fatal("new reports must start unapproved")
	}
}

func TestReportService_Create_Validation(t *testing.T) {
	reports, user := newTestReportService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*service.CreateReport)
	}{
		{"empty make", func(c *service.CreateReport) { c.Make = "" }},
		{"empty model", func(c *service.CreateReport) { c.Model = "" }},
		{"year too early", func(c *service.CreateReport) { c.Year = 1929 }},
		{"year too late", func(c *service.CreateReport) { c.Year = 2051 }},
		{"negative mileage", func(c *service.CreateReport) { c.Mileage = -1 }},
		{"mileage too high", func(c *service.CreateReport) { c.Mileage = 1_000_001 }},
		{"lat out of range", func(c *service.CreateReport) { c.Lat = 91 }},
		{"lng out of range", func(c *service.CreateReport) { c.Lng = -181 }},
		{"negative price", func(c *service.CreateReport) { c.Price = -1 }},
		{"price too high", func(c *service.CreateReport) { c.Price = 1_000_001 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreate()
			tc.mutate(&input)
			_, err := reports.Create(ctx, user, input)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestReportService_SetApproved(t *testing.T) {
	reports, user := newTestReportService(t)
	ctx := context.Background()

	report, err := reports.Create(ctx, user, validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	approved, err := reports.SetApproved(ctx, report.ID, true)
	if err != nil {
		t.Fatalf("SetApproved: %v", err)
	}
	if !approved.Approved {
		t.Fatal("expected approved report")
	}

	rejected, err := reports.SetApproved(ctx, report.ID, false)
	if err != nil {
		t.Fatalf("SetApproved(false): %v", err)
	}
	if rejected.Approved {
		t.Fatal("expected rejected report")
	}
}

func TestReportService_SetApproved_Missing(t *testing.T) {
	reports, _ := newTestReportService(t)

	_, err := reports.SetApproved(context.Background(), 555, true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_ListByUser(t *testing.T) {
	reports, user := newTestReportService(t)
	ctx := context.Background()

	if _, err := reports.Create(ctx, user, validCreate()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := reports.Create(ctx, user, validCreate()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := reports.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(list))
	}
}

func TestReportService_Estimate(t *testing.T) {
	reports, user := newTestReportService(t)
	ctx := context.Background()

	report, err := reports.Create(ctx, user, validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := reports.SetApproved(ctx, report.ID, true); err != nil {
		t.Fatalf("SetApproved: %v", err)
	}

	est, err := reports.Estimate(ctx, domain.EstimateQuery{
		Make: "honda", Model: "civic", Year: 2016, Mileage: 50000, Lat: 40.7, Lng: -74.0,
	})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est.Samples != 1 || est.Price != 13500 {
		t.Fatalf("unexpected estimate: %+v", est)
	}
}

func TestReportService_Estimate_Validation(t *testing.T) {
	reports, _ := newTestReportService(t)

	_, err := reports.Estimate(context.Background(), domain.EstimateQuery{
		Make: "", Model: "civic", Year: 2016, Mileage: 50000,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
