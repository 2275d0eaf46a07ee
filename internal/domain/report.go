package domain

import (
	"context"
	"time"
)

// Report is a user-submitted estimate of what a vehicle sold for.
// Reports only feed value estimates once an admin has approved them.
type Report struct {
	ID        int64
	UserID    int64
	Make      string
	Model     string
	Year      int
	Mileage   int
	Lat       float64
	Lng       float64
	Price     float64
	Approved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EstimateQuery describes the vehicle a value estimate is requested for.
type EstimateQuery struct {
	Make    string
	Model   string
	Year    int
	Mileage int
	Lat     float64
	Lng     float64
}

// Estimate is the result of an estimate query: the average price of the
// nearest matching approved reports and how many reports contributed.
type Estimate struct {
	Price   float64
	Samples int
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)
	ListByUser(ctx context.Context, userID int64) ([]Report, error)
	Update(ctx context.Context, report *Report) error
	Estimate(ctx context.Context, q EstimateQuery) (*Estimate, error)
}
