package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbeckett/carworth/internal/domain"
)

// Only approved reports this close to the query feed an estimate.
const (
	estimateDegreeWindow = 5 // lat/lng window, in degrees
	estimateYearWindow   = 3
	estimateSampleSize   = 3
)

// ReportRepository implements domain.ReportRepository using SQLite.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new SQLite-backed ReportRepository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db.SqlDB}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (user_id, make, model, year, mileage, lat, lng, price, approved, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.UserID, report.Make, report.Model, report.Year, report.Mileage,
		report.Lat, report.Lng, report.Price, report.Approved, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	report.ID = id
	report.CreatedAt = now
	report.UpdatedAt = now
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	report := &domain.Report{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, make, model, year, mileage, lat, lng, price, approved, created_at, updated_at
		 FROM reports WHERE id = ?`, id,
	).Scan(&report.ID, &report.UserID, &report.Make, &report.Model, &report.Year,
		&report.Mileage, &report.Lat, &report.Lng, &report.Price, &report.Approved,
		&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query report by id: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, make, model, year, mileage, lat, lng, price, approved, created_at, updated_at
		 FROM reports WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reports by user: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.Make, &rep.Model, &rep.Year,
			&rep.Mileage, &rep.Lat, &rep.Lng, &rep.Price, &rep.Approved,
			&rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *ReportRepository) Update(ctx context.Context, report *domain.Report) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE reports SET make = ?, model = ?, year = ?, mileage = ?, lat = ?, lng = ?,
		 price = ?, approved = ?, updated_at = ? WHERE id = ?`,
		report.Make, report.Model, report.Year, report.Mileage, report.Lat, report.Lng,
		report.Price, report.Approved, now, report.ID,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	report.UpdatedAt = now
	return nil
}

// Estimate averages the price of the approved reports closest in mileage to
// the query, restricted to the same make and model within the year and
// location windows. No matching reports yields a zero estimate, not an error.
func (r *ReportRepository) Estimate(ctx context.Context, q domain.EstimateQuery) (*domain.Estimate, error) {
	est := &domain.Estimate{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(price), 0), COUNT(*) FROM (
			SELECT price FROM reports
			WHERE make = ? AND model = ? AND approved = 1
			  AND ABS(lat - ?) <= ? AND ABS(lng - ?) <= ?
			  AND ABS(year - ?) <= ?
			ORDER BY ABS(mileage - ?)
			LIMIT ?
		)`,
		q.Make, q.Model,
		q.Lat, estimateDegreeWindow, q.Lng, estimateDegreeWindow,
		q.Year, estimateYearWindow,
		q.Mileage, estimateSampleSize,
	).Scan(&est.Price, &est.Samples)
	if err != nil {
		return nil, fmt.Errorf("query estimate: %w", err)
	}
	return est, nil
}
