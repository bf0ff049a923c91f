package moderation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines moderation data access interface
type Repository interface {
	CreateReport(ctx context.Context, report *UserReport) error
	HasPendingReport(ctx context.Context, reporterID, reportedID uuid.UUID) (bool, error)
	ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]*UserReport, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates moderation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateReport inserts a report. The partial unique index on pending reports
// turns a concurrent duplicate into ErrDuplicateReport.
func (r *repository) CreateReport(ctx context.Context, report *UserReport) error {
	query := `
		INSERT INTO user_reports (id, reporter_id, reported_user_id, reason, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.ReporterID, report.ReportedUserID,
		report.Reason, report.Description, report.Status, report.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateReport
	}
	return err
}

func (r *repository) HasPendingReport(ctx context.Context, reporterID, reportedID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_reports
			WHERE reporter_id = $1 AND reported_user_id = $2 AND status = 'pending')`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, reporterID, reportedID)
	return exists, err
}

func (r *repository) ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]*UserReport, error) {
	query := `
		SELECT id, reporter_id, reported_user_id, reason, description, status, created_at, resolved_at
		FROM user_reports
		WHERE reporter_id = $1
		ORDER BY created_at DESC`
	var reports []*UserReport
	err := r.db.SelectContext(ctx, &reports, query, reporterID)
	return reports, err
}
