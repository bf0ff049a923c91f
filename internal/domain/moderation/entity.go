package moderation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ReportReason represents the category of a report
type ReportReason string

const (
	ReportReasonFakeAccount ReportReason = "fake_account"
	ReportReasonSpam        ReportReason = "spam"
	ReportReasonAbuse       ReportReason = "abuse"
	ReportReasonOther       ReportReason = "other"
)

// ReportStatus represents the status of a report
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// UserReport represents a user-generated report for moderation
type UserReport struct {
	ID             uuid.UUID    `db:"id"`
	ReporterID     uuid.UUID    `db:"reporter_id"`
	ReportedUserID uuid.UUID    `db:"reported_user_id"`
	Reason         ReportReason `db:"reason"`
	Description    string       `db:"description"`
	Status         ReportStatus `db:"status"`
	CreatedAt      time.Time    `db:"created_at"`
	ResolvedAt     sql.NullTime `db:"resolved_at"`
}
