package moderation

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest for POST /users/{id}/report
type CreateReportRequest struct {
	Reason      ReportReason `json:"reason" validate:"required,oneof=fake_account spam abuse other"`
	Description string       `json:"description,omitempty" validate:"max=1000"`
}

// ReportResponse represents a report in API response
type ReportResponse struct {
	ID             uuid.UUID    `json:"id"`
	ReportedUserID uuid.UUID    `json:"reported_user_id"`
	Reason         ReportReason `json:"reason"`
	Description    string       `json:"description,omitempty"`
	Status         ReportStatus `json:"status"`
	CreatedAt      string       `json:"created_at"`
}

// ReportResponseFromEntity converts entity to response
func ReportResponseFromEntity(r *UserReport) *ReportResponse {
	return &ReportResponse{
		ID:             r.ID,
		ReportedUserID: r.ReportedUserID,
		Reason:         r.Reason,
		Description:    r.Description,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}
