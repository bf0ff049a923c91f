package relationships

import (
	"time"

	"github.com/google/uuid"
)

// UserSummaryResponse is another user as listed in history, matches and blocks.
type UserSummaryResponse struct {
	UserID            uuid.UUID `json:"user_id"`
	Username          string    `json:"username"`
	FirstName         string    `json:"first_name,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	At                string    `json:"at"`
}

// HistoryResponse for GET /history
type HistoryResponse struct {
	Likes  []*UserSummaryResponse `json:"likes"`
	Visits []*UserSummaryResponse `json:"visits"`
}

func summaryFromEntity(c *Counterpart) *UserSummaryResponse {
	return &UserSummaryResponse{
		UserID:            c.UserID,
		Username:          c.Username,
		FirstName:         c.FirstName,
		ProfilePictureURL: c.ProfilePictureURL,
		At:                c.At.Format(time.RFC3339),
	}
}

func summariesFromEntities(items []*Counterpart) []*UserSummaryResponse {
	out := make([]*UserSummaryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, summaryFromEntity(c))
	}
	return out
}
