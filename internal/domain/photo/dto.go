package photo

import (
	"time"

	"github.com/google/uuid"
)

// ReorderRequest for PATCH /photos/reorder
type ReorderRequest struct {
	PhotoIDs []uuid.UUID `json:"photo_ids" validate:"required,min=1,max=5"`
}

// PhotoResponse represents photo in API response
type PhotoResponse struct {
	ID               uuid.UUID `json:"id"`
	URL              string    `json:"url"`
	Filename         string    `json:"filename"`
	MimeType         string    `json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	IsProfilePicture bool      `json:"is_profile_picture"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        string    `json:"created_at"`
}

// PhotoResponseFromEntity converts entity to response DTO
func PhotoResponseFromEntity(p *Photo) *PhotoResponse {
	return &PhotoResponse{
		ID:               p.ID,
		URL:              p.URL,
		Filename:         p.Filename,
		MimeType:         p.MimeType,
		SizeBytes:        p.SizeBytes,
		IsProfilePicture: p.IsProfilePicture,
		SortOrder:        p.SortOrder,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}

func listResponse(photos []*Photo) []*PhotoResponse {
	items := make([]*PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = PhotoResponseFromEntity(p)
	}
	return items
}
