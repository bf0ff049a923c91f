package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationResponse is one entry of GET /notifications and the payload
// pushed over the websocket.
type NotificationResponse struct {
	ID        uuid.UUID         `json:"id"`
	Type      Type              `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body,omitempty"`
	Actor     *NotificationData `json:"actor,omitempty"`
	IsRead    bool              `json:"is_read"`
	ReadAt    *string           `json:"read_at,omitempty"`
	CreatedAt string            `json:"created_at"`
}

func NotificationResponseFromEntity(n *Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body.String,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt.Valid {
		at := n.ReadAt.Time.Format(time.RFC3339)
		resp.ReadAt = &at
	}
	if len(n.Data) > 0 {
		resp.Actor = n.GetData()
	}
	return resp
}

// UnreadCountResponse for GET /notifications/unread-count
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
