package notification

import (
	"context"

	"github.com/google/uuid"
)

// RealtimePublisher publishes in-app notification realtime events.
type RealtimePublisher interface {
	NotifyNew(ctx context.Context, userID uuid.UUID, notification *NotificationResponse, unreadCount int) error
}

type wsUserSender interface {
	SendToUserJSON(userID uuid.UUID, payload any) error
}

// WSPublisher publishes notification:new events over websocket.
type WSPublisher struct {
	sender wsUserSender
}

// NewWSPublisher creates a WS-backed realtime publisher.
func NewWSPublisher(sender wsUserSender) *WSPublisher {
	return &WSPublisher{sender: sender}
}

func (p *WSPublisher) NotifyNew(ctx context.Context, userID uuid.UUID, notification *NotificationResponse, unreadCount int) error {
	if p == nil || p.sender == nil {
		return nil
	}

	return p.sender.SendToUserJSON(userID, Event{
		Type: EventNotificationNew,
		Data: map[string]interface{}{
			"notification": notification,
			"unread_count": unreadCount,
		},
	})
}
