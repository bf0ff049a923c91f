package notification

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/pkg/logger"
)

// Service handles notification logic
type Service struct {
	repo      Repository
	publisher RealtimePublisher
}

// NewService creates notification service. publisher may be nil.
func NewService(repo Repository, publisher RealtimePublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Create stores a notification and pushes it to the user's open sockets.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, notifType Type, title, body string, data *NotificationData) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if body != "" {
		n.Body = sql.NullString{String: body, Valid: true}
	}
	n.SetData(data)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		unread, err := s.repo.CountUnreadByUser(ctx, userID)
		if err != nil {
			unread = 0
		}
		if err := s.publisher.NotifyNew(ctx, userID, NotificationResponseFromEntity(n), unread); err != nil {
			logger.LogWarn(ctx, "Failed to push notification", "user_id", userID, "error", err.Error())
		}
	}

	return n, nil
}

// List returns notifications for user
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetUnreadCount returns unread count
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read.
func (s *Service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.MarkAsRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead marks all notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// --- Helper methods for creating specific notifications ---
// Failures are logged: a missed notification never fails the action behind it.

func (s *Service) notify(ctx context.Context, userID uuid.UUID, t Type, title, body string, actorID uuid.UUID, actorName string) {
	data := &NotificationData{ActorID: &actorID, ActorUsername: actorName}
	if _, err := s.Create(ctx, userID, t, title, body, data); err != nil {
		logger.LogError(ctx, err, "Failed to create notification", "user_id", userID, "type", string(t))
	}
}

// NotifyLike tells userID that actor liked them.
func (s *Service) NotifyLike(ctx context.Context, userID, actorID uuid.UUID, actorName string) {
	s.notify(ctx, userID, TypeLike, "New like", actorName+" liked your profile", actorID, actorName)
}

// NotifyVisit tells userID that actor viewed their profile.
func (s *Service) NotifyVisit(ctx context.Context, userID, actorID uuid.UUID, actorName string) {
	s.notify(ctx, userID, TypeVisit, "Profile visit", actorName+" viewed your profile", actorID, actorName)
}

// NotifyMatch tells userID they matched with actor.
func (s *Service) NotifyMatch(ctx context.Context, userID, actorID uuid.UUID, actorName string) {
	s.notify(ctx, userID, TypeMatch, "It's a match!", "You and "+actorName+" like each other", actorID, actorName)
}

// NotifyUnmatch tells userID that actor removed a mutual like.
func (s *Service) NotifyUnmatch(ctx context.Context, userID, actorID uuid.UUID, actorName string) {
	s.notify(ctx, userID, TypeUnmatch, "Unmatched", actorName+" is no longer connected with you", actorID, actorName)
}
