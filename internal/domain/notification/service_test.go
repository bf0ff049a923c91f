package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu    sync.Mutex
	items []*Notification
}

func (r *fakeRepo) Create(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) MarkAsRead(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	var deleted int64
	for _, n := range r.items {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return deleted, nil
}

type fakePublisher struct {
	userID uuid.UUID
	resp   *NotificationResponse
	unread int
	err    error
}

func (p *fakePublisher) NotifyNew(ctx context.Context, userID uuid.UUID, n *NotificationResponse, unread int) error {
	p.userID, p.resp, p.unread = userID, n, unread
	return p.err
}

func TestService_NotifyMatchStoresAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewService(repo, pub)

	userID, actorID := uuid.New(), uuid.New()
	svc.NotifyMatch(context.Background(), userID, actorID, "camille")

	if len(repo.items) != 1 || repo.items[0].Type != TypeMatch {
		t.Fatalf("unexpected stored notifications %+v", repo.items)
	}
	data := repo.items[0].GetData()
	if data.ActorID == nil || *data.ActorID != actorID || data.ActorUsername != "camille" {
		t.Fatalf("unexpected data %+v", data)
	}
	if pub.userID != userID || pub.unread != 1 || pub.resp.Type != TypeMatch {
		t.Fatalf("unexpected publish %+v", pub)
	}
}

func TestService_PublishFailureDoesNotFailCreate(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakePublisher{err: errors.New("redis down")})

	if _, err := svc.Create(context.Background(), uuid.New(), TypeVisit, "Profile visit", "", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestService_MarkAsReadScopedToOwner(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	owner := uuid.New()
	n, _ := svc.Create(context.Background(), owner, TypeLike, "New like", "", nil)

	if err := svc.MarkAsRead(context.Background(), uuid.New(), n.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), owner, n.ID); err != nil {
		t.Fatalf("MarkAsRead() error = %v", err)
	}
	if count, _ := svc.GetUnreadCount(context.Background(), owner); count != 0 {
		t.Fatalf("unread = %d, want 0", count)
	}
}

func TestCleanupJob_RemovesOldReadOnly(t *testing.T) {
	old := time.Now().AddDate(0, 0, -100)
	repo := &fakeRepo{items: []*Notification{
		{ID: uuid.New(), IsRead: true, CreatedAt: old},
		{ID: uuid.New(), IsRead: false, CreatedAt: old},
		{ID: uuid.New(), IsRead: true, CreatedAt: time.Now()},
	}}

	if got := NewCleanupJob(repo, 90).RunOnce(context.Background()); got != 1 {
		t.Fatalf("deleted = %d, want 1", got)
	}
	if len(repo.items) != 2 {
		t.Fatalf("remaining = %d, want 2", len(repo.items))
	}
}
