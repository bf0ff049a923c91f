package relationships

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/user"
)

type pair [2]uuid.UUID

type fakeRepo struct {
	mu     sync.Mutex
	likes  map[pair]time.Time
	blocks map[pair]bool
	visits []*Visit
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{likes: map[pair]time.Time{}, blocks: map[pair]bool{}}
}

func (r *fakeRepo) CreateBlock(ctx context.Context, b *BlockRelation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks[pair{b.BlockerUserID, b.BlockedUserID}] = true
	delete(r.likes, pair{b.BlockerUserID, b.BlockedUserID})
	delete(r.likes, pair{b.BlockedUserID, b.BlockerUserID})
	return nil
}

func (r *fakeRepo) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pair{blockerID, blockedID}
	ok := r.blocks[k]
	delete(r.blocks, k)
	return ok, nil
}

func (r *fakeRepo) blocked(a, b uuid.UUID) bool {
	return r.blocks[pair{a, b}] || r.blocks[pair{b, a}]
}

func (r *fakeRepo) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocked(a, b), nil
}

func (r *fakeRepo) ListBlocks(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Counterpart
	for k := range r.blocks {
		if k[0] == userID {
			out = append(out, &Counterpart{UserID: k[1]})
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateLike(ctx context.Context, likerID, likedID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pair{likerID, likedID}
	if _, ok := r.likes[k]; ok {
		return false, nil
	}
	r.likes[k] = time.Now()
	return true, nil
}

func (r *fakeRepo) DeleteLike(ctx context.Context, likerID, likedID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pair{likerID, likedID}
	_, ok := r.likes[k]
	delete(r.likes, k)
	return ok, nil
}

func (r *fakeRepo) HasLiked(ctx context.Context, likerID, likedID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[pair{likerID, likedID}]
	return ok, nil
}

func (r *fakeRepo) CreateVisit(ctx context.Context, v *Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, v)
	return nil
}

func (r *fakeRepo) CountReceived(ctx context.Context, userID uuid.UUID) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	likes, visits := 0, 0
	for k := range r.likes {
		if k[1] == userID && !r.blocked(k[0], userID) {
			likes++
		}
	}
	for _, v := range r.visits {
		if v.VisitedID == userID && !r.blocked(v.VisitorID, userID) {
			visits++
		}
	}
	return likes, visits, nil
}

func (r *fakeRepo) ListLikesReceived(ctx context.Context, userID uuid.UUID, limit int) ([]*Counterpart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Counterpart
	for k, at := range r.likes {
		if k[1] == userID && !r.blocked(k[0], userID) {
			out = append(out, &Counterpart{UserID: k[0], At: at})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListVisitsReceived(ctx context.Context, userID uuid.UUID, limit int) ([]*Counterpart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Counterpart
	for _, v := range r.visits {
		if v.VisitedID == userID && !r.blocked(v.VisitorID, userID) {
			out = append(out, &Counterpart{UserID: v.VisitorID, At: v.CreatedAt})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListMatches(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Counterpart
	for k := range r.likes {
		if k[0] != userID {
			continue
		}
		if _, back := r.likes[pair{k[1], userID}]; back {
			out = append(out, &Counterpart{UserID: k[1]})
		}
	}
	return out, nil
}

type fakeUsers map[uuid.UUID]*user.User

func (f fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f[id], nil
}

type fakePhotos map[uuid.UUID]bool

func (f fakePhotos) HasProfilePicture(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f[userID], nil
}

type fakeFame struct {
	mu   sync.Mutex
	fame map[uuid.UUID]int
}

func (f *fakeFame) UpdateFameRating(ctx context.Context, userID uuid.UUID, fame int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fame[userID] = fame
	return nil
}

type sent struct {
	kind    string
	userID  uuid.UUID
	actorID uuid.UUID
}

type fakeNotifier struct{ sent []sent }

func (n *fakeNotifier) NotifyLike(ctx context.Context, userID, actorID uuid.UUID, _ string) {
	n.sent = append(n.sent, sent{"like", userID, actorID})
}

func (n *fakeNotifier) NotifyVisit(ctx context.Context, userID, actorID uuid.UUID, _ string) {
	n.sent = append(n.sent, sent{"visit", userID, actorID})
}

func (n *fakeNotifier) NotifyMatch(ctx context.Context, userID, actorID uuid.UUID, _ string) {
	n.sent = append(n.sent, sent{"match", userID, actorID})
}

func (n *fakeNotifier) NotifyUnmatch(ctx context.Context, userID, actorID uuid.UUID, _ string) {
	n.sent = append(n.sent, sent{"unmatch", userID, actorID})
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	fame     *fakeFame
	notifier *fakeNotifier
	alice    uuid.UUID
	bob      uuid.UUID
}

func newFixture() *fixture {
	alice := &user.User{ID: uuid.New(), Username: "alice"}
	bob := &user.User{ID: uuid.New(), Username: "bob"}
	f := &fixture{
		repo:     newFakeRepo(),
		fame:     &fakeFame{fame: map[uuid.UUID]int{}},
		notifier: &fakeNotifier{},
		alice:    alice.ID,
		bob:      bob.ID,
	}
	users := fakeUsers{alice.ID: alice, bob.ID: bob}
	photos := fakePhotos{alice.ID: true, bob.ID: true}
	f.svc = NewService(f.repo, users, photos, f.fame, f.notifier)
	return f
}

func TestFameRating(t *testing.T) {
	tests := []struct {
		likes, visits, want int
	}{
		{0, 0, 0},
		{1, 0, 5},
		{0, 3, 1},
		{4, 10, 25},
		{30, 0, 100},
	}
	for _, tt := range tests {
		if got := FameRating(tt.likes, tt.visits); got != tt.want {
			t.Errorf("FameRating(%d, %d) = %d, want %d", tt.likes, tt.visits, got, tt.want)
		}
	}
}

func TestService_LikeThenMatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Like(ctx, f.alice, f.bob)
	if err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if res.Matched {
		t.Fatalf("one-sided like reported as match")
	}
	if f.fame.fame[f.bob] != 5 {
		t.Fatalf("bob fame = %d, want 5", f.fame.fame[f.bob])
	}

	res, err = f.svc.Like(ctx, f.bob, f.alice)
	if err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if !res.Matched {
		t.Fatalf("mutual like not reported as match")
	}

	want := []sent{
		{"like", f.bob, f.alice},
		{"match", f.alice, f.bob},
		{"match", f.bob, f.alice},
	}
	if len(f.notifier.sent) != len(want) {
		t.Fatalf("notifications = %+v", f.notifier.sent)
	}
	for i := range want {
		if f.notifier.sent[i] != want[i] {
			t.Fatalf("notification %d = %+v, want %+v", i, f.notifier.sent[i], want[i])
		}
	}

	matches, _ := f.svc.Matches(ctx, f.alice)
	if len(matches) != 1 || matches[0].UserID != f.bob {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestService_LikeTwiceIsQuiet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _ = f.svc.Like(ctx, f.alice, f.bob)
	if _, err := f.svc.Like(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("second Like() error = %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected a single notification, got %+v", f.notifier.sent)
	}
}

func TestService_LikeRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Like(ctx, f.alice, f.alice); !errors.Is(err, ErrCannotLikeSelf) {
		t.Fatalf("self like: got %v", err)
	}
	if _, err := f.svc.Like(ctx, f.alice, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown target: got %v", err)
	}

	f.svc.photos = fakePhotos{}
	if _, err := f.svc.Like(ctx, f.alice, f.bob); !errors.Is(err, ErrProfilePictureRequired) {
		t.Fatalf("no picture: got %v", err)
	}
}

func TestService_UnlikeMatchNotifiesUnmatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.svc.Like(ctx, f.alice, f.bob)
	_, _ = f.svc.Like(ctx, f.bob, f.alice)
	f.notifier.sent = nil

	if err := f.svc.Unlike(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("Unlike() error = %v", err)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0] != (sent{"unmatch", f.bob, f.alice}) {
		t.Fatalf("unexpected notifications %+v", f.notifier.sent)
	}
	if f.fame.fame[f.bob] != 0 {
		t.Fatalf("bob fame = %d, want 0", f.fame.fame[f.bob])
	}

	if err := f.svc.Unlike(ctx, f.alice, f.bob); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("second unlike: got %v", err)
	}
}

func TestService_BlockRemovesLikesAndHides(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.svc.Like(ctx, f.alice, f.bob)
	_, _ = f.svc.Like(ctx, f.bob, f.alice)

	if err := f.svc.BlockUser(ctx, f.bob, f.alice); err != nil {
		t.Fatalf("BlockUser() error = %v", err)
	}
	if len(f.repo.likes) != 0 {
		t.Fatalf("likes survived the block: %v", f.repo.likes)
	}
	if f.fame.fame[f.alice] != 0 || f.fame.fame[f.bob] != 0 {
		t.Fatalf("fame not recomputed: %v", f.fame.fame)
	}

	f.notifier.sent = nil
	if _, err := f.svc.Like(ctx, f.alice, f.bob); !errors.Is(err, ErrUserBlocked) {
		t.Fatalf("like across a block: got %v", err)
	}
	if err := f.svc.RecordVisit(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("RecordVisit() error = %v", err)
	}
	if len(f.repo.visits) != 0 || len(f.notifier.sent) != 0 {
		t.Fatalf("blocked visit was recorded or notified")
	}

	if err := f.svc.BlockUser(ctx, f.alice, f.alice); !errors.Is(err, ErrCannotBlockSelf) {
		t.Fatalf("self block: got %v", err)
	}
	if err := f.svc.UnblockUser(ctx, f.alice, f.bob); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("unblock of missing block: got %v", err)
	}
	if err := f.svc.UnblockUser(ctx, f.bob, f.alice); err != nil {
		t.Fatalf("UnblockUser() error = %v", err)
	}
}

func TestService_RecordVisit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.svc.RecordVisit(ctx, f.alice, f.alice); err != nil || len(f.repo.visits) != 0 {
		t.Fatalf("self visit recorded: err=%v visits=%d", err, len(f.repo.visits))
	}

	for i := 0; i < 4; i++ {
		if err := f.svc.RecordVisit(ctx, f.alice, f.bob); err != nil {
			t.Fatalf("RecordVisit() error = %v", err)
		}
	}
	if f.fame.fame[f.bob] != 2 {
		t.Fatalf("bob fame = %d, want 2", f.fame.fame[f.bob])
	}
	if f.notifier.sent[0] != (sent{"visit", f.bob, f.alice}) {
		t.Fatalf("unexpected notification %+v", f.notifier.sent[0])
	}
}

func TestService_History(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.svc.Like(ctx, f.alice, f.bob)
	_ = f.svc.RecordVisit(ctx, f.alice, f.bob)

	h, err := f.svc.History(ctx, f.bob)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(h.Likes) != 1 || len(h.Visits) != 1 || h.Likes[0].UserID != f.alice {
		t.Fatalf("unexpected history %+v", h)
	}

	empty, err := f.svc.History(ctx, f.alice)
	if err != nil || len(empty.Likes) != 0 || len(empty.Visits) != 0 {
		t.Fatalf("expected empty history, got %+v (%v)", empty, err)
	}
}
