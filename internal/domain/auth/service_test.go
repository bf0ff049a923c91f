package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/user"
	"github.com/matcha/matcha-api/internal/pkg/jwt"
	"github.com/matcha/matcha-api/internal/pkg/password"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) find(match func(*user.User) bool) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.find(func(u *user.User) bool { return u.ID == id }), nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.find(func(u *user.User) bool { return u.Email == email }), nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return f.find(func(u *user.User) bool { return u.Username == username }), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, other := range f.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
		if other.Username == u.Username {
			return user.ErrUsernameAlreadyExists
		}
	}
	if _, ok := f.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeProfiles struct {
	created []uuid.UUID
}

func (f *fakeProfiles) Create(ctx context.Context, userID uuid.UUID) error {
	f.created = append(f.created, userID)
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeProfiles) {
	users := newFakeUserRepo()
	profiles := &fakeProfiles{}
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, time.Hour)
	return NewService(users, profiles, jwtSvc, NewMemoryTokenStore()), users, profiles
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:     "  Alice@Example.com ",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Martin",
		Password:  "Secret123",
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, users, profiles := newTestService()

	resp, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.User.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("tokens missing: %+v", resp.Tokens)
	}
	if len(profiles.created) != 1 || profiles.created[0] != resp.User.ID {
		t.Fatalf("profile not created: %v", profiles.created)
	}
	stored, _ := users.GetByID(context.Background(), resp.User.ID)
	if stored.PasswordHash == "Secret123" || !password.Verify("Secret123", stored.PasswordHash) {
		t.Fatalf("password not hashed")
	}
}

func TestRegisterRejections(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	weak := registerRequest()
	weak.Email, weak.Username, weak.Password = "b@example.com", "bob", "alllowercase1"
	if _, err := svc.Register(context.Background(), weak); !errors.Is(err, password.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	dupEmail := registerRequest()
	dupEmail.Username = "other"
	if _, err := svc.Register(context.Background(), dupEmail); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	dupName := registerRequest()
	dupName.Email = "c@example.com"
	if _, err := svc.Register(context.Background(), dupName); !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, profiles := newTestService()
	if _, err := svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "Secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should look like bad credentials, got %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "ALICE@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.Username != "alice" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	if len(profiles.created) != 2 {
		t.Fatalf("login should ensure the profile exists")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestService()
	reg, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	next, err := svc.Refresh(context.Background(), reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if next.Tokens.RefreshToken == reg.Tokens.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(context.Background(), reg.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("old refresh token still accepted: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), next.Tokens.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestService()
	reg, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.Logout(context.Background(), reg.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Refresh(context.Background(), reg.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected revoked token, got %v", err)
	}
}

func TestUpdateMe(t *testing.T) {
	svc, _, _ := newTestService()
	alice, _ := svc.Register(context.Background(), registerRequest())
	bobReq := registerRequest()
	bobReq.Email, bobReq.Username = "bob@example.com", "bob"
	if _, err := svc.Register(context.Background(), bobReq); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	taken := "bob"
	if _, err := svc.UpdateMe(context.Background(), alice.User.ID, &UpdateUserRequest{Username: &taken}); !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}

	if err := svc.SetNames(context.Background(), alice.User.ID, " Alicia ", "Durand"); err != nil {
		t.Fatalf("SetNames() error = %v", err)
	}
	u, _ := svc.GetCurrentUser(context.Background(), alice.User.ID)
	if u.FirstName != "Alicia" || u.LastName != "Durand" || u.Username != "alice" {
		t.Fatalf("unexpected user after update: %+v", u)
	}

	if _, err := svc.GetCurrentUser(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryTokenStoreExpires(t *testing.T) {
	store := NewMemoryTokenStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	id := uuid.New()

	if err := store.Store(context.Background(), "h", id, time.Minute); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if got, err := store.Lookup(context.Background(), "h"); err != nil || got != id {
		t.Fatalf("Lookup() = %v, %v", got, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Lookup(context.Background(), "h"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected expiry, got %v", err)
	}
}
