package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/middleware"
)

func newTestRouter(svc *Service, userID *uuid.UUID) http.Handler {
	h := NewHandler(svc)
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), *userID)))
		})
	}
	r := chi.NewRouter()
	r.Mount("/auth", h.Routes(auth))
	r.With(auth).Patch("/users/me", h.UpdateMe)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	var current uuid.UUID
	router := newTestRouter(svc, &current)

	rec := do(t, router, http.MethodPost, "/auth/register", registerRequest())
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, router, http.MethodPost, "/auth/register", registerRequest())
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/auth/login", LoginRequest{Email: "alice@example.com", Password: "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, "/auth/login", LoginRequest{Email: "alice@example.com", Password: "Secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	current = payload.Data.User.ID

	rec = do(t, router, http.MethodGet, "/auth/me", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, "/auth/logout", RefreshRequest{RefreshToken: payload.Data.Tokens.RefreshToken})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: payload.Data.Tokens.RefreshToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d", rec.Code)
	}
}

func TestHandlerValidation(t *testing.T) {
	svc, _, _ := newTestService()
	var current uuid.UUID
	router := newTestRouter(svc, &current)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"invalid email", http.MethodPost, "/auth/register", RegisterRequest{Email: "nope", Username: "al", Password: "x"}, http.StatusUnprocessableEntity},
		{"weak password", http.MethodPost, "/auth/register", RegisterRequest{Email: "a@b.co", Username: "alice", FirstName: "A", LastName: "B", Password: "lowercase1"}, http.StatusUnprocessableEntity},
		{"empty patch", http.MethodPatch, "/users/me", map[string]string{}, http.StatusBadRequest},
		{"missing refresh token", http.MethodPost, "/auth/refresh", map[string]string{}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerAcceptsPaddedEmail(t *testing.T) {
	svc, _, _ := newTestService()
	var current uuid.UUID
	router := newTestRouter(svc, &current)

	rec := do(t, router, http.MethodPost, "/auth/register", registerRequest())
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodPost, "/auth/login", LoginRequest{Email: " ALICE@example.com  ", Password: "Secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Data.User.Email != "alice@example.com" {
		t.Fatalf("email = %q", payload.Data.User.Email)
	}

	current = payload.Data.User.ID
	rec = do(t, router, http.MethodPatch, "/users/me", map[string]string{"email": "  New@Example.com "})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body.String())
	}
}
