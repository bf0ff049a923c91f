package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/user"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// Normalize cleans the email before it is validated.
func (r *RegisterRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// RefreshRequest for POST /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateUserRequest for PATCH /users/me. Only fields present change.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Username  *string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		email := normalizeEmail(*r.Email)
		r.Email = &email
	}
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Email == nil && r.Username == nil && r.FirstName == nil && r.LastName == nil
}

func (r *UpdateUserRequest) applyTo(u *user.User) {
	if r.Email != nil {
		u.Email = normalizeEmail(*r.Email)
	}
	if r.Username != nil {
		u.Username = strings.TrimSpace(*r.Username)
	}
	if r.FirstName != nil {
		u.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		u.LastName = strings.TrimSpace(*r.LastName)
	}
}

// AuthResponse returned after login/register
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// UserResponse represents user in API response
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     string    `json:"created_at"`
}

// TokensResponse represents tokens in API response
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds until access token expires
	TokenType    string `json:"token_type"`
}

// NewUserResponse creates UserResponse from user data
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
