package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/user"
	"github.com/matcha/matcha-api/internal/pkg/jwt"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/password"
)

// ProfileCreator makes sure every account has an (empty) dating profile.
type ProfileCreator interface {
	Create(ctx context.Context, userID uuid.UUID) error
}

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	profiles   ProfileCreator
	jwtService *jwt.Service
	tokens     TokenStore
}

// NewService creates auth service
func NewService(userRepo user.Repository, profiles ProfileCreator, jwtService *jwt.Service, tokens TokenStore) *Service {
	return &Service{
		userRepo:   userRepo,
		profiles:   profiles,
		jwtService: jwtService,
		tokens:     tokens,
	}
}

// Register creates a new account with an empty profile and signs it in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := password.CheckStrength(req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, mapUserError(err)
	}
	if err := s.profiles.Create(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	logger.LogInfo(ctx, "User registered", "user_id", u.ID)
	return s.issue(ctx, u)
}

// Login authenticates by email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastSeen(ctx, u.ID); err != nil {
		logger.LogWarn(ctx, "Failed to update last seen", "user_id", u.ID, "error", err.Error())
	}
	// Accounts created before profiles existed get one on first login.
	if err := s.profiles.Create(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	return s.issue(ctx, u)
}

// Refresh rotates a refresh token: the old one stops working.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	hash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.tokens.Lookup(ctx, hash)
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}
	if err := s.tokens.Delete(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidRefreshToken
	}
	return s.issue(ctx, u)
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Delete(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns the authenticated account.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateMe changes account fields. Email and username stay unique.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest) (*user.User, error) {
	u, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.applyTo(u)
	u.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, mapUserError(err)
	}
	return u, nil
}

// SetNames stores first and last name. Used by onboarding.
func (s *Service) SetNames(ctx context.Context, userID uuid.UUID, firstName, lastName string) error {
	_, err := s.UpdateMe(ctx, userID, &UpdateUserRequest{FirstName: &firstName, LastName: &lastName})
	return err
}

func (s *Service) issue(ctx context.Context, u *user.User) (*AuthResponse, error) {
	access, err := s.jwtService.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, _, expiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokens.Store(ctx, jwt.HashRefreshToken(refresh), u.ID, time.Until(expiresAt)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User: NewUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return ErrEmailAlreadyExists
	case errors.Is(err, user.ErrUsernameAlreadyExists):
		return ErrUsernameAlreadyExists
	case errors.Is(err, user.ErrUserNotFound):
		return ErrUserNotFound
	}
	return err
}
