package client

import (
	"context"
	"net/http"

	"github.com/matcha/matcha-api/internal/domain/auth"
)

// Register creates an account and keeps its access token.
func (c *Client) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Tokens.AccessToken)
	return &out, nil
}

// Login signs in and keeps the access token.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", auth.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Tokens.AccessToken)
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", auth.RefreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Tokens.AccessToken)
	return &out, nil
}

// Logout revokes refreshToken and forgets the access token.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", auth.RefreshRequest{RefreshToken: refreshToken}, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*auth.UserResponse, error) {
	var out auth.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser changes account fields (PATCH /users/me).
func (c *Client) UpdateUser(ctx context.Context, req auth.UpdateUserRequest) (*auth.UserResponse, error) {
	var out auth.UserResponse
	if err := c.do(ctx, http.MethodPatch, "/users/me", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
