// Package client is a typed HTTP client for the Matcha API. It shapes
// requests and responses and maps failures back into errorhandler kinds.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/matcha/matcha-api/internal/pkg/errorhandler"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

const defaultTimeout = 15 * time.Second

// Client talks to one API base URL, e.g. http://localhost:8080/api/v1.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with an access token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken changes the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, v any) (request, error) {
	req := request{method: method, path: path}
	if v == nil {
		return req, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return req, errorhandler.Internal("encode request", err)
	}
	req.body = bytes.NewReader(data)
	req.contentType = "application/json"
	return req, nil
}

// send performs req and decodes the envelope's data into out (when non-nil).
// The returned meta is nil for endpoints that do not paginate.
func (c *Client) send(ctx context.Context, req request, out any) (*response.Meta, error) {
	op := req.method + " " + req.path

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return nil, errorhandler.Internal(op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errorhandler.Network(op, err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errorhandler.Network(op, err, true)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, statusError(op, resp.StatusCode, nil)
		}
		return nil, errorhandler.Network(op, fmt.Errorf("decode response: %w", err), false)
	}
	if resp.StatusCode >= 400 {
		return nil, statusError(op, resp.StatusCode, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, errorhandler.Network(op, fmt.Errorf("decode data: %w", err), false)
		}
	}
	return env.Meta, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	_, err = c.send(ctx, req, out)
	return err
}

func statusError(op string, status int, info *response.ErrorInfo) *errorhandler.Error {
	kind := errorhandler.KindForStatus(status)
	e := &errorhandler.Error{
		Kind:      kind,
		Op:        op,
		Message:   http.StatusText(status),
		Retryable: status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout || status == http.StatusTooManyRequests,
		Err:       &StatusError{Code: status},
	}
	if info != nil {
		e.Message = info.Message
		e.Fields = info.Details
		e.Err = &StatusError{Code: status, ErrorCode: info.Code}
	}
	return e
}

// StatusError keeps the raw HTTP status behind a classified error.
type StatusError struct {
	Code      int
	ErrorCode string
}

func (e *StatusError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("status %d (%s)", e.Code, e.ErrorCode)
	}
	return fmt.Sprintf("status %d", e.Code)
}

// HTTPStatus returns the response status behind err, or 0.
func HTTPStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
