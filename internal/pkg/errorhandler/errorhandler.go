// Package errorhandler classifies boundary failures into a small taxonomy and
// renders them as HTTP responses.
package errorhandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNetwork
	KindNotFound
	KindPermissionDenied
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to users.
type Error struct {
	Kind      Kind
	Op        string
	Message   string
	Retryable bool
	Fields    map[string]string
	Err       error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == "" && t.Op == ""
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func PermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

// Network wraps a failed call to a collaborator. Timeouts are retryable.
func Network(op string, err error, retryable bool) *Error {
	return &Error{Kind: KindNetwork, Op: op, Message: "upstream service unavailable", Retryable: retryable, Err: err}
}

func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: "An unexpected error occurred", Err: err}
}

// KindOf returns the kind of the first classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps a kind to the HTTP status it is rendered with.
func Status(kind Kind, retryable bool) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNetwork:
		if retryable {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus is the inverse used by API clients.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindPermissionDenied
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return KindNetwork
	default:
		return KindInternal
	}
}

const retryAfterSeconds = 5

// Handle logs err and writes the matching response. Unclassified errors become 500.
func Handle(ctx context.Context, w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		logger.LogError(ctx, err, "Unhandled error")
		response.InternalError(w)
		return
	}

	switch e.Kind {
	case KindValidation:
		logger.LogDebug(ctx, "Validation error", "message", e.Message)
		if len(e.Fields) > 0 {
			response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", e.Message, e.Fields)
			return
		}
		response.Unprocessable(w, e.Message)
	case KindNotFound:
		response.NotFound(w, e.Message)
	case KindPermissionDenied:
		logger.LogWarn(ctx, "Permission denied", "message", e.Message)
		response.Forbidden(w, e.Message)
	case KindNetwork:
		logger.LogError(ctx, e.Err, "Upstream call failed", "op", e.Op, "retryable", e.Retryable)
		if e.Retryable {
			response.ServiceUnavailable(w, e.Message+", please retry", retryAfterSeconds)
			return
		}
		response.BadGateway(w, e.Message)
	default:
		logger.LogError(ctx, err, "Internal error", "op", e.Op)
		response.InternalError(w)
	}
}
