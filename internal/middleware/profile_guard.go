package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

// CompletionChecker reports whether a user's profile passes the completeness rules.
type CompletionChecker interface {
	IsProfileComplete(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequireCompleteProfile blocks social features until onboarding is done.
func RequireCompleteProfile(checker CompletionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == uuid.Nil {
				response.Unauthorized(w, "Authentication required")
				return
			}

			complete, err := checker.IsProfileComplete(r.Context(), userID)
			if err != nil {
				logger.LogError(r.Context(), err, "Failed to check profile completeness", "user_id", userID)
				response.InternalError(w)
				return
			}
			if !complete {
				response.Error(w, http.StatusForbidden, "PROFILE_INCOMPLETE", "Complete your profile first")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
