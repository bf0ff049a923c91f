package relationships

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

// Handler handles relationship HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates relationship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func targetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

// Like handles POST /users/{id}/like
// @Summary Like a user
// @Description A like returned by the other user is a match. Requires a profile picture.
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response{data=LikeResult}
// @Failure 400,403,404 {object} response.Response
// @Router /users/{id}/like [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := targetID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Like(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, result)
}

// Unlike handles DELETE /users/{id}/like
// @Summary Remove a like
// @Tags Relationships
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /users/{id}/like [delete]
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := targetID(w, r)
	if !ok {
		return
	}

	if err := h.service.Unlike(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// BlockUser handles POST /users/{id}/block
// @Summary Block a user
// @Description Blocked users disappear from each other's browse, history and notifications.
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400,404 {object} response.Response
// @Router /users/{id}/block [post]
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	id, ok := targetID(w, r)
	if !ok {
		return
	}

	if err := h.service.BlockUser(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, map[string]string{"status": "ok"})
}

// UnblockUser handles DELETE /users/{id}/block
// @Summary Unblock a user
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/block [delete]
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	id, ok := targetID(w, r)
	if !ok {
		return
	}

	if err := h.service.UnblockUser(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, map[string]string{"status": "ok"})
}

// ListBlocked handles GET /users/me/blocked
// @Summary Users blocked by the current user
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]UserSummaryResponse}
// @Router /users/me/blocked [get]
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.ListMyBlocks(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, summariesFromEntities(blocks))
}

// History handles GET /history
// @Summary Likes and visits received
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=HistoryResponse}
// @Router /history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, HistoryResponse{
		Likes:  summariesFromEntities(history.Likes),
		Visits: summariesFromEntities(history.Visits),
	})
}

// LikesHistory handles GET /history/likes
// @Summary Users who liked the current user
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]UserSummaryResponse}
// @Router /history/likes [get]
func (h *Handler) LikesHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LikesReceived(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, summariesFromEntities(items))
}

// VisitsHistory handles GET /history/visits
// @Summary Users who viewed the current user's profile
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]UserSummaryResponse}
// @Router /history/visits [get]
func (h *Handler) VisitsHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.VisitsReceived(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, summariesFromEntities(items))
}

// Matches handles GET /matches
// @Summary Mutual likes
// @Tags Relationships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]UserSummaryResponse}
// @Router /matches [get]
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Matches(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, summariesFromEntities(items))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCannotLikeSelf):
		response.BadRequest(w, "You cannot like yourself")
	case errors.Is(err, ErrCannotBlockSelf):
		response.BadRequest(w, "You cannot block yourself")
	case errors.Is(err, ErrProfilePictureRequired):
		response.Forbidden(w, "Upload a profile picture before liking")
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrUserBlocked):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrLikeNotFound):
		response.NotFound(w, "Like not found")
	case errors.Is(err, ErrBlockNotFound):
		response.NotFound(w, "Block not found")
	default:
		logger.LogError(r.Context(), err, "Relationship request failed")
		response.InternalError(w)
	}
}
