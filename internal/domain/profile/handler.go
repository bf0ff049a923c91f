package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
	"github.com/matcha/matcha-api/internal/pkg/validator"
)

// Presence reports whether a user has an open realtime connection.
type Presence interface {
	IsOnline(userID uuid.UUID) bool
}

// Handler handles profile HTTP requests
type Handler struct {
	service  *Service
	presence Presence
}

// NewHandler creates profile handler. presence may be nil.
func NewHandler(service *Service, presence Presence) *Handler {
	return &Handler{service: service, presence: presence}
}

// GetMe handles GET /profiles/me
// @Summary Current user's profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profiles/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.GetMine(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, ProfileResponseFromEntity(p))
}

// UpdateMe handles PATCH /profiles/me
// @Summary Partially update the current user's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /profiles/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if req.IsEmpty() {
		response.BadRequest(w, "No fields to update")
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Update(r.Context(), userID, req.Changes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, ProfileResponseFromEntity(p))
}

// GetCompleteness handles GET /profiles/me/completeness
// @Summary Completion status of the current user's profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=CompletionStatus}
// @Router /profiles/me/completeness [get]
func (h *Handler) GetCompleteness(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	response.OK(w, h.service.Completeness(r.Context(), userID))
}

// GetByID handles GET /profiles/{userId}
// @Summary Another user's public profile
// @Description Records a visit when the viewer is not the owner.
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 404 {object} response.Response
// @Router /profiles/{userId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	p, err := h.service.View(r.Context(), viewerID, targetID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := PublicProfileResponseFromEntity(p)
	if viewerID == targetID {
		resp = ProfileResponseFromEntity(p)
	}
	if h.presence != nil {
		resp.IsOnline = h.presence.IsOnline(targetID)
	}
	response.OK(w, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrProfileBlocked):
		// Blocked profiles are indistinguishable from missing ones.
		response.NotFound(w, "Profile not found")
	default:
		logger.LogError(r.Context(), err, "Profile request failed")
		response.InternalError(w)
	}
}
