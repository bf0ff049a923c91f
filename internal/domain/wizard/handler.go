package wizard

import (
	"errors"
	"io"
	"net/http"

	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
	"github.com/matcha/matcha-api/internal/pkg/validator"
)

// Handler handles onboarding HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates onboarding handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /onboarding
// @Summary Current onboarding state
// @Description Starts a session seeded from the stored profile when none exists.
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Param flow query string false "streamlined or extended, for a new session"
// @Success 200 {object} response.Response{data=StateResponse}
// @Router /onboarding [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	state, err := h.service.Get(r.Context(), userID, ParseFlow(r.URL.Query().Get("flow")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, state)
}

// Next handles POST /onboarding/next
// @Summary Save the current step and advance
// @Description The body is merged into the draft first. On the last step this finishes the wizard.
// @Tags Onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StepInput false "Fields of the current step"
// @Success 200 {object} response.Response{data=StateResponse}
// @Failure 404,409,422 {object} response.Response
// @Router /onboarding/next [post]
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	var input StepInput
	if err := response.DecodeJSON(r.Body, &input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&input); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	state, err := h.service.Next(r.Context(), middleware.GetUserID(r.Context()), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, state)
}

// Previous handles POST /onboarding/previous
// @Summary Go back one step without saving
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=StateResponse}
// @Router /onboarding/previous [post]
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Previous(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, state)
}

// Skip handles POST /onboarding/skip
// @Summary Skip an optional step
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=StateResponse}
// @Failure 409 {object} response.Response
// @Router /onboarding/skip [post]
func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Skip(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, state)
}

// Finish handles POST /onboarding/finish
// @Summary Persist the draft if the profile is complete
// @Description An incomplete draft is not saved; missing_fields lists what is required.
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=StateResponse}
// @Router /onboarding/finish [post]
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Finish(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, state)
}

// Abandon handles DELETE /onboarding
// @Summary Discard the onboarding session and its draft
// @Tags Onboarding
// @Security BearerAuth
// @Success 204
// @Router /onboarding [delete]
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFound(w, "No onboarding in progress")
	case errors.Is(err, profile.ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, ErrStepNotOptional):
		response.Conflict(w, "This step cannot be skipped")
	case errors.Is(err, ErrAlreadyDone):
		response.Conflict(w, "Onboarding is already finished")
	default:
		logger.LogError(r.Context(), err, "Onboarding request failed")
		response.InternalError(w)
	}
}
