package moderation

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
	"github.com/matcha/matcha-api/internal/pkg/validator"
)

// Handler handles moderation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateReport handles POST /users/{id}/report
// @Summary Report a user
// @Description Reasons: fake_account, spam, abuse, other. One pending report per user.
// @Tags Moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reported user ID"
// @Param request body CreateReportRequest true "Report"
// @Success 201 {object} response.Response{data=ReportResponse}
// @Failure 400,404,409,422 {object} response.Response
// @Router /users/{id}/report [post]
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	reportedID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req CreateReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	report, err := h.service.CreateReport(r.Context(), userID, reportedID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotReportSelf):
			response.BadRequest(w, "You cannot report yourself")
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, ErrDuplicateReport):
			response.Conflict(w, "You already reported this user")
		default:
			logger.LogError(r.Context(), err, "Failed to create report")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ReportResponseFromEntity(report))
}

// ListMyReports handles GET /users/me/reports
// @Summary Reports filed by the current user
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]ReportResponse}
// @Router /users/me/reports [get]
func (h *Handler) ListMyReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListMyReports(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		logger.LogError(r.Context(), err, "Failed to list reports")
		response.InternalError(w)
		return
	}

	items := make([]*ReportResponse, 0, len(reports))
	for _, report := range reports {
		items = append(items, ReportResponseFromEntity(report))
	}
	response.OK(w, items)
}
