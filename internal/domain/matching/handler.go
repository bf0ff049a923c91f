package matching

import (
	"errors"
	"net/http"

	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
	"github.com/matcha/matcha-api/internal/pkg/validator"
)

// Handler handles browse HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates browse handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Browse handles GET /browse
// @Summary Ranked list of compatible profiles
// @Tags Browse
// @Produce json
// @Security BearerAuth
// @Param age_min query int false "Minimum age"
// @Param age_max query int false "Maximum age"
// @Param fame_min query int false "Minimum fame rating"
// @Param fame_max query int false "Maximum fame rating"
// @Param location query string false "City substring"
// @Param tags query string false "Comma separated interest tags"
// @Param max_distance_km query number false "Maximum distance in km"
// @Param sort query string false "recommended, age, fame_rating, name, distance, common_interests"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response{data=[]CandidateResponse}
// @Failure 403,422,500 {object} response.Response
// @Router /browse [get]
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	req, errs := ParseBrowseRequest(r.URL.Query())
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	page, err := h.service.Browse(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		logger.LogError(r.Context(), err, "Browse failed", "user_id", userID)
		response.InternalError(w)
		return
	}

	items := make([]*CandidateResponse, len(page.Items))
	for i, c := range page.Items {
		items[i] = CandidateResponseFromCandidate(c)
	}

	response.WithMeta(w, items, response.NewMeta(page.Total, page.Page, page.Limit))
}
