package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/errorhandler"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
	"github.com/matcha/matcha-api/internal/pkg/validator"
)

// Handler handles location HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates location handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Update handles POST /location
// @Summary Store the current user's location
// @Description Uses device coordinates, else a typed city, else the client IP, else the default city.
// @Tags Location
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateLocationRequest true "Location"
// @Success 200 {object} response.Response{data=Result}
// @Failure 400,422 {object} response.Response
// @Router /location [post]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateLocationRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if errs := req.pairErrors(); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.service.Update(r.Context(), userID, &req, middleware.ClientIP(r))
	if err != nil {
		logger.LogError(r.Context(), err, "Failed to update location", "user_id", userID)
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}

// LookupIP handles GET /location/ip
// @Summary Approximate location of the caller's IP address
// @Tags Location
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Result}
// @Failure 502,503 {object} response.Response
// @Router /location/ip [get]
func (h *Handler) LookupIP(w http.ResponseWriter, r *http.Request) {
	loc, err := h.service.Lookup(r.Context(), middleware.ClientIP(r))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, fromGeoIP(loc))
}

// Routes returns location router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Update)
	r.Get("/ip", h.LookupIP)

	return r
}
