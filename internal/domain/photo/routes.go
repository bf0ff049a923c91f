package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns photo router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Patch("/reorder", h.Reorder)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/profile-picture", h.SetProfilePicture)

	return r
}
