package wizard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns onboarding router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.Get)
	r.Delete("/", h.Abandon)
	r.Post("/next", h.Next)
	r.Post("/previous", h.Previous)
	r.Post("/skip", h.Skip)
	r.Post("/finish", h.Finish)

	return r
}
