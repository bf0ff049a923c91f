package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns browse router. Only users with a complete profile may browse.
func (h *Handler) Routes(authMiddleware, completeProfile func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware, completeProfile)

	r.Get("/", h.Browse)

	return r
}
