package relationships

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UserRoutes registers the per-user actions on a router mounted at /users.
func (h *Handler) UserRoutes(r chi.Router) {
	r.Get("/me/blocked", h.ListBlocked)
	r.Post("/{id}/like", h.Like)
	r.Delete("/{id}/like", h.Unlike)
	r.Post("/{id}/block", h.BlockUser)
	r.Delete("/{id}/block", h.UnblockUser)
}

// HistoryRoutes returns the router mounted at /history
func (h *Handler) HistoryRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.History)
	r.Get("/likes", h.LikesHistory)
	r.Get("/visits", h.VisitsHistory)

	return r
}
