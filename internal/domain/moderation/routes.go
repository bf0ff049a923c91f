package moderation

import "github.com/go-chi/chi/v5"

// UserRoutes registers report endpoints on a router mounted at /users.
func (h *Handler) UserRoutes(r chi.Router) {
	r.Post("/{id}/report", h.CreateReport)
	r.Get("/me/reports", h.ListMyReports)
}
