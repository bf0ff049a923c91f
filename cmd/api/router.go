package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matcha/matcha-api/internal/domain/auth"
	"github.com/matcha/matcha-api/internal/domain/location"
	"github.com/matcha/matcha-api/internal/domain/matching"
	"github.com/matcha/matcha-api/internal/domain/moderation"
	"github.com/matcha/matcha-api/internal/domain/notification"
	"github.com/matcha/matcha-api/internal/domain/photo"
	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/domain/relationships"
	"github.com/matcha/matcha-api/internal/domain/wizard"
	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

type routerConfig struct {
	allowedOrigins  []string
	requestTimeout  time.Duration
	uploadsDir      string
	auth            func(http.Handler) http.Handler
	completeProfile func(http.Handler) http.Handler
}

type handlers struct {
	auth          *auth.Handler
	profile       *profile.Handler
	photo         *photo.Handler
	relationships *relationships.Handler
	moderation    *moderation.Handler
	matching      *matching.Handler
	location      *location.Handler
	wizard        *wizard.Handler
	notification  *notification.Handler
	ws            http.Handler
}

func newRouter(cfg routerConfig, h handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.allowedOrigins))

	// Websocket handshake carries the token in the query string.
	r.With(middleware.QueryToken, cfg.auth).Get("/ws", h.ws.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if cfg.uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.uploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.requestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.requestTimeout))
		}

		r.Mount("/auth", h.auth.Routes(cfg.auth))
		r.Mount("/profiles", h.profile.Routes(cfg.auth))
		r.Mount("/photos", h.photo.Routes(cfg.auth))
		r.Mount("/browse", h.matching.Routes(cfg.auth, cfg.completeProfile))
		r.Mount("/location", h.location.Routes(cfg.auth))
		r.Mount("/onboarding", h.wizard.Routes(cfg.auth))
		r.Mount("/notifications", h.notification.Routes(cfg.auth))
		r.Mount("/history", h.relationships.HistoryRoutes(cfg.auth))

		r.Route("/users", func(r chi.Router) {
			r.Use(cfg.auth)
			r.Patch("/me", h.auth.UpdateMe)
			h.relationships.UserRoutes(r)
			h.moderation.UserRoutes(r)
		})

		r.With(cfg.auth).Get("/matches", h.relationships.Matches)
	})

	return r
}
