package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Base    *Handler
	Contact *ContactHandler
	Health  *HealthHandler

	// ContactLimiter guards POST /api/contact. Nil disables limiting.
	ContactLimiter *RateLimiter
	// AdminToken enables the admin routes when non-empty.
	AdminToken   string
	ExposeErrors bool
}

// NewRouter builds the HTTP routes. Unknown paths are 404 and known paths
// with the wrong method are 405, both from chi.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(Recover(cfg.ExposeErrors))
	r.Use(SecurityHeaders)
	r.Use(cfg.Base.CORS)

	r.Get("/api/live", cfg.Base.Live)
	r.Get("/api/health", cfg.Health.Health)

	r.Group(func(r chi.Router) {
		if cfg.ContactLimiter != nil {
			r.Use(cfg.ContactLimiter.Middleware)
		}
		r.Post("/api/contact", cfg.Contact.Submit)
	})

	if cfg.AdminToken != "" {
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(RequireBearer(cfg.AdminToken))
			r.Get("/contacts", cfg.Contact.AdminList)
			r.Patch("/contacts/{id}/status", cfg.Contact.UpdateStatus)
		})
	}

	return r
}
