/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the game client

ROUTE GROUPS:
  /api/users/*       Identity, config, sessions, progression
  /api/leaderboard   Ranked page
  /healthz           Liveness probe
  /metrics           Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware; identity is an opaque anonymous id
  issued by POST /api/users. Anything stronger is the deployment's
  problem.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetUser)
				r.Get("/config", h.GetConfig)
				r.Put("/config", h.UpdateConfig)
				r.Get("/rate", h.GetRate)

				r.Route("/session", func(r chi.Router) {
					r.Get("/", h.GetSession)
					r.Post("/start", h.StartSession)
					r.Post("/finish", h.FinishSession)
					r.Post("/discard", h.DiscardSession)
				})

				r.Get("/progression", h.GetProgression)
				r.Post("/locale", h.SwitchLocale)
				r.Post("/reset", h.ResetLifetime)
			})
		})

		r.Get("/leaderboard", h.GetLeaderboard)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
