/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

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
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/children/*   Children, their events, goals and snapshots
  /api/goals/*      Goal evaluation and lifecycle
  /api/chores       Chore catalog
  /api/templates    Goal template presets
  /api/scenarios/*  Demo scenarios
  /metrics          Prometheus metrics

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins feeds the CORS middleware; empty means same-origin only.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Child routes
		r.Route("/children", func(r chi.Router) {
			r.Get("/", h.ListChildren)
			r.Post("/", h.CreateChild)
			r.Get("/{id}", h.GetChild)
			r.Get("/{id}/snapshot", h.GetSnapshot)
			r.Get("/{id}/events", h.ListEvents)
			r.Post("/{id}/events", h.AppendEvent)
			r.Post("/{id}/chores/{choreID}", h.CompleteChore)
			r.Get("/{id}/goals", h.ListGoals)
			r.Post("/{id}/goals", h.CreateGoal)
		})

		// Goal routes
		r.Route("/goals", func(r chi.Router) {
			r.Get("/{id}", h.GetGoal)
			r.Get("/{id}/history", h.GetGoalHistory)
			r.Post("/{id}/redeem", h.RedeemGoal)
			r.Post("/{id}/reset", h.ResetGoal)
			r.Put("/{id}/priority", h.SetPriority)
			r.Delete("/{id}", h.DeleteGoal)
		})

		// Catalog routes
		r.Get("/chores", h.ListChores)
		r.Get("/templates", h.ListTemplates)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Prometheus metrics
	r.Handle("/metrics", h.Metrics.HTTPHandler())

	return r
}
