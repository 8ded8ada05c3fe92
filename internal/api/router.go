package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/buildings/{buildingID}", func(r chi.Router) {
				r.Get("/devices", s.handleListDevices)
				r.Get("/devices/categorized", s.handleListCategorized)
				r.Get("/devices/{deviceID}", s.handleGetDevice)
				r.Get("/entrance", s.handleEntrance)
			})

			r.Route("/control/{key}", func(r chi.Router) {
				r.Post("/acquire", s.handleAcquire)
				r.Delete("/release", s.handleRelease)
				r.Get("/", s.handleReadModel)
				r.Post("/{action}", s.handleAction)
			})
		})

		// WebSocket (auth via token query parameter, validated in handler)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status with per-dependency detail.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{}

	if s.mqtt != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.mqtt.HealthCheck(ctx); err != nil {
			deps["mqtt"] = "down"
		} else {
			deps["mqtt"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"version":      s.version,
		"devices":      s.snapshot.Count(),
		"sessions":     s.control.Count(),
		"dependencies": deps,
	})
}
