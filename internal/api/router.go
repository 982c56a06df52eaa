package api

import (
	"net/http"

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

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Command dispatch
		r.Post("/control", s.handleControl)

		// Device registry
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/{type}/{location}", s.handleGetDevice)
		})

		// Sensor readings
		r.Route("/sensors", func(r chi.Router) {
			r.Get("/", s.handleListSensors)
			r.Get("/{location}", s.handleGetSensor)
		})

		// Scenes
		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.handleListScenes)
			r.Get("/{name}", s.handleGetScene)
			r.Post("/{name}/execute", s.handleExecuteScene)
		})

		// State history
		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleListHistory)
			r.Get("/{type}/{location}", s.handleDeviceHistory)
		})

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	// Root-level WebSocket endpoint at the configured path, for clients
	// that predate the /api/v1 prefix.
	if s.wsCfg.Path != "" && s.wsCfg.Path != "/" {
		r.Get(s.wsCfg.Path, s.handleWebSocket)
	}

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"clients": s.hub.ClientCount(),
	})
}
