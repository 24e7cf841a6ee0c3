// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"calories/internal/app"
	"calories/internal/domain"
)

// Server is the driving HTTP adapter that routes requests to the tracker.
type Server struct {
	tracker *app.CalorieTracker
	ids     domain.IDGenerator
	logger  *slog.Logger
	webDir  string
	metrics http.Handler
}

// New creates a Server wired to the given tracker. Record ids are drawn
// from ids.
func New(t *app.CalorieTracker, ids domain.IDGenerator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{tracker: t, ids: ids, logger: logger}
}

// WithWebDir serves a static front end from dir for non-API paths.
func (s *Server) WithWebDir(dir string) *Server {
	s.webDir = dir
	return s
}

// WithMetrics mounts h at /metrics.
func (s *Server) WithMetrics(h http.Handler) *Server {
	s.metrics = h
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("GET /tracker", s.handleTracker)
	api.HandleFunc("PUT /limit", s.handleSetLimit)
	api.HandleFunc("POST /reset", s.handleReset)

	api.HandleFunc("GET /meals", s.handleList(domain.KindMeal))
	api.HandleFunc("POST /meals", s.handleCreate(domain.KindMeal))
	api.HandleFunc("DELETE /meals/{id}", s.handleRemove(domain.KindMeal))

	api.HandleFunc("GET /workouts", s.handleList(domain.KindWorkout))
	api.HandleFunc("POST /workouts", s.handleCreate(domain.KindWorkout))
	api.HandleFunc("DELETE /workouts/{id}", s.handleRemove(domain.KindWorkout))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.metrics != nil {
		root.Handle("/metrics", s.metrics)
	}
	if s.webDir != "" {
		root.Handle("/", spaFromDisk(s.webDir))
	}

	return s.loggingMiddleware(withNoCache(root))
}
