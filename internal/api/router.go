package api

import (
	"dispatch-conflict-service/internal/api/handlers"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// db may be nil to skip the database probe in /health; metrics may be nil to leave
// /metrics unmounted.
func NewRouter(svc handlers.ConflictChecker, db handlers.Pinger, metrics http.Handler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	health := &handlers.HealthHandler{DB: db}
	conflicts := &handlers.ConflictHandler{Service: svc}

	r.Get("/health", health.Health)
	r.Get("/conflicts", conflicts.Day)
	r.Post("/conflicts/preview", conflicts.Preview)
	r.Post("/conflicts/refresh", conflicts.Refresh)
	r.Get("/assignments/{id}/conflicts", conflicts.Assignment)

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}
