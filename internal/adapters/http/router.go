// Package http provides the inbound HTTP adapter for serve mode: routing
// and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/readycheck/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all serve-mode routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Full report with per-attempt detail.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", reportHandler.Report)
	})

	return r
}
