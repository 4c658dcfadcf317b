// Package handlers implements the serve-mode HTTP endpoints: liveness,
// readiness, and the full report.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// HealthHandler handles liveness and readiness HTTP endpoints. Readiness
// reflects the probed dependencies, not this process: a fresh evaluation
// runs on every request.
type HealthHandler struct {
	evaluator ports.Evaluator
}

func NewHealthHandler(evaluator ports.Evaluator) *HealthHandler {
	return &HealthHandler{evaluator: evaluator}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. Only required services gate the
// verdict: 200 when every required service is healthy, 503 otherwise.
// Optional services appear in the checks map but never flip the status.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	report := h.evaluator.Evaluate(r.Context())

	checks := make(map[string]string, len(report.Results))
	ready := true
	for _, result := range report.Results {
		verdict := result.Status.String()
		if result.Diagnostic != "" {
			verdict += ": " + result.Diagnostic
		}
		checks[result.Service] = verdict

		if result.Required && result.Status != domain.StatusHealthy {
			ready = false
		}
	}

	status := statusReady
	code := http.StatusOK
	if !ready {
		status = statusNotReady
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
