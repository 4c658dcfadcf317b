package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/ports"
)

// ReportHandler serves the full readiness report with all probe attempts.
type ReportHandler struct {
	evaluator ports.Evaluator
	reporter  ports.Reporter
	logger    *slog.Logger
}

// NewReportHandler creates a ReportHandler. The reporter must render JSON;
// text output is a CLI concern.
func NewReportHandler(evaluator ports.Evaluator, reporter ports.Reporter, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReportHandler{evaluator: evaluator, reporter: reporter, logger: logger}
}

// Report handles GET /api/v1/report. The HTTP status mirrors the overall
// verdict so dashboards can alert without parsing the body: 200 unless a
// required service failed.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	report := h.evaluator.Evaluate(r.Context())

	body, err := h.reporter.Render(report)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "rendering report", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render report"})
		return
	}

	code := http.StatusOK
	if report.Overall == domain.OverallCriticalFailure {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
