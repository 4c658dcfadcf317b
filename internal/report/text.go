package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// TextReporter renders a human-readable report for terminal output.
type TextReporter struct {
	// Verbose includes every probe attempt, not just the per-service line.
	Verbose bool
}

func NewText(verbose bool) *TextReporter {
	return &TextReporter{Verbose: verbose}
}

func (t *TextReporter) Render(r domain.ReadinessReport) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "readiness: %s (generated %s)\n\n",
		r.Overall, r.GeneratedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, result := range r.Results {
		fmt.Fprintf(tw, "  %s %s\t%s\t%s\t%s\n",
			statusGlyph(result.Status),
			result.Service,
			result.Status,
			formatLatency(result.TotalLatency()),
			result.Diagnostic,
		)
		if t.Verbose {
			writeAttempts(tw, result)
		}
	}
	if err := tw.Flush(); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	counts := r.Counts()
	fmt.Fprintf(&b, "\n%d services: %d healthy, %d unhealthy, %d degraded, %d skipped\n",
		counts.Total(), counts.Healthy, counts.Unhealthy, counts.Degraded, counts.Skipped)

	return b.String(), nil
}

func writeAttempts(tw *tabwriter.Writer, result domain.ServiceResult) {
	for _, o := range result.Outcomes {
		verdict := "ok"
		if !o.Succeeded {
			verdict = o.Diagnostic
		}
		fmt.Fprintf(tw, "      %s attempt %d\t%s\t%s\n",
			o.Probe, o.Attempt, formatLatency(o.Latency), verdict)
	}
}

func statusGlyph(status domain.ServiceStatus) string {
	switch status {
	case domain.StatusHealthy:
		return "✓"
	case domain.StatusUnhealthy:
		return "✗"
	case domain.StatusDegraded:
		return "~"
	case domain.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

// formatLatency keeps durations readable: sub-second values in
// milliseconds, the rest in seconds with one decimal.
func formatLatency(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
