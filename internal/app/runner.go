package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/platform/telemetry"
	"github.com/jsamuelsen11/readycheck/internal/ports"
)

// deadlineDiagnostic marks a service the overall run deadline cut off.
const deadlineDiagnostic = "deadline exceeded"

// Runner executes all probes of a single service through their retry
// budgets and folds the attempts into one ServiceResult.
// Safe for concurrent use.
type Runner struct {
	metrics *telemetry.Metrics // nil disables metric recording
	logger  *slog.Logger
}

func NewRunner(metrics *telemetry.Metrics, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{metrics: metrics, logger: logger}
}

// Run probes one service. Every attempt is recorded as an outcome, in
// probe order and attempt order. The service folds to:
//
//   - Skipped when ctx expires before all probes resolve
//   - Unhealthy when a critical probe exhausts its retries
//   - Degraded when only non-critical probes fail
//   - Healthy otherwise
//
// All probes run even after a critical failure so the report shows the
// full picture, unless the deadline cuts the run short.
func (r *Runner) Run(ctx context.Context, svc Service) domain.ServiceResult {
	result := domain.ServiceResult{
		Service:  svc.Spec.Name,
		Required: svc.Spec.Required,
	}

	var criticalFailed, optionalFailed bool

	for _, prober := range svc.Probers {
		if ctx.Err() != nil {
			return skipResult(result)
		}

		outcomes, succeeded := r.runProbe(ctx, svc.Spec, prober)
		result.Outcomes = append(result.Outcomes, outcomes...)
		if succeeded {
			continue
		}
		if ctx.Err() != nil {
			return skipResult(result)
		}

		if prober.Critical() {
			criticalFailed = true
		} else {
			optionalFailed = true
		}
		if result.Diagnostic == "" && len(outcomes) > 0 {
			last := outcomes[len(outcomes)-1]
			result.Diagnostic = fmt.Sprintf("%s: %s", last.Probe, last.Diagnostic)
		}
	}

	switch {
	case criticalFailed:
		result.Status = domain.StatusUnhealthy
	case optionalFailed:
		result.Status = domain.StatusDegraded
	default:
		result.Status = domain.StatusHealthy
		result.Diagnostic = ""
	}
	return result
}

// runProbe runs one probe through its retry budget: at most Retries+1
// attempts, stopping early on the first success or when the parent context
// expires.
func (r *Runner) runProbe(ctx context.Context, spec domain.ServiceSpec, prober ports.Prober) ([]domain.ProbeOutcome, bool) {
	maxAttempts := spec.Retries + 1
	outcomes := make([]domain.ProbeOutcome, 0, maxAttempts)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := r.waitForRetry(ctx, spec, prober, attempt); err != nil {
				return outcomes, false
			}
		}

		outcome := r.attempt(ctx, spec, prober, attempt)
		outcomes = append(outcomes, outcome)
		r.recordAttempt(ctx, spec.Name, prober, outcome)

		if outcome.Succeeded {
			return outcomes, true
		}
		if ctx.Err() != nil {
			return outcomes, false
		}
	}
	return outcomes, false
}

// attempt executes a single probe attempt under the per-attempt timeout.
func (r *Runner) attempt(ctx context.Context, spec domain.ServiceSpec, prober ports.Prober, attempt int) domain.ProbeOutcome {
	attemptCtx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	start := time.Now()
	err := prober.Check(attemptCtx)
	latency := time.Since(start)

	outcome := domain.ProbeOutcome{
		Probe:   prober.Describe(),
		Attempt: attempt,
		Latency: latency,
	}
	if err == nil {
		outcome.Succeeded = true
		return outcome
	}

	outcome.Diagnostic = diagnose(ctx, err, spec.Timeout)
	return outcome
}

// diagnose translates an attempt error into a report diagnostic. A
// per-attempt timeout and the overall run deadline read differently even
// though both surface as context.DeadlineExceeded.
func diagnose(parent context.Context, err error, timeout time.Duration) string {
	if errors.Is(err, context.DeadlineExceeded) {
		if parent.Err() != nil {
			return deadlineDiagnostic
		}
		return fmt.Sprintf("timeout after %s", timeout)
	}
	return err.Error()
}

// waitForRetry sleeps the backoff delay before the given attempt, logging
// the retry at WARN level. Returns the context error if the run deadline
// expires while waiting.
func (r *Runner) waitForRetry(ctx context.Context, spec domain.ServiceSpec, prober ports.Prober, attempt int) error {
	delay := backoffDelay(spec, attempt-1)

	r.logger.WarnContext(ctx, "retrying probe",
		slog.String("service", spec.Name),
		slog.String("probe", prober.Describe()),
		slog.Int("attempt", attempt),
		slog.Int("max_attempts", spec.Retries+1),
		slog.Duration("backoff", delay),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (r *Runner) recordAttempt(ctx context.Context, service string, prober ports.Prober, outcome domain.ProbeOutcome) {
	level := slog.LevelDebug
	if !outcome.Succeeded {
		level = slog.LevelInfo
	}
	r.logger.Log(ctx, level, "probe attempt",
		slog.String("service", service),
		slog.String("probe", outcome.Probe),
		slog.Int("attempt", outcome.Attempt),
		slog.Bool("succeeded", outcome.Succeeded),
		slog.Duration("latency", outcome.Latency),
		slog.String("diagnostic", outcome.Diagnostic),
	)

	if r.metrics == nil {
		return
	}
	result := "success"
	if !outcome.Succeeded {
		result = "failure"
	}
	attrs := metric.WithAttributes(
		telemetry.AttrService.String(service),
		telemetry.AttrProbeKind.String(probeKind(prober)),
		telemetry.AttrResult.String(result),
	)
	r.metrics.ProbeAttemptDuration.Record(ctx, outcome.Latency.Seconds(), attrs)
	r.metrics.ProbeAttemptTotal.Add(ctx, 1, attrs)
}

// probeKind extracts the kind from the probe description, which always
// starts with the kind token (e.g. "tcp db:5432").
func probeKind(prober ports.Prober) string {
	kind, _, _ := strings.Cut(prober.Describe(), " ")
	return kind
}

func skipResult(result domain.ServiceResult) domain.ServiceResult {
	result.Status = domain.StatusSkipped
	result.Diagnostic = deadlineDiagnostic
	return result
}
