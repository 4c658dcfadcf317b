// Package app orchestrates readiness evaluation: building runnable probes
// from service specs, running each service's probes through their retry
// budgets, and fanning out across services with bounded concurrency.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/platform/telemetry"
)

// Coordinator evaluates all services concurrently and folds the results
// into a readiness report. Safe for concurrent use; serve mode runs an
// evaluation per readiness request.
type Coordinator struct {
	runner      *Runner
	metrics     *telemetry.Metrics // nil disables metric recording
	logger      *slog.Logger
	concurrency int
}

func NewCoordinator(runner *Runner, metrics *telemetry.Metrics, logger *slog.Logger, concurrency int) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{
		runner:      runner,
		metrics:     metrics,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Evaluate runs every service's probes using at most the configured number
// of concurrent goroutines. Results are returned in input order regardless
// of completion order. A service still waiting for a worker slot when ctx
// expires is reported as Skipped without running any probe.
//
// Evaluate blocks until all started goroutines settle; the report is only
// assembled once every result slot is final.
func (c *Coordinator) Evaluate(ctx context.Context, services []Service) domain.ReadinessReport {
	start := time.Now()

	results := make([]domain.ServiceResult, len(services))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, svc := range services {
		wg.Add(1)
		go func(idx int, s Service) {
			defer wg.Done()

			// Context-aware semaphore acquisition.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = skipResult(domain.ServiceResult{
					Service:  s.Spec.Name,
					Required: s.Spec.Required,
				})
				return
			}

			results[idx] = c.runner.Run(ctx, s)
		}(i, svc)
	}

	wg.Wait()

	report := domain.NewReadinessReport(results, time.Now().UTC())
	c.recordRun(ctx, report, time.Since(start))
	return report
}

func (c *Coordinator) recordRun(ctx context.Context, report domain.ReadinessReport, elapsed time.Duration) {
	counts := report.Counts()
	c.logger.InfoContext(ctx, "readiness evaluation complete",
		slog.String("overall", report.Overall.String()),
		slog.Int("services", counts.Total()),
		slog.Int("healthy", counts.Healthy),
		slog.Int("unhealthy", counts.Unhealthy),
		slog.Int("degraded", counts.Degraded),
		slog.Int("skipped", counts.Skipped),
		slog.Duration("elapsed", elapsed),
	)

	if c.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(telemetry.AttrResult.String(report.Overall.String()))
	c.metrics.RunDuration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.RunTotal.Add(ctx, 1, attrs)
}
