package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// stubProbe is a scriptable prober for runner and coordinator tests.
type stubProbe struct {
	name     string
	critical bool
	check    func(ctx context.Context) error
}

func (s *stubProbe) Describe() string { return s.name }
func (s *stubProbe) Critical() bool   { return s.critical }

func (s *stubProbe) Check(ctx context.Context) error {
	if s.check == nil {
		return nil
	}
	return s.check(ctx)
}

// failing returns a check function that fails the first n calls.
func failing(n int, err error) func(context.Context) error {
	var calls atomic.Int64
	return func(context.Context) error {
		if calls.Add(1) <= int64(n) {
			return err
		}
		return nil
	}
}

func fastSpec(name string, retries int) domain.ServiceSpec {
	return domain.ServiceSpec{
		Name:              name,
		Required:          true,
		Timeout:           time.Second,
		Retries:           retries,
		Backoff:           time.Millisecond,
		BackoffMultiplier: 1.0,
	}
}

func serviceWith(spec domain.ServiceSpec, probes ...*stubProbe) Service {
	svc := Service{Spec: spec}
	for _, p := range probes {
		svc.Probers = append(svc.Probers, p)
	}
	return svc
}

func TestRunner_HealthyFirstAttempt(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	svc := serviceWith(fastSpec("db", 2), &stubProbe{name: "tcp db:5432", critical: true})

	result := runner.Run(context.Background(), svc)

	if result.Status != domain.StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("len(Outcomes) = %d, want 1 (no retries after success)", len(result.Outcomes))
	}
	if result.Outcomes[0].Attempt != 1 || !result.Outcomes[0].Succeeded {
		t.Errorf("Outcomes[0] = %+v, want attempt 1 succeeded", result.Outcomes[0])
	}
	if result.Diagnostic != "" {
		t.Errorf("Diagnostic = %q, want empty for healthy service", result.Diagnostic)
	}
}

func TestRunner_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	probe := &stubProbe{name: "http GET http://db/healthz", critical: true, check: failing(2, errors.New("connection refused"))}
	svc := serviceWith(fastSpec("db", 2), probe)

	result := runner.Run(context.Background(), svc)

	if result.Status != domain.StatusHealthy {
		t.Errorf("Status = %v, want healthy after eventual success", result.Status)
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("len(Outcomes) = %d, want 3", len(result.Outcomes))
	}
	for i, o := range result.Outcomes {
		if o.Attempt != i+1 {
			t.Errorf("Outcomes[%d].Attempt = %d, want %d", i, o.Attempt, i+1)
		}
	}
	if result.Outcomes[0].Succeeded || result.Outcomes[1].Succeeded || !result.Outcomes[2].Succeeded {
		t.Errorf("success pattern = %v %v %v, want fail fail success",
			result.Outcomes[0].Succeeded, result.Outcomes[1].Succeeded, result.Outcomes[2].Succeeded)
	}
	if result.Outcomes[0].Diagnostic != "connection refused" {
		t.Errorf("Outcomes[0].Diagnostic = %q, want %q", result.Outcomes[0].Diagnostic, "connection refused")
	}
}

func TestRunner_CriticalProbeExhaustsRetries(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	probe := &stubProbe{
		name:     "tcp search:9200",
		critical: true,
		check:    func(context.Context) error { return errors.New("connection refused") },
	}
	svc := serviceWith(fastSpec("search", 2), probe)

	result := runner.Run(context.Background(), svc)

	if result.Status != domain.StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if len(result.Outcomes) != 3 {
		t.Errorf("len(Outcomes) = %d, want retries+1 = 3", len(result.Outcomes))
	}
	if !strings.Contains(result.Diagnostic, "tcp search:9200") || !strings.Contains(result.Diagnostic, "connection refused") {
		t.Errorf("Diagnostic = %q, want probe target and cause", result.Diagnostic)
	}
}

func TestRunner_NonCriticalFailureDegrades(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	svc := serviceWith(fastSpec("cache", 0),
		&stubProbe{name: "tcp cache:6379", critical: true},
		&stubProbe{name: "logscan /var/log/cache.log", critical: false,
			check: func(context.Context) error { return errors.New("error pattern matched: OOM") }},
	)

	result := runner.Run(context.Background(), svc)

	if result.Status != domain.StatusDegraded {
		t.Errorf("Status = %v, want degraded", result.Status)
	}
}

func TestRunner_AllProbesRunAfterCriticalFailure(t *testing.T) {
	t.Parallel()

	var secondRan atomic.Bool
	runner := NewRunner(nil, discardLogger())
	svc := serviceWith(fastSpec("db", 0),
		&stubProbe{name: "tcp db:5432", critical: true,
			check: func(context.Context) error { return errors.New("refused") }},
		&stubProbe{name: "logscan /var/log/db.log", critical: false,
			check: func(context.Context) error { secondRan.Store(true); return nil }},
	)

	result := runner.Run(context.Background(), svc)

	if result.Status != domain.StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if !secondRan.Load() {
		t.Error("second probe did not run after critical failure")
	}
}

func TestRunner_ZeroRetriesMeansOneAttempt(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	probe := &stubProbe{name: "command ollama", critical: true,
		check: func(context.Context) error { return errors.New("exit 1") }}
	svc := serviceWith(fastSpec("ollama", 0), probe)

	result := runner.Run(context.Background(), svc)

	if len(result.Outcomes) != 1 {
		t.Errorf("len(Outcomes) = %d, want 1", len(result.Outcomes))
	}
}

func TestRunner_AttemptTimeoutDiagnostic(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	spec := fastSpec("slow", 0)
	spec.Timeout = 20 * time.Millisecond
	probe := &stubProbe{name: "http GET http://slow/healthz", critical: true,
		check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}
	svc := serviceWith(spec, probe)

	result := runner.Run(context.Background(), svc)

	if result.Status != domain.StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if !strings.Contains(result.Outcomes[0].Diagnostic, "timeout after") {
		t.Errorf("Diagnostic = %q, want per-attempt timeout wording", result.Outcomes[0].Diagnostic)
	}
}

func TestRunner_ExpiredContextSkips(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	svc := serviceWith(fastSpec("db", 2), &stubProbe{name: "tcp db:5432", critical: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := runner.Run(ctx, svc)

	if result.Status != domain.StatusSkipped {
		t.Errorf("Status = %v, want skipped", result.Status)
	}
	if result.Diagnostic != "deadline exceeded" {
		t.Errorf("Diagnostic = %q, want %q", result.Diagnostic, "deadline exceeded")
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("len(Outcomes) = %d, want 0 for never-started service", len(result.Outcomes))
	}
}

func TestRunner_DeadlineDuringRetriesSkips(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, discardLogger())
	spec := fastSpec("flaky", 10)
	spec.Backoff = 50 * time.Millisecond
	probe := &stubProbe{name: "tcp flaky:80", critical: true,
		check: func(context.Context) error { return errors.New("refused") }}
	svc := serviceWith(spec, probe)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	result := runner.Run(ctx, svc)

	if result.Status != domain.StatusSkipped {
		t.Errorf("Status = %v, want skipped when deadline cuts retries short", result.Status)
	}
	if len(result.Outcomes) == 0 {
		t.Error("len(Outcomes) = 0, want at least the attempts that ran")
	}
	if len(result.Outcomes) >= 11 {
		t.Errorf("len(Outcomes) = %d, want fewer than the full retry budget", len(result.Outcomes))
	}
}

func TestBackoffDelay(t *testing.T) {
	t.Parallel()

	spec := domain.ServiceSpec{Backoff: time.Second, BackoffMultiplier: 2.0}

	t.Run("first retry within jitter of base", func(t *testing.T) {
		t.Parallel()
		d := backoffDelay(spec, 1)
		if d < 750*time.Millisecond || d > 1250*time.Millisecond {
			t.Errorf("backoffDelay(1) = %v, want within ±25%% of 1s", d)
		}
	})

	t.Run("third retry grows by multiplier", func(t *testing.T) {
		t.Parallel()
		d := backoffDelay(spec, 3)
		if d < 3*time.Second || d > 5*time.Second {
			t.Errorf("backoffDelay(3) = %v, want within ±25%% of 4s", d)
		}
	})

	t.Run("capped at maximum", func(t *testing.T) {
		t.Parallel()
		d := backoffDelay(spec, 20)
		if d > time.Duration(float64(maxBackoff)*1.25) {
			t.Errorf("backoffDelay(20) = %v, want capped near %v", d, maxBackoff)
		}
	})

	t.Run("fixed delay with multiplier one", func(t *testing.T) {
		t.Parallel()
		fixed := domain.ServiceSpec{Backoff: time.Second, BackoffMultiplier: 1.0}
		d := backoffDelay(fixed, 5)
		if d < 750*time.Millisecond || d > 1250*time.Millisecond {
			t.Errorf("backoffDelay(5) = %v, want within ±25%% of 1s", d)
		}
	})
}
