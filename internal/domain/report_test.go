package domain_test

import (
	"testing"
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

func result(name string, required bool, status domain.ServiceStatus) domain.ServiceResult {
	return domain.ServiceResult{Service: name, Required: required, Status: status}
}

func TestAggregate_AllHealthy(t *testing.T) {
	t.Parallel()

	got := domain.Aggregate([]domain.ServiceResult{
		result("db", true, domain.StatusHealthy),
		result("cache", true, domain.StatusHealthy),
		result("search", false, domain.StatusHealthy),
	})

	if got != domain.OverallAllHealthy {
		t.Errorf("Aggregate() = %v, want %v", got, domain.OverallAllHealthy)
	}
}

func TestAggregate_RequiredNotHealthyIsCritical(t *testing.T) {
	t.Parallel()

	// Any non-Healthy final status of a required service is critical,
	// including Degraded and Skipped.
	for _, status := range []domain.ServiceStatus{
		domain.StatusUnhealthy,
		domain.StatusDegraded,
		domain.StatusSkipped,
	} {
		got := domain.Aggregate([]domain.ServiceResult{
			result("db", true, status),
			result("search", false, domain.StatusHealthy),
		})
		if got != domain.OverallCriticalFailure {
			t.Errorf("Aggregate() with required %v = %v, want %v",
				status, got, domain.OverallCriticalFailure)
		}
	}
}

func TestAggregate_OnlyOptionalFailuresIsPartial(t *testing.T) {
	t.Parallel()

	got := domain.Aggregate([]domain.ServiceResult{
		result("db", true, domain.StatusHealthy),
		result("cache", true, domain.StatusHealthy),
		result("search", false, domain.StatusUnhealthy),
	})

	if got != domain.OverallPartialFailure {
		t.Errorf("Aggregate() = %v, want %v", got, domain.OverallPartialFailure)
	}
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	if got := domain.Aggregate(nil); got != domain.OverallAllHealthy {
		t.Errorf("Aggregate(nil) = %v, want %v", got, domain.OverallAllHealthy)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	report := domain.NewReadinessReport([]domain.ServiceResult{
		result("a", true, domain.StatusHealthy),
		result("b", true, domain.StatusHealthy),
		result("c", false, domain.StatusUnhealthy),
		result("d", false, domain.StatusDegraded),
		result("e", false, domain.StatusSkipped),
	}, time.Now())

	c := report.Counts()
	if c.Healthy != 2 || c.Unhealthy != 1 || c.Degraded != 1 || c.Skipped != 1 {
		t.Errorf("Counts() = %+v, want {2 1 1 1}", c)
	}
	if c.Total() != 5 {
		t.Errorf("Total() = %d, want 5", c.Total())
	}
}

func TestTotalLatency(t *testing.T) {
	t.Parallel()

	r := domain.ServiceResult{Outcomes: []domain.ProbeOutcome{
		{Attempt: 1, Latency: 10 * time.Millisecond},
		{Attempt: 2, Latency: 25 * time.Millisecond},
	}}

	if got, want := r.TotalLatency(), 35*time.Millisecond; got != want {
		t.Errorf("TotalLatency() = %v, want %v", got, want)
	}
}

func TestServiceStatus_IsValid(t *testing.T) {
	t.Parallel()

	valid := []domain.ServiceStatus{
		domain.StatusHealthy, domain.StatusUnhealthy,
		domain.StatusDegraded, domain.StatusSkipped,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", s)
		}
	}
	if domain.ServiceStatus("flaky").IsValid() {
		t.Error(`"flaky".IsValid() = true, want false`)
	}
}

func TestProbeSpec_Targets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec domain.ProbeSpec
		kind domain.ProbeKind
		want string
	}{
		{domain.HTTPGetSpec{URL: "http://db:5432/healthz"}, domain.ProbeHTTPGet, "http GET http://db:5432/healthz"},
		{domain.TCPConnectSpec{Host: "localhost", Port: 6379}, domain.ProbeTCPConnect, "tcp localhost:6379"},
		{domain.CommandSpec{Command: "pg_isready"}, domain.ProbeCommand, "command pg_isready"},
		{domain.LogScanSpec{Path: "/var/log/app.log"}, domain.ProbeLogScan, "logscan /var/log/app.log"},
	}

	for _, tt := range tests {
		if got := tt.spec.Kind(); got != tt.kind {
			t.Errorf("Kind() = %v, want %v", got, tt.kind)
		}
		if got := tt.spec.Target(); got != tt.want {
			t.Errorf("Target() = %q, want %q", got, tt.want)
		}
	}
}
