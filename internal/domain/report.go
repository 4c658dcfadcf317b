package domain

import "time"

// ProbeOutcome records a single probe attempt. Outcomes are immutable and
// ordered by attempt within their service result.
type ProbeOutcome struct {
	// Probe is the Target() of the probe that produced this outcome.
	Probe string
	// Attempt is 1-indexed: the first try is attempt 1.
	Attempt    int
	Succeeded  bool
	Latency    time.Duration
	Diagnostic string
}

// ServiceResult is the folded outcome of running all of one service's
// probes through their retry budgets.
type ServiceResult struct {
	Service  string
	Required bool
	Outcomes []ProbeOutcome
	Status   ServiceStatus
	// Diagnostic carries a service-level explanation for terminal states
	// that no single outcome explains, e.g. "deadline exceeded" for
	// skipped services.
	Diagnostic string
}

// TotalLatency is the cumulative wall time of all recorded attempts.
func (r ServiceResult) TotalLatency() time.Duration {
	var total time.Duration
	for _, o := range r.Outcomes {
		total += o.Latency
	}
	return total
}

// ReadinessReport is the aggregated result of one verification run. It is
// built once per invocation and never mutated after construction.
type ReadinessReport struct {
	Results     []ServiceResult
	GeneratedAt time.Time
	Overall     OverallStatus
}

// NewReadinessReport assembles a report from per-service results, computing
// the overall status. Results keep their given order.
func NewReadinessReport(results []ServiceResult, generatedAt time.Time) ReadinessReport {
	return ReadinessReport{
		Results:     results,
		GeneratedAt: generatedAt,
		Overall:     Aggregate(results),
	}
}

// Aggregate folds per-service statuses into the overall status:
// CriticalFailure when at least one required service is not Healthy,
// PartialFailure when only optional services are not Healthy, and
// AllHealthy otherwise.
func Aggregate(results []ServiceResult) OverallStatus {
	overall := OverallAllHealthy
	for _, r := range results {
		if r.Status == StatusHealthy {
			continue
		}
		if r.Required {
			return OverallCriticalFailure
		}
		overall = OverallPartialFailure
	}
	return overall
}

// StatusCounts tallies service results by final status.
type StatusCounts struct {
	Healthy   int
	Unhealthy int
	Degraded  int
	Skipped   int
}

// Total returns the number of services counted.
func (c StatusCounts) Total() int {
	return c.Healthy + c.Unhealthy + c.Degraded + c.Skipped
}

// Counts returns per-status tallies for the report's results.
func (r ReadinessReport) Counts() StatusCounts {
	var c StatusCounts
	for _, res := range r.Results {
		switch res.Status {
		case StatusHealthy:
			c.Healthy++
		case StatusUnhealthy:
			c.Unhealthy++
		case StatusDegraded:
			c.Degraded++
		case StatusSkipped:
			c.Skipped++
		}
	}
	return c
}
