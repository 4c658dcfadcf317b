package domain

// ServiceStatus represents the final health state of one verified service.
type ServiceStatus string

const (
	StatusHealthy   ServiceStatus = "healthy"
	StatusUnhealthy ServiceStatus = "unhealthy"
	StatusDegraded  ServiceStatus = "degraded"
	StatusSkipped   ServiceStatus = "skipped"
)

// IsValid returns true if the status is one of the defined constants.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case StatusHealthy, StatusUnhealthy, StatusDegraded, StatusSkipped:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s ServiceStatus) String() string {
	return string(s)
}

// OverallStatus represents the aggregated outcome of a readiness run.
type OverallStatus string

const (
	OverallAllHealthy      OverallStatus = "all_healthy"
	OverallPartialFailure  OverallStatus = "partial_failure"
	OverallCriticalFailure OverallStatus = "critical_failure"
)

// IsValid returns true if the status is one of the defined constants.
func (s OverallStatus) IsValid() bool {
	switch s {
	case OverallAllHealthy, OverallPartialFailure, OverallCriticalFailure:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s OverallStatus) String() string {
	return string(s)
}
