// Package report renders readiness reports for humans (text) and machines
// (JSON) and maps the overall status to a process exit code.
package report

import (
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// Wire DTOs decouple the JSON shape from the domain model: field names are
// a stable contract for scripts and CI pipelines consuming the output.

type reportDTO struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Overall     string       `json:"overall"`
	Services    []serviceDTO `json:"services"`
	Summary     summaryDTO   `json:"summary"`
}

type serviceDTO struct {
	Name       string       `json:"name"`
	Required   bool         `json:"required"`
	Status     string       `json:"status"`
	Diagnostic string       `json:"diagnostic,omitempty"`
	LatencyMS  int64        `json:"latency_ms"`
	Attempts   []attemptDTO `json:"attempts"`
}

type attemptDTO struct {
	Probe      string `json:"probe"`
	Attempt    int    `json:"attempt"`
	Succeeded  bool   `json:"succeeded"`
	LatencyMS  int64  `json:"latency_ms"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

type summaryDTO struct {
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
	Degraded  int `json:"degraded"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

func toDTO(r domain.ReadinessReport) reportDTO {
	services := make([]serviceDTO, 0, len(r.Results))
	for _, result := range r.Results {
		services = append(services, toServiceDTO(result))
	}

	counts := r.Counts()
	return reportDTO{
		GeneratedAt: r.GeneratedAt,
		Overall:     r.Overall.String(),
		Services:    services,
		Summary: summaryDTO{
			Healthy:   counts.Healthy,
			Unhealthy: counts.Unhealthy,
			Degraded:  counts.Degraded,
			Skipped:   counts.Skipped,
			Total:     counts.Total(),
		},
	}
}

func toServiceDTO(result domain.ServiceResult) serviceDTO {
	attempts := make([]attemptDTO, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		attempts = append(attempts, attemptDTO{
			Probe:      o.Probe,
			Attempt:    o.Attempt,
			Succeeded:  o.Succeeded,
			LatencyMS:  o.Latency.Milliseconds(),
			Diagnostic: o.Diagnostic,
		})
	}

	return serviceDTO{
		Name:       result.Service,
		Required:   result.Required,
		Status:     result.Status.String(),
		Diagnostic: result.Diagnostic,
		LatencyMS:  result.TotalLatency().Milliseconds(),
		Attempts:   attempts,
	}
}
