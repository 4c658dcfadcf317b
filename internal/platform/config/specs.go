package config

import (
	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// ServiceSpecs translates the validated service list into immutable domain
// specs, filling in the documented defaults for unset policy fields:
// required=true, timeout=5s, retries=2, backoff=2s, multiplier=1.0.
// Spec order follows configuration order; the readiness report preserves it.
func (c *Config) ServiceSpecs() []domain.ServiceSpec {
	specs := make([]domain.ServiceSpec, 0, len(c.Services))
	for _, svc := range c.Services {
		specs = append(specs, svc.toSpec())
	}
	return specs
}

func (s *ServiceConfig) toSpec() domain.ServiceSpec {
	spec := domain.ServiceSpec{
		Name:              s.Name,
		Required:          true,
		Timeout:           s.Timeout,
		Retries:           domain.DefaultRetries,
		Backoff:           s.Backoff,
		BackoffMultiplier: s.BackoffMultiplier,
	}

	if s.Required != nil {
		spec.Required = *s.Required
	}
	if s.Retries != nil {
		spec.Retries = *s.Retries
	}
	if spec.Timeout == 0 {
		spec.Timeout = domain.DefaultTimeout
	}
	if spec.Backoff == 0 {
		spec.Backoff = domain.DefaultBackoff
	}
	if spec.BackoffMultiplier == 0 {
		spec.BackoffMultiplier = domain.DefaultBackoffMultiplier
	}

	spec.Probes = make([]domain.ProbeSpec, 0, len(s.Probes))
	for _, p := range s.Probes {
		spec.Probes = append(spec.Probes, p.toSpec())
	}

	return spec
}

func (p *ProbeConfig) toSpec() domain.ProbeSpec {
	critical := true
	if p.Critical != nil {
		critical = *p.Critical
	}

	switch domain.ProbeKind(p.Type) {
	case domain.ProbeTCPConnect:
		return domain.TCPConnectSpec{
			Host:     p.Host,
			Port:     p.Port,
			Critical: critical,
		}
	case domain.ProbeCommand:
		return domain.CommandSpec{
			Command:          p.Command,
			Args:             p.Args,
			SuccessPredicate: p.Predicate,
			Critical:         critical,
		}
	case domain.ProbeLogScan:
		return domain.LogScanSpec{
			Path:         p.File,
			ErrorPattern: p.Pattern,
			MaxLines:     p.MaxLines,
			Critical:     critical,
		}
	default:
		// Validation guarantees the type is known; http is the remaining kind.
		return domain.HTTPGetSpec{
			URL:           p.URL,
			ExpectStatus:  p.ExpectStatus,
			BodyPredicate: p.Predicate,
			Critical:      critical,
		}
	}
}
