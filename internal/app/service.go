package app

import (
	"fmt"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/ports"
)

// ProbeBuilder constructs runnable probes from declarative specs.
type ProbeBuilder interface {
	Build(serviceName string, spec domain.ProbeSpec) (ports.Prober, error)
}

// Service pairs a service spec with its runnable probes. Probers is
// index-aligned with Spec.Probes.
type Service struct {
	Spec    domain.ServiceSpec
	Probers []ports.Prober
}

// BuildServices constructs the probe executors for every service spec. Any
// build failure (malformed predicate or pattern, unknown probe kind) aborts
// the whole run: a partially verified configuration is worse than none.
func BuildServices(specs []domain.ServiceSpec, builder ProbeBuilder) ([]Service, error) {
	services := make([]Service, 0, len(specs))
	for _, spec := range specs {
		probers := make([]ports.Prober, 0, len(spec.Probes))
		for _, probeSpec := range spec.Probes {
			prober, err := builder.Build(spec.Name, probeSpec)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", spec.Name, err)
			}
			probers = append(probers, prober)
		}
		services = append(services, Service{Spec: spec, Probers: probers})
	}
	return services, nil
}
