package app

import (
	"context"
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// Engine binds a coordinator to a fixed set of services and the overall run
// deadline. It is the ports.Evaluator implementation handed to the CLI and
// the serve-mode handlers.
type Engine struct {
	coordinator *Coordinator
	services    []Service
	deadline    time.Duration
}

func NewEngine(coordinator *Coordinator, services []Service, deadline time.Duration) *Engine {
	return &Engine{
		coordinator: coordinator,
		services:    services,
		deadline:    deadline,
	}
}

// Evaluate runs one evaluation under the configured deadline. A zero
// deadline means the caller's context is the only bound.
func (e *Engine) Evaluate(ctx context.Context) domain.ReadinessReport {
	if e.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.deadline)
		defer cancel()
	}
	return e.coordinator.Evaluate(ctx, e.services)
}
