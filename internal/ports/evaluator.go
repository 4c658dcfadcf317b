package ports

import (
	"context"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// Evaluator runs one full readiness evaluation over the configured
// services. Serve mode evaluates per readiness request; CLI mode once.
type Evaluator interface {
	Evaluate(ctx context.Context) domain.ReadinessReport
}
