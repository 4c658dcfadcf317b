package report

import (
	"fmt"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/ports"
)

// Exit codes of a verification run. Configuration and invocation errors
// use ExitUsage so callers can tell "not ready" from "misconfigured".
const (
	ExitReady    = 0
	ExitNotReady = 1
	ExitUsage    = 2
)

// Policy decides how the overall status maps to an exit code.
type Policy string

const (
	// PolicyStrict exits zero only when every service is healthy.
	PolicyStrict Policy = "strict"
	// PolicyLenient tolerates optional-service failures: only a critical
	// failure exits nonzero.
	PolicyLenient Policy = "lenient"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyStrict, PolicyLenient:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown policy %q (valid: strict, lenient)", s)
	}
}

// ExitCode maps the overall status to the process exit code under this
// policy.
func (p Policy) ExitCode(overall domain.OverallStatus) int {
	switch p {
	case PolicyLenient:
		if overall == domain.OverallCriticalFailure {
			return ExitNotReady
		}
		return ExitReady
	default: // strict
		if overall == domain.OverallAllHealthy {
			return ExitReady
		}
		return ExitNotReady
	}
}

// New builds the reporter for an output format name.
func New(format string, verbose bool) (ports.Reporter, error) {
	switch format {
	case "text":
		return NewText(verbose), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: text, json)", format)
	}
}
