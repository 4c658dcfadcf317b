package ports

import "github.com/jsamuelsen11/readycheck/internal/domain"

// Reporter renders a readiness report for one output format. Rendering is
// pure: no I/O, the caller decides where the output goes and which exit
// code to return.
type Reporter interface {
	Render(report domain.ReadinessReport) (string, error)
}
