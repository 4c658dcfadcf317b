package report

import (
	"encoding/json"
	"fmt"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// JSONReporter renders the report as indented JSON for scripts and CI.
type JSONReporter struct{}

func NewJSON() *JSONReporter {
	return &JSONReporter{}
}

func (*JSONReporter) Render(r domain.ReadinessReport) (string, error) {
	out, err := json.MarshalIndent(toDTO(r), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(out) + "\n", nil
}
