package cli

import "fmt"

// exitError carries a process exit code through cobra's error return.
// A "not ready" verdict is an exit code, not an error message: the report
// has already been printed by the time this surfaces.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
