package ports

import "context"

// Prober is implemented by every probe executor variant: HTTP GET, TCP
// connect, command execution, log scan. A prober is constructed once from
// its spec and is safe for concurrent use.
type Prober interface {
	// Describe returns a short human-readable identifier for the check,
	// used in outcomes and reports (e.g. "tcp localhost:5432").
	Describe() string

	// Critical reports whether a failure of this probe makes the owning
	// service Unhealthy rather than Degraded.
	Critical() bool

	// Check performs one attempt and returns nil on success, or an error
	// whose message becomes the outcome diagnostic. Implementations must
	// respect context cancellation and deadlines, and must never panic on
	// dependency failure.
	Check(ctx context.Context) error
}
