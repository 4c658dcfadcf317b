// Package ports defines the interfaces between the readiness engine's
// layers: probe executors consumed by the runner, and report renderers
// consumed by the CLI and the HTTP adapter. Interfaces live here, on the
// consumer side; implementations return concrete structs.
package ports
