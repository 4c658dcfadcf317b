package config

const (
	defaultConcurrency = 4
	defaultServerPort  = 8484

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values. These are loaded
// first and can be overridden by the config file and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":        "info",
		"log.format":       "text",
		"log.file":         "",
		"log.max_size_mb":  50,
		"log.max_backups":  3,
		"log.max_age_days": 14,

		"run.concurrency": defaultConcurrency,
		"run.deadline":    "60s",
		"run.policy":      "strict",
		"run.format":      "text",

		"http.rate_limit.requests_per_second":  0.0,
		"http.rate_limit.burst_size":           1,
		"http.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"http.circuit_breaker.timeout":         "30s",
		"http.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "30s",
		"server.idle_timeout":  "120s",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "readycheck",
	}
}
