// Package config provides configuration loading and validation for the
// readiness checker. Configuration is loaded in layers: programmatic
// defaults -> YAML file -> environment variable overrides (READYCHECK_
// prefix). The service list is translated into immutable domain specs
// after validation.
package config

import "time"

// Config holds all configuration for a readycheck invocation.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Run       RunConfig       `koanf:"run"`
	HTTP      HTTPConfig      `koanf:"http"`
	Server    ServerConfig    `koanf:"server"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Services  []ServiceConfig `koanf:"services"`
}

// LogConfig holds structured logging settings. When File is set, output is
// written to a size-rotated log file instead of stderr.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// RunConfig holds the evaluation settings: concurrency bound, global
// deadline, exit-code policy, and default output format. All four can be
// overridden from the command line.
type RunConfig struct {
	Concurrency int           `koanf:"concurrency"`
	Deadline    time.Duration `koanf:"deadline"`
	Policy      string        `koanf:"policy"`
	Format      string        `koanf:"format"`
}

// HTTPConfig holds settings for the outbound HTTP probe client.
type HTTPConfig struct {
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// RateLimitConfig caps outbound probe requests across all HTTP probes.
// Zero RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// CircuitBreakerConfig holds circuit breaker settings for HTTP probes.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// ServiceConfig describes one dependency to verify. Required and Retries
// are pointers so that "unset" is distinguishable from explicit false/zero;
// unset fields take the documented defaults (required=true, timeout=5s,
// retries=2, backoff=2s, multiplier=1.0).
type ServiceConfig struct {
	Name              string        `koanf:"name"`
	Required          *bool         `koanf:"required"`
	Timeout           time.Duration `koanf:"timeout"`
	Retries           *int          `koanf:"retries"`
	Backoff           time.Duration `koanf:"backoff"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier"`
	Probes            []ProbeConfig `koanf:"probes"`
}

// ProbeConfig is the flat on-disk form of one probe. Type selects the
// variant; the remaining fields are variant-specific and validated per
// type. Critical defaults to true.
type ProbeConfig struct {
	Type     string `koanf:"type"`
	Critical *bool  `koanf:"critical"`

	// http
	URL          string `koanf:"url"`
	ExpectStatus int    `koanf:"expect_status"`

	// Predicate is an expr expression: over {status, body} for http
	// probes, over {exit_code, stdout, stderr} for command probes.
	Predicate string `koanf:"predicate"`

	// tcp
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// command
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`

	// logscan
	File      string `koanf:"file"`
	Pattern   string `koanf:"pattern"`
	MaxLines  int    `koanf:"max_lines"`
}
