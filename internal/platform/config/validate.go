package config

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Run.validate(),
		c.HTTP.validate(),
		c.Server.validate(),
		c.Telemetry.validate(),
		c.validateServices(),
	)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	if l.File != "" && l.MaxSizeMB < 1 {
		errs = append(errs, fmt.Errorf("log.max_size_mb must be >= 1 when log.file is set, got %d", l.MaxSizeMB))
	}

	return errors.Join(errs...)
}

func (r *RunConfig) validate() error {
	var errs []error

	if r.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("run.concurrency must be >= 1, got %d", r.Concurrency))
	}
	if r.Deadline <= 0 {
		errs = append(errs, errors.New("run.deadline must be positive"))
	}

	switch r.Policy {
	case "strict", "lenient":
		// Valid policies.
	default:
		errs = append(errs, fmt.Errorf("run.policy must be one of: strict, lenient; got %q", r.Policy))
	}

	switch r.Format {
	case "text", "json":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("run.format must be one of: text, json; got %q", r.Format))
	}

	return errors.Join(errs...)
}

func (h *HTTPConfig) validate() error {
	var errs []error

	if h.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("http.rate_limit.requests_per_second must not be negative, got %f",
			h.RateLimit.RequestsPerSecond))
	}
	if h.RateLimit.RequestsPerSecond > 0 && h.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("http.rate_limit.burst_size must be >= 1 when rate limiting is enabled, got %d",
			h.RateLimit.BurstSize))
	}
	if h.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("http.circuit_breaker.max_failures must be >= 1, got %d",
			h.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateServices() error {
	if len(c.Services) == 0 {
		return errors.New("services must declare at least one service")
	}

	var errs []error
	seen := make(map[string]bool, len(c.Services))

	for i, svc := range c.Services {
		if svc.Name == "" {
			errs = append(errs, fmt.Errorf("services[%d].name must not be empty", i))
			continue
		}
		if seen[svc.Name] {
			errs = append(errs, fmt.Errorf("services[%d]: duplicate service name %q", i, svc.Name))
		}
		seen[svc.Name] = true

		if svc.Timeout < 0 {
			errs = append(errs, fmt.Errorf("service %q: timeout must not be negative", svc.Name))
		}
		if svc.Retries != nil && *svc.Retries < 0 {
			errs = append(errs, fmt.Errorf("service %q: retries must not be negative, got %d", svc.Name, *svc.Retries))
		}
		if svc.Backoff < 0 {
			errs = append(errs, fmt.Errorf("service %q: backoff must not be negative", svc.Name))
		}
		if svc.BackoffMultiplier < 0 {
			errs = append(errs, fmt.Errorf("service %q: backoff_multiplier must not be negative", svc.Name))
		}
		if len(svc.Probes) == 0 {
			errs = append(errs, fmt.Errorf("service %q: must declare at least one probe", svc.Name))
		}

		for j, probe := range svc.Probes {
			if err := probe.validate(); err != nil {
				errs = append(errs, fmt.Errorf("service %q probe %d: %w", svc.Name, j, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (p *ProbeConfig) validate() error {
	var errs []error

	switch domain.ProbeKind(p.Type) {
	case domain.ProbeHTTPGet:
		if p.URL == "" {
			errs = append(errs, errors.New("url must not be empty for http probes"))
		}
		if p.ExpectStatus != 0 && (p.ExpectStatus < 100 || p.ExpectStatus > 599) {
			errs = append(errs, fmt.Errorf("expect_status must be a valid HTTP status, got %d", p.ExpectStatus))
		}
	case domain.ProbeTCPConnect:
		if p.Host == "" {
			errs = append(errs, errors.New("host must not be empty for tcp probes"))
		}
		if p.Port < 1 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", p.Port))
		}
	case domain.ProbeCommand:
		if p.Command == "" {
			errs = append(errs, errors.New("command must not be empty for command probes"))
		}
	case domain.ProbeLogScan:
		if p.File == "" {
			errs = append(errs, errors.New("file must not be empty for logscan probes"))
		}
		if p.Pattern == "" {
			errs = append(errs, errors.New("pattern must not be empty for logscan probes"))
		}
		if p.MaxLines < 0 {
			errs = append(errs, fmt.Errorf("max_lines must not be negative, got %d", p.MaxLines))
		}
	default:
		errs = append(errs, fmt.Errorf("type must be one of: http, tcp, command, logscan; got %q", p.Type))
	}

	return errors.Join(errs...)
}
