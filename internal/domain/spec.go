// Package domain defines the core readiness-verification model: service
// specifications, probe variants, per-attempt outcomes, and the aggregated
// readiness report. Types in this package are plain data — construction
// happens in the config layer, execution in the app layer.
package domain

import (
	"net"
	"strconv"
	"time"
)

// Default policy values applied to a ServiceSpec when the configuration
// leaves them unset.
const (
	DefaultTimeout           = 5 * time.Second
	DefaultRetries           = 2
	DefaultBackoff           = 2 * time.Second
	DefaultBackoffMultiplier = 1.0
)

// ProbeKind discriminates the probe variants.
type ProbeKind string

const (
	ProbeHTTPGet    ProbeKind = "http"
	ProbeTCPConnect ProbeKind = "tcp"
	ProbeCommand    ProbeKind = "command"
	ProbeLogScan    ProbeKind = "logscan"
)

// IsValid returns true if the kind is one of the defined constants.
func (k ProbeKind) IsValid() bool {
	switch k {
	case ProbeHTTPGet, ProbeTCPConnect, ProbeCommand, ProbeLogScan:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k ProbeKind) String() string {
	return string(k)
}

// ProbeSpec is the declarative description of a single dependency check.
// Each variant evaluates to success or failure plus a diagnostic string.
type ProbeSpec interface {
	// Kind identifies the probe variant.
	Kind() ProbeKind
	// Target is a short human-readable description of what is checked,
	// used in outcomes and reports (e.g. "http GET http://db:5432/healthz").
	Target() string
	// IsCritical reports whether a failure of this probe makes the owning
	// service Unhealthy rather than Degraded.
	IsCritical() bool
}

// HTTPGetSpec probes an HTTP endpoint with a GET request. The probe
// succeeds when the response status matches ExpectStatus (any 2xx when
// zero) and the optional BodyPredicate evaluates to true.
type HTTPGetSpec struct {
	URL          string
	ExpectStatus int
	// BodyPredicate is an expr expression over {status, body},
	// e.g. `status == 200 && body contains "ok"`. Empty means no predicate.
	BodyPredicate string
	Critical      bool
}

func (s HTTPGetSpec) Kind() ProbeKind  { return ProbeHTTPGet }
func (s HTTPGetSpec) Target() string   { return "http GET " + s.URL }
func (s HTTPGetSpec) IsCritical() bool { return s.Critical }

// TCPConnectSpec probes raw TCP reachability of a host:port.
type TCPConnectSpec struct {
	Host     string
	Port     int
	Critical bool
}

func (s TCPConnectSpec) Kind() ProbeKind  { return ProbeTCPConnect }
func (s TCPConnectSpec) Target() string   { return "tcp " + JoinHostPort(s.Host, s.Port) }
func (s TCPConnectSpec) IsCritical() bool { return s.Critical }

// CommandSpec probes by executing a command. The probe succeeds when the
// optional SuccessPredicate over {exit_code, stdout, stderr} evaluates to
// true, or, with no predicate, when the command exits zero.
type CommandSpec struct {
	Command          string
	Args             []string
	SuccessPredicate string
	Critical         bool
}

func (s CommandSpec) Kind() ProbeKind  { return ProbeCommand }
func (s CommandSpec) Target() string   { return "command " + s.Command }
func (s CommandSpec) IsCritical() bool { return s.Critical }

// LogScanSpec probes by scanning a log file for an error pattern. The probe
// fails when any scanned line matches ErrorPattern. Log scraping is a
// fallback signal for dependencies without a health endpoint; prefer the
// other variants where available.
type LogScanSpec struct {
	Path         string
	ErrorPattern string
	// MaxLines bounds the scan to the trailing portion of the file.
	// Zero scans the whole file.
	MaxLines int
	Critical bool
}

func (s LogScanSpec) Kind() ProbeKind  { return ProbeLogScan }
func (s LogScanSpec) Target() string   { return "logscan " + s.Path }
func (s LogScanSpec) IsCritical() bool { return s.Critical }

// JoinHostPort formats a host and numeric port as "host:port",
// bracketing IPv6 literals.
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ServiceSpec describes one dependency to verify: its probes and the retry
// policy shared by all of them. Specs are created from configuration at
// startup and never mutated afterwards.
type ServiceSpec struct {
	Name     string
	Probes   []ProbeSpec
	Required bool
	// Timeout bounds each individual probe attempt.
	Timeout time.Duration
	// Retries is the number of additional attempts after the first,
	// so a probe runs at most Retries+1 times.
	Retries int
	// Backoff is the delay before the first retry. Subsequent retries
	// grow by BackoffMultiplier (1.0 keeps the delay fixed).
	Backoff           time.Duration
	BackoffMultiplier float64
}
