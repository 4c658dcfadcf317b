package probe_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/platform/config"
	"github.com/jsamuelsen11/readycheck/internal/ports"
	"github.com/jsamuelsen11/readycheck/internal/probe"
)

func testFactory() *probe.Factory {
	httpCfg := &config.HTTPConfig{
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	return probe.NewFactory(httpCfg, nil, nil)
}

func buildProbe(t *testing.T, spec domain.ProbeSpec) ports.Prober {
	t.Helper()
	p, err := testFactory().Build("test-svc", spec)
	if err != nil {
		t.Fatalf("Build(%T) error: %v", spec, err)
	}
	return p
}

// --- HTTP ---

func TestHTTPProbe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/teapot":
			w.WriteHeader(http.StatusTeapot)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)

	t.Run("succeeds on 2xx by default", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.HTTPGetSpec{URL: srv.URL + "/healthz"})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})

	t.Run("fails on non-2xx by default", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.HTTPGetSpec{URL: srv.URL + "/down"})
		err := p.Check(context.Background())
		if err == nil {
			t.Fatal("Check() against 503 returned nil error")
		}
		if !strings.Contains(err.Error(), "503") {
			t.Errorf("Check() error = %v, want mention of 503", err)
		}
	})

	t.Run("explicit expected status overrides 2xx", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.HTTPGetSpec{URL: srv.URL + "/teapot", ExpectStatus: http.StatusTeapot})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})

	t.Run("explicit expected status mismatch fails", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.HTTPGetSpec{URL: srv.URL + "/healthz", ExpectStatus: http.StatusNoContent})
		if err := p.Check(context.Background()); err == nil {
			t.Error("Check() with mismatched expected status returned nil error")
		}
	})

	t.Run("body predicate satisfied", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.HTTPGetSpec{
			URL:           srv.URL + "/healthz",
			BodyPredicate: `status == 200 && body contains "ok"`,
		})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})

	t.Run("body predicate not satisfied", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.HTTPGetSpec{
			URL:           srv.URL + "/healthz",
			BodyPredicate: `body contains "degraded"`,
		})
		err := p.Check(context.Background())
		if err == nil || !strings.Contains(err.Error(), "predicate") {
			t.Errorf("Check() error = %v, want predicate failure", err)
		}
	})

	t.Run("connection refused fails", func(t *testing.T) {
		t.Parallel()
		dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := dead.URL
		dead.Close()

		p := buildProbe(t, domain.HTTPGetSpec{URL: url})
		if err := p.Check(context.Background()); err == nil {
			t.Error("Check() against closed server returned nil error")
		}
	})
}

func TestHTTPProbe_BadPredicateFailsBuild(t *testing.T) {
	t.Parallel()

	_, err := testFactory().Build("svc", domain.HTTPGetSpec{
		URL:           "http://localhost/healthz",
		BodyPredicate: `status ==`,
	})
	if err == nil {
		t.Fatal("Build() with malformed predicate returned nil error")
	}
}

// --- TCP ---

func TestTCPProbe(t *testing.T) {
	t.Parallel()

	t.Run("succeeds when port accepts", func(t *testing.T) {
		t.Parallel()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("net.Listen() error: %v", err)
		}
		defer ln.Close()
		go func() {
			for {
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				conn.Close()
			}
		}()

		port := ln.Addr().(*net.TCPAddr).Port
		p := buildProbe(t, domain.TCPConnectSpec{Host: "127.0.0.1", Port: port})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})

	t.Run("fails when nothing listens", func(t *testing.T) {
		t.Parallel()
		// Grab a free port, then close it so the connection is refused.
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("net.Listen() error: %v", err)
		}
		port := ln.Addr().(*net.TCPAddr).Port
		ln.Close()

		p := buildProbe(t, domain.TCPConnectSpec{Host: "127.0.0.1", Port: port})
		if err := p.Check(context.Background()); err == nil {
			t.Error("Check() against closed port returned nil error")
		}
	})
}

// --- Command ---

func TestCommandProbe(t *testing.T) {
	t.Parallel()

	t.Run("zero exit succeeds", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.CommandSpec{Command: "true"})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})

	t.Run("nonzero exit fails with stderr snippet", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.CommandSpec{
			Command: "sh",
			Args:    []string{"-c", "echo 'connection refused' >&2; exit 3"},
		})
		err := p.Check(context.Background())
		if err == nil {
			t.Fatal("Check() with exit 3 returned nil error")
		}
		if !strings.Contains(err.Error(), "exit 3") || !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("Check() error = %v, want exit code and stderr snippet", err)
		}
	})

	t.Run("predicate over exit code and stdout", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.CommandSpec{
			Command:          "sh",
			Args:             []string{"-c", "echo ready; exit 1"},
			SuccessPredicate: `exit_code == 1 && stdout contains "ready"`,
		})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil (predicate accepts exit 1)", err)
		}
	})

	t.Run("predicate not satisfied fails", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.CommandSpec{
			Command:          "true",
			SuccessPredicate: `stdout contains "ready"`,
		})
		if err := p.Check(context.Background()); err == nil {
			t.Error("Check() with unsatisfied predicate returned nil error")
		}
	})

	t.Run("missing binary fails", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.CommandSpec{Command: "definitely-not-a-real-binary"})
		if err := p.Check(context.Background()); err == nil {
			t.Error("Check() with missing binary returned nil error")
		}
	})

	t.Run("deadline reports context error", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.CommandSpec{Command: "sleep", Args: []string{"5"}})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := p.Check(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Check() error = %v, want context.DeadlineExceeded", err)
		}
	})
}

// --- Log scan ---

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.log")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing log fixture: %v", err)
	}
	return path
}

func TestLogScanProbe(t *testing.T) {
	t.Parallel()

	t.Run("clean log succeeds", func(t *testing.T) {
		t.Parallel()
		path := writeLog(t, "INFO starting", "INFO listening on :6333", "INFO ready")
		p := buildProbe(t, domain.LogScanSpec{Path: path, ErrorPattern: `(?i)error|panic`})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})

	t.Run("matching line fails with the line", func(t *testing.T) {
		t.Parallel()
		path := writeLog(t, "INFO starting", "ERROR failed to bind :6333")
		p := buildProbe(t, domain.LogScanSpec{Path: path, ErrorPattern: `(?i)error`})
		err := p.Check(context.Background())
		if err == nil {
			t.Fatal("Check() on log with errors returned nil error")
		}
		if !strings.Contains(err.Error(), "failed to bind") {
			t.Errorf("Check() error = %v, want matched line in diagnostic", err)
		}
	})

	t.Run("max lines windows out old errors", func(t *testing.T) {
		t.Parallel()
		path := writeLog(t, "ERROR old crash", "INFO restarted", "INFO ready")
		p := buildProbe(t, domain.LogScanSpec{Path: path, ErrorPattern: `(?i)error`, MaxLines: 2})
		if err := p.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v, want nil (error outside window)", err)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()
		p := buildProbe(t, domain.LogScanSpec{
			Path:         filepath.Join(t.TempDir(), "absent.log"),
			ErrorPattern: "ERROR",
		})
		if err := p.Check(context.Background()); err == nil {
			t.Error("Check() on missing file returned nil error")
		}
	})
}

func TestLogScanProbe_BadPatternFailsBuild(t *testing.T) {
	t.Parallel()

	_, err := testFactory().Build("svc", domain.LogScanSpec{Path: "/var/log/x.log", ErrorPattern: "("})
	if err == nil {
		t.Fatal("Build() with malformed pattern returned nil error")
	}
}

// --- Factory ---

type bogusSpec struct{}

func (bogusSpec) Kind() domain.ProbeKind { return domain.ProbeKind("bogus") }
func (bogusSpec) Target() string         { return "bogus" }
func (bogusSpec) IsCritical() bool       { return false }

func TestFactory_UnknownSpec(t *testing.T) {
	t.Parallel()

	_, err := testFactory().Build("svc", bogusSpec{})
	if !errors.Is(err, domain.ErrUnknownProbe) {
		t.Errorf("Build(bogusSpec) error = %v, want ErrUnknownProbe", err)
	}
}

func TestFactory_DescribeAndCritical(t *testing.T) {
	t.Parallel()

	p, err := testFactory().Build("svc", domain.TCPConnectSpec{Host: "db", Port: 5432, Critical: true})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := p.Describe(); got != "tcp db:5432" {
		t.Errorf("Describe() = %q, want %q", got, "tcp db:5432")
	}
	if !p.Critical() {
		t.Error("Critical() = false, want true")
	}
}
