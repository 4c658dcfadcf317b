package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/expr-lang/expr/vm"
	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/platform/httpclient"
)

// maxBodyBytes caps how much of a health endpoint's response is read for
// predicate evaluation and diagnostics (1 MB).
const maxBodyBytes = 1 << 20

// httpEnv is the sample environment HTTP body predicates compile against.
func httpEnv(status int, body string) map[string]any {
	return map[string]any{
		"status": status,
		"body":   body,
	}
}

// httpProbe checks an HTTP endpoint with a GET request through the
// instrumented platform client.
type httpProbe struct {
	spec      domain.HTTPGetSpec
	client    *httpclient.Client
	predicate *vm.Program // nil when no body predicate is configured
}

func newHTTP(spec domain.HTTPGetSpec, client *httpclient.Client) (*httpProbe, error) {
	p := &httpProbe{spec: spec, client: client}

	if spec.BodyPredicate != "" {
		program, err := compilePredicate(spec.BodyPredicate, httpEnv(0, ""))
		if err != nil {
			return nil, err
		}
		p.predicate = program
	}

	return p, nil
}

func (p *httpProbe) Describe() string { return p.spec.Target() }
func (p *httpProbe) Critical() bool   { return p.spec.Critical }

// Check succeeds when the response status matches the expectation (any 2xx
// when unset) and the body predicate, if any, evaluates to true. Connection
// errors, breaker rejections, and status mismatches all fold into the
// returned error.
func (p *httpProbe) Check(ctx context.Context) error {
	resp, err := p.client.Get(ctx, p.spec.URL)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("circuit open: %w", err)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := p.checkStatus(resp.StatusCode); err != nil {
		return err
	}

	if p.predicate != nil {
		ok, err := evalPredicate(p.predicate, httpEnv(resp.StatusCode, string(body)))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("body predicate not satisfied (HTTP %d)", resp.StatusCode)
		}
	}

	return nil
}

func (p *httpProbe) checkStatus(status int) error {
	if p.spec.ExpectStatus != 0 {
		if status != p.spec.ExpectStatus {
			return fmt.Errorf("HTTP %d, want %d", status, p.spec.ExpectStatus)
		}
		return nil
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("HTTP %d, want 2xx", status)
	}
	return nil
}
