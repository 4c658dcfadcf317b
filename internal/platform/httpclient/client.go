// Package httpclient provides the instrumented HTTP transport used by HTTP
// probes: circuit breaker per probed service, a shared outbound rate
// limiter, and OpenTelemetry tracing.
//
// The client performs exactly one request per call — the probe runner owns
// the retry loop so that every attempt is recorded as its own outcome. The
// circuit breaker spans calls: when a dependency keeps failing across
// attempts (or across evaluation runs in serve mode), the breaker opens and
// further requests are rejected without touching the network.
//
// Construction:
//
//	limiter := httpclient.NewLimiter(cfg.HTTP.RateLimit)
//	client := httpclient.New(&cfg.HTTP, "qdrant", limiter, logger)
//
// Executing a probe request:
//
//	resp, err := client.Get(ctx, "http://qdrant:6333/healthz")
package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/readycheck/internal/platform/config"
)

// Client is an instrumented HTTP client for probing one service.
// Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	serviceName string
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	limiter     *rate.Limiter // nil when rate limiting is disabled
	logger      *slog.Logger
}

// NewLimiter builds the outbound rate limiter shared by all HTTP probes,
// capping how hard a readiness run hammers the dependencies under test.
// Returns nil when rate limiting is disabled (zero requests per second).
func NewLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
}

// New creates a probe HTTP client for the named service. The limiter is
// shared across clients; pass nil to disable rate limiting. Request
// timeouts come from the per-attempt context, not the client.
func New(cfg *config.HTTPConfig, serviceName string, limiter *rate.Limiter, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		httpClient:  &http.Client{},
		serviceName: serviceName,
		breaker:     cb,
		limiter:     limiter,
		logger:      logger,
	}
}

// Get executes a single GET request through the pipeline:
// Circuit Breaker → Rate Limiter → OTEL Span → HTTP.
//
// On success the caller must close the response body. Network errors and
// breaker rejections return a nil response; HTTP error statuses are not
// errors here — the probe decides what counts as success.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		if err := c.waitForRateLimit(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		spanCtx, span := c.startSpan(ctx, req)
		defer span.End()

		resp, err := c.httpClient.Do(req.WithContext(spanCtx))
		c.finishSpan(span, resp, err)

		return resp, err
	})
}

// Name returns the probed service identifier (e.g., "qdrant").
func (c *Client) Name() string {
	return c.serviceName
}

// BreakerState exposes the circuit breaker state for diagnostics:
// an open breaker turns probe failures into "circuit open" outcomes
// without network I/O.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// waitForRateLimit blocks until the shared rate limiter allows the request
// or the context is canceled. Returns nil immediately when rate limiting
// is disabled.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// startSpan creates an OTEL client span for the probe request and injects
// trace context (W3C Trace Context) into the request headers.
func (c *Client) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("httpclient")

	spanName := fmt.Sprintf("probe %s %s", req.Method, c.serviceName)
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

// finishSpan records the response outcome on the span.
func (c *Client) finishSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
