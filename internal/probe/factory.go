// Package probe implements the probe executors: HTTP GET, TCP connect,
// local command, and log scan. A Factory turns declarative probe specs into
// runnable checks, compiling predicates and error patterns up front so a
// bad configuration fails before any probing begins.
package probe

import (
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/readycheck/internal/domain"
	"github.com/jsamuelsen11/readycheck/internal/platform/config"
	"github.com/jsamuelsen11/readycheck/internal/platform/httpclient"
	"github.com/jsamuelsen11/readycheck/internal/ports"
)

// Factory builds probers from probe specs. All HTTP probes of one service
// share a client, and therefore a circuit breaker. Build is called during
// startup from a single goroutine; the built probers are concurrency-safe.
type Factory struct {
	httpCfg *config.HTTPConfig
	limiter *rate.Limiter // shared across all HTTP probes, nil disables
	logger  *slog.Logger
	clients map[string]*httpclient.Client
}

func NewFactory(httpCfg *config.HTTPConfig, limiter *rate.Limiter, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Factory{
		httpCfg: httpCfg,
		limiter: limiter,
		logger:  logger,
		clients: make(map[string]*httpclient.Client),
	}
}

// Build constructs the executor for a single probe spec. Unknown spec
// variants report domain.ErrUnknownProbe.
func (f *Factory) Build(serviceName string, spec domain.ProbeSpec) (ports.Prober, error) {
	switch s := spec.(type) {
	case domain.HTTPGetSpec:
		return newHTTP(s, f.clientFor(serviceName))
	case domain.TCPConnectSpec:
		return newTCP(s), nil
	case domain.CommandSpec:
		return newCommand(s)
	case domain.LogScanSpec:
		return newLogScan(s)
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnknownProbe, spec)
	}
}

func (f *Factory) clientFor(serviceName string) *httpclient.Client {
	if client, ok := f.clients[serviceName]; ok {
		return client
	}
	client := httpclient.New(f.httpCfg, serviceName, f.limiter, f.logger)
	f.clients[serviceName] = client
	return client
}
