package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	adapthttp "github.com/jsamuelsen11/readycheck/internal/adapters/http"
	"github.com/jsamuelsen11/readycheck/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/readycheck/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/readycheck/internal/app"
	"github.com/jsamuelsen11/readycheck/internal/platform/config"
	"github.com/jsamuelsen11/readycheck/internal/platform/httpclient"
	"github.com/jsamuelsen11/readycheck/internal/platform/logging"
	"github.com/jsamuelsen11/readycheck/internal/platform/telemetry"
	"github.com/jsamuelsen11/readycheck/internal/ports"
	"github.com/jsamuelsen11/readycheck/internal/probe"
	"github.com/jsamuelsen11/readycheck/internal/report"
)

const otelShutdownTimeout = 5 * time.Second

// runtime bundles everything a command needs after bootstrap: the DI
// container plus the resources that outlive it.
type runtime struct {
	injector do.Injector
	cfg      *config.Config
	logger   *slog.Logger

	logCloser io.Closer
	otel      *otelProviders
}

// Close flushes telemetry and the log writer.
func (rt *runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()

	if err := rt.otel.Shutdown(ctx); err != nil {
		rt.logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
	_ = rt.logCloser.Close()
}

// bootstrap loads configuration, applies CLI flag overrides, initializes
// logging and telemetry, and wires the dependency graph. Every error out of
// here is a configuration or invocation problem (exit code 2 territory).
func bootstrap(ctx context.Context, configPath string, override func(*config.Config)) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if _, err := report.ParsePolicy(cfg.Run.Policy); err != nil {
		return nil, err
	}
	if _, err := report.New(cfg.Run.Format, false); err != nil {
		return nil, err
	}

	logWriter := logging.NewWriter(logging.FileSettings{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, logWriter)

	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		_ = logWriter.Close()
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	registerDependencies(injector, cfg, logger)

	// Resolve the engine eagerly: probe construction compiles predicates
	// and patterns, so a bad config fails here rather than mid-run.
	if _, err := do.Invoke[ports.Evaluator](injector); err != nil {
		_ = logWriter.Close()
		return nil, err
	}

	return &runtime{
		injector:  injector,
		cfg:       cfg,
		logger:    logger,
		logCloser: logWriter,
		otel:      otel,
	}, nil
}

func registerDependencies(injector do.Injector, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*probe.Factory, error) {
		limiter := httpclient.NewLimiter(cfg.HTTP.RateLimit)
		return probe.NewFactory(&cfg.HTTP, limiter, logger), nil
	})

	do.Provide(injector, func(i do.Injector) ([]app.Service, error) {
		factory := do.MustInvoke[*probe.Factory](i)
		return app.BuildServices(cfg.ServiceSpecs(), factory)
	})

	do.Provide(injector, func(i do.Injector) (ports.Evaluator, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		services := do.MustInvoke[[]app.Service](i)

		runner := app.NewRunner(metrics, logger)
		coordinator := app.NewCoordinator(runner, metrics, logger, cfg.Run.Concurrency)
		return app.NewEngine(coordinator, services, cfg.Run.Deadline), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		evaluator := do.MustInvoke[ports.Evaluator](i)
		return handlers.NewHealthHandler(evaluator), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ReportHandler, error) {
		evaluator := do.MustInvoke[ports.Evaluator](i)
		return handlers.NewReportHandler(evaluator, report.NewJSON(), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		reportH := do.MustInvoke[*handlers.ReportHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(healthH, reportH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.Metrics(metrics),
			middleware.Logging(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}
