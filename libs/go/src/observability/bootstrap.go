package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/auth-platform/lazystatic/libs/go/patterns/registry"
	"github.com/auth-platform/lazystatic/libs/go/src/config"
)

// Runtime is the observability stack built from Settings.
type Runtime struct {
	Logger          *slog.Logger
	Instrumentation *Instrumentation
	shutdown        func(context.Context) error
}

// Shutdown flushes telemetry. It is a no-op when telemetry is disabled.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.shutdown == nil {
		return nil
	}
	return r.shutdown(ctx)
}

// Start builds the logger and instrumentation described by s. Logs go to w.
func Start(ctx context.Context, s *config.Settings, w io.Writer) (*Runtime, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(s.Logging.Level, s.Logging.Format, w)
	if err != nil {
		return nil, err
	}

	if !s.Telemetry.Enabled {
		return &Runtime{Logger: logger, Instrumentation: NewNoopInstrumentation(logger)}, nil
	}

	shutdown, err := Setup(ctx, TelemetryOptions{
		ServiceName: s.Telemetry.ServiceName,
		Endpoint:    s.Telemetry.Endpoint,
		Insecure:    s.Telemetry.Insecure,
		Timeout:     s.Telemetry.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	inst, err := NewGlobalInstrumentation(logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}
	return &Runtime{Logger: logger, Instrumentation: inst, shutdown: shutdown}, nil
}

// NewCatalog returns a catalog using the configured strategy and observed
// by rt.
func (rt *Runtime) NewCatalog(s *config.Settings) (*registry.Catalog, error) {
	strategy, err := s.StrategyValue()
	if err != nil {
		return nil, err
	}
	return registry.NewCatalog(
		registry.WithStrategy(strategy),
		registry.WithObserver(rt.Instrumentation),
	), nil
}

// Attach makes rt observe an existing catalog such as registry.Default.
func (rt *Runtime) Attach(c *registry.Catalog) {
	c.SetObserver(rt.Instrumentation)
}
