package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// TelemetryOptions configures the tracing pipeline.
type TelemetryOptions struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
	Timeout     time.Duration
}

// Setup installs a global tracer provider exporting over OTLP/gRPC. The
// returned func flushes and shuts the provider down.
func Setup(ctx context.Context, opts TelemetryOptions, logger *slog.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = discardLogger()
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("telemetry.sdk.component", ScopeName),
	)

	var dialOpts []grpc.DialOption
	if opts.Insecure {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithDialOption(dialOpts...),
	}
	if opts.Timeout > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithTimeout(opts.Timeout))
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("OpenTelemetry configured",
		slog.String("service_name", opts.ServiceName),
		slog.String("endpoint", opts.Endpoint))

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown tracer provider", slog.String("error", err.Error()))
			return err
		}
		return nil
	}, nil
}
