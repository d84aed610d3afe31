package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ScopeName identifies this library to tracer and meter providers.
const ScopeName = "github.com/auth-platform/lazystatic"

// Metric and span names.
const (
	SpanInit        = "lazystatic.init"
	MetricInitTotal = "lazystatic_init_total"
	MetricInitTime  = "lazystatic_init_duration_seconds"
	MetricInFlight  = "lazystatic_init_in_flight"
	AttrName        = "lazystatic.name"
	AttrOutcome     = "outcome"
	OutcomeDone     = "done"
	OutcomePoisoned = "poisoned"
)

// Instrumentation reports builder runs of lazy statics as spans, metrics
// and log records. It implements registry.Observer.
type Instrumentation struct {
	tracer trace.Tracer
	logger *slog.Logger

	initCounter  metric.Int64Counter
	initDuration metric.Float64Histogram
	inFlight     metric.Int64UpDownCounter
}

// NewInstrumentation creates the metric instruments on meter.
func NewInstrumentation(tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) (*Instrumentation, error) {
	initCounter, err := meter.Int64Counter(
		MetricInitTotal,
		metric.WithDescription("Total number of lazy static initializations by outcome"),
	)
	if err != nil {
		return nil, err
	}

	initDuration, err := meter.Float64Histogram(
		MetricInitTime,
		metric.WithDescription("Duration of lazy static builder runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		MetricInFlight,
		metric.WithDescription("Builders currently running"),
	)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = discardLogger()
	}

	return &Instrumentation{
		tracer:       tracer,
		logger:       logger,
		initCounter:  initCounter,
		initDuration: initDuration,
		inFlight:     inFlight,
	}, nil
}

// NewGlobalInstrumentation uses the globally registered OpenTelemetry
// providers.
func NewGlobalInstrumentation(logger *slog.Logger) (*Instrumentation, error) {
	return NewInstrumentation(otel.Tracer(ScopeName), otel.Meter(ScopeName), logger)
}

// NewNoopInstrumentation only logs.
func NewNoopInstrumentation(logger *slog.Logger) *Instrumentation {
	i, err := NewInstrumentation(
		tracenoop.NewTracerProvider().Tracer(ScopeName),
		metricnoop.NewMeterProvider().Meter(ScopeName),
		logger,
	)
	if err != nil {
		// noop instruments never fail to register
		panic(err)
	}
	return i
}

// InitStarted opens a span for the builder run of name. The returned func
// closes it and records the outcome.
func (i *Instrumentation) InitStarted(name string) func(err error) {
	nameAttr := attribute.String(AttrName, name)
	ctx, span := i.tracer.Start(context.Background(), SpanInit,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(nameAttr),
	)
	start := time.Now()

	i.inFlight.Add(ctx, 1, metric.WithAttributes(nameAttr))
	i.logger.LogAttrs(ctx, slog.LevelDebug, "lazy static initialization started",
		slog.String("name", name))

	return func(err error) {
		elapsed := time.Since(start)
		outcome := OutcomeDone
		if err != nil {
			outcome = OutcomePoisoned
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		attrs := metric.WithAttributes(nameAttr, attribute.String(AttrOutcome, outcome))
		i.initCounter.Add(ctx, 1, attrs)
		i.initDuration.Record(ctx, elapsed.Seconds(), attrs)
		i.inFlight.Add(ctx, -1, metric.WithAttributes(nameAttr))
		span.End()

		if err != nil {
			i.logger.LogAttrs(ctx, slog.LevelError, "lazy static poisoned",
				slog.String("name", name),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()))
			return
		}
		i.logger.LogAttrs(ctx, slog.LevelInfo, "lazy static initialized",
			slog.String("name", name),
			slog.Duration("elapsed", elapsed))
	}
}
