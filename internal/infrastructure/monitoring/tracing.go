package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracingConfig holds tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SamplingRate   float64
	Enabled        bool
}

// TracingProvider wraps OpenTelemetry tracing functionality. When tracing is
// disabled the global no-op provider stays in place.
type TracingProvider struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
	config   TracingConfig
}

// NewTracingProvider creates a new tracing provider
func NewTracingProvider(ctx context.Context, config TracingConfig, logger *zap.Logger) (*TracingProvider, error) {
	logger = logger.Named("tracing")
	if !config.Enabled {
		logger.Info("Tracing is disabled")
		return &TracingProvider{
			tracer: otel.Tracer(config.ServiceName),
			logger: logger,
			config: config,
		}, nil
	}

	var opts []otlptracehttp.Option
	if config.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(config.OTLPEndpoint))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", config.ServiceName),
			attribute.String("service.version", config.ServiceVersion),
			attribute.String("deployment.environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SamplingRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("endpoint", config.OTLPEndpoint),
		zap.Float64("sampling_rate", config.SamplingRate),
	)

	return &TracingProvider{
		tracer:   tp.Tracer(config.ServiceName),
		provider: tp,
		logger:   logger,
		config:   config,
	}, nil
}

// Tracer returns the service tracer
func (t *TracingProvider) Tracer() trace.Tracer {
	return t.tracer
}

// StartHTTPSpan creates a server span for an HTTP request
func (t *TracingProvider) StartHTTPSpan(ctx context.Context, method, route string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
		),
	)
}

// Shutdown flushes pending spans
func (t *TracingProvider) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// TraceIDFromContext returns the trace id of the active span, or ""
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
