package trace

import (
	"context"
	"io"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "trade-signal-dashboard"

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
)

// Init sets up span export when LOG_TRACING_ENABLED is true. Spans are
// written to out (stdout when nil) so a command printing data on stdout can
// send them elsewhere. LOG_TRACING_RATIO samples a fraction of root spans.
func Init(out io.Writer, attrs ...attribute.KeyValue) error {
	enabled = getEnv("LOG_TRACING_ENABLED", "false") == "true"
	if !enabled {
		return nil
	}
	if out == nil {
		out = os.Stdout
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(out),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		enabled = false
		return err
	}

	res, err := newResource(attrs)
	if err != nil {
		enabled = false
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(serviceName)
	return nil
}

func newResource(attrs []attribute.KeyValue) (*resource.Resource, error) {
	base := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(getEnv("SERVICE_VERSION", "dev")),
		semconv.DeploymentEnvironment(getEnv("APP_ENV", "local")),
	}
	return resource.New(
		context.Background(),
		resource.WithAttributes(append(base, attrs...)...),
		resource.WithProcessPID(),
		resource.WithHost(),
	)
}

func sampleRatio() float64 {
	r, err := strconv.ParseFloat(getEnv("LOG_TRACING_RATIO", "1"), 64)
	if err != nil || r < 0 || r > 1 {
		return 1
	}
	return r
}

// Shutdown flushes pending spans and disables tracing.
func Shutdown(ctx context.Context) error {
	enabled = false
	if tracerProvider == nil {
		return nil
	}
	tp := tracerProvider
	tracerProvider, tracer = nil, nil
	return tp.Shutdown(ctx)
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func Enabled() bool {
	return enabled
}

func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
