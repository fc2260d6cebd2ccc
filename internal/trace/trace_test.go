package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestDisabledByDefault(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "")
	if err := Init(nil); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if Enabled() {
		t.Error("Expected tracing to be disabled")
	}

	ctx, span := StartSpan(context.Background(), "noop")
	span.End()
	if _, _, ok := GetTraceFields(ctx); ok {
		t.Error("Expected no trace fields while disabled")
	}
}

func TestSpansGoToWriter(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	var buf bytes.Buffer
	if err := Init(&buf, attribute.String("signals.file", "signals.xlsx")); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "pipeline.Build")
	traceID, spanID, ok := GetTraceFields(ctx)
	if !ok || traceID == "" || spanID == "" {
		t.Errorf("Expected trace fields inside a span, got %q %q %v", traceID, spanID, ok)
	}
	span.End()

	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"pipeline.Build", serviceName, "signals.xlsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected exported span to mention %q", want)
		}
	}
	if Enabled() {
		t.Error("Expected tracing to be disabled after Shutdown")
	}
}

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		env  string
		want float64
	}{
		{"", 1},
		{"0.25", 0.25},
		{"2", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		t.Setenv("LOG_TRACING_RATIO", tt.env)
		if got := sampleRatio(); got != tt.want {
			t.Errorf("LOG_TRACING_RATIO=%q: expected %v, got %v", tt.env, tt.want, got)
		}
	}
}
