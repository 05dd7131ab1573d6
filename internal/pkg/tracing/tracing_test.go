package tracing

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var hex32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestGenerateTraceID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateTraceID()
		assert.Regexp(t, hex32, id)
		assert.False(t, seen[id], "trace ID должен быть уникальным")
		seen[id] = true
	}
}

func TestTraceIDContext(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))
	//nolint:staticcheck // проверка nil context
	assert.Empty(t, TraceIDFromContext(nil))
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Enabled:      true,
		Endpoint:     "http://jaeger:4318",
		ServiceName:  "findbugs-ci",
		Timeout:      time.Second,
		SamplingRate: 0.5,
	}
	require.NoError(t, valid.Validate())

	disabled := Config{}
	assert.NoError(t, disabled.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no endpoint", func(c *Config) { c.Endpoint = "" }, ErrTracingEndpointRequired},
		{"bad endpoint", func(c *Config) { c.Endpoint = "jaeger" }, ErrTracingEndpointInvalidFormat},
		{"no service", func(c *Config) { c.ServiceName = "" }, ErrTracingServiceNameRequired},
		{"no timeout", func(c *Config) { c.Timeout = 0 }, ErrTracingTimeoutInvalid},
		{"rate > 1", func(c *Config) { c.SamplingRate = 1.5 }, ErrTracingSamplingRateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	shutdown, err := NewTracerProvider(DefaultConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	_, err := NewTracerProvider(cfg, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrTracingEndpointRequired)
}

// Тест меняет глобальный TracerProvider, поэтому без t.Parallel().
func TestStartSpan_UsesTraceIDFromContext(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	traceID := GenerateTraceID()
	ctx := ContextWithOTelTraceID(context.Background(), traceID)

	_, span := StartSpan(ctx, "analysis.run", attribute.Bool("fork", true))
	EndSpan(span, errors.New("timeout"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "analysis.run", spans[0].Name())
	assert.Equal(t, traceID, spans[0].SpanContext().TraceID().String())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestContextWithOTelTraceID_Invalid(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithOTelTraceID(ctx, "not-hex"))
}
