// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/templates/go-accounts/internal/config"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	return recorder
}

func attrValue(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestEndSpanOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantCode   string
	}{
		{name: "success", err: nil, wantStatus: codes.Unset},
		{
			name:       "client error is tagged only",
			err:        NotFoundError("user", "id", "42"),
			wantStatus: codes.Unset,
			wantCode:   CodeNotFound,
		},
		{
			name:       "server app error fails the span",
			err:        DatabaseOperationError("update address"),
			wantStatus: codes.Error,
			wantCode:   CodeDatabaseOperation,
		},
		{
			name:       "untyped error fails the span",
			err:        errors.New("connection reset"),
			wantStatus: codes.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := recordSpans(t)

			ctx := WithActor(context.Background(), "user-1")
			_, span := StartSpan(ctx, "user.CreateUser")
			EndSpan(span, tt.err)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			got := spans[0]

			assert.Equal(t, "user.CreateUser", got.Name())
			assert.Equal(t, tt.wantStatus, got.Status().Code)
			assert.Equal(t, "user-1", attrValue(got.Attributes(), "actor"))
			assert.Equal(t, tt.wantCode, attrValue(got.Attributes(), "error.code"))
		})
	}
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))

	recordSpans(t)
	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()

	assert.Len(t, TraceIDFromContext(ctx), 32)
}

func TestDisabledTelemetryShutdown(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), config.OtelConfig{}, config.AppConfig{})
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))

	var missing *Telemetry
	assert.NoError(t, missing.Shutdown(context.Background()))
}
