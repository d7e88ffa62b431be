package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func contextWithSpan() context.Context {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func fieldMap(entry observer.LoggedEntry) map[string]any {
	return entry.ContextMap()
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		l := zap.NewExample()
		assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	})

	t.Run("falls back to nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("ignores wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		assert.NotNil(t, FromContext(ctx))
	})
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	l.Info("hello")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-1", fieldMap(recorded.All()[0])["request_id"])
}

func TestWithSession(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, _ := WithSession(context.Background(), zap.New(core), "sess-9", "mwila")

	assert.Equal(t, "sess-9", GetSessionID(ctx))
	assert.Equal(t, "mwila", GetOperator(ctx))

	FromContext(ctx).Info("cart updated")
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "sess-9", fields["session_id"])
	assert.Equal(t, "mwila", fields["operator"])
}

func TestContextGettersEmpty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetSessionID(ctx))
	assert.Empty(t, GetOperator(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestGetTraceID_WithSpan(t *testing.T) {
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(contextWithSpan()))
}

// =============================================================================
// ContextLogger Tests
// =============================================================================

func TestContextLogger_AddsTraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(contextWithSpan(), zap.New(core))

	L(ctx).Info("sale recorded", zap.Int64("sale_id", 42))

	require.Equal(t, 1, recorded.Len())
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	assert.Equal(t, int64(42), fields["sale_id"])
}

func TestContextLogger_NoSpan(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).Warn("guard rejected")
	fields := fieldMap(recorded.All()[0])
	_, hasTrace := fields["trace_id"]
	assert.False(t, hasTrace)
}

func TestContextLogger_LevelsAndWith(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	cl := L(ctx).With(zap.String("component", "terminal"))
	cl.Debug("d")
	cl.Info("i")
	cl.Warn("w")
	cl.Error("e")
	cl.Zap().Info("z")

	entries := recorded.All()
	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.Equal(t, "terminal", fieldMap(e)["component"])
	}
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestContextLogger_WithoutLoggerDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		L(context.Background()).Info("nothing attached")
	})
}
