package telemetry_test

import (
	"context"
	"testing"

	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/telemetry"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	cfg := telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "ancestra-pos",
	}

	profiler, err := telemetry.NewProfiler(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, profiler)

	assert.False(t, profiler.IsEnabled())
	assert.Equal(t, "ancestra-pos", profiler.GetConfig().ApplicationName)
	assert.NoError(t, profiler.Stop())
}

func TestNewProfiler_Enabled_MissingServerAddress(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ApplicationName: "ancestra-pos",
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Nil(t, profiler)
	assert.Contains(t, err.Error(), "server address is required")
}

func TestNewProfiler_Enabled_MissingApplicationName(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:       true,
		ServerAddress: "http://localhost:4040",
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Nil(t, profiler)
	assert.Contains(t, err.Error(), "application name is required")
}

func TestNewProfiler_Enabled_UnknownProfileType(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "ancestra-pos",
		ProfileTypes:    []string{"cpu", "heap"},
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Nil(t, profiler)
	assert.Contains(t, err.Error(), `unknown profile type "heap"`)
}

func TestNewProfiler_EnabledIntegration(t *testing.T) {
	// Needs a Pyroscope server on localhost:4040.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "ancestra-pos",
		ProfileTypes:    []string{"cpu", "alloc_space", "inuse_space", "goroutines"},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, profiler.IsEnabled())
	assert.NoError(t, profiler.Stop())
}

func TestProfiler_StopIdempotent(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.NoError(t, profiler.Stop())
	}
}

func TestParseProfileTypes(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []pyroscope.ProfileType
		wantErr bool
	}{
		{
			name:  "empty keeps the sdk default",
			input: nil,
			want:  []pyroscope.ProfileType{},
		},
		{
			name:  "names are case-insensitive and trimmed",
			input: []string{"CPU", " alloc_space ", "goroutines"},
			want:  []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileAllocSpace, pyroscope.ProfileGoroutines},
		},
		{
			name:  "duplicates collapse",
			input: []string{"mutex_count", "mutex_count", "block_duration"},
			want:  []pyroscope.ProfileType{pyroscope.ProfileMutexCount, pyroscope.ProfileBlockDuration},
		},
		{
			name:    "unknown name",
			input:   []string{"cpu", "wall"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := telemetry.ParseProfileTypes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTracerProvider_EnableSpanProfiles_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:     false,
		ServiceName: "ancestra-pos",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTracerProvider_EnableSpanProfiles_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping exporter setup in short mode")
	}
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "ancestra-pos",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	assert.False(t, tp.IsSpanProfilesEnabled())

	require.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())
	assert.NotNil(t, tp.Tracer("sales"))

	require.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())
}
