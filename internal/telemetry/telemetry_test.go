package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/fyrsmithlabs/gitcorpus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNew_DisabledTelemetry(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tel)

	// Should hand out a usable no-op meter
	meter := tel.Meter("test")
	assert.NotNil(t, meter)

	// Should report as not enabled
	assert.False(t, tel.IsEnabled())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := &Config{
		Enabled:     true,
		Endpoint:    "",
		ServiceName: "",
	}

	tel, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestTelemetry_Health(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	health := tel.Health()
	assert.True(t, health.Healthy)
	assert.False(t, health.Degraded)
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	// All methods should be nil-safe
	assert.NotPanics(t, func() {
		_ = tel.Meter("test")
		_ = tel.Health()
		_ = tel.IsEnabled()
		_ = tel.Shutdown(context.Background())
		_ = tel.ForceFlush(context.Background())
	})

	// Nil should report unhealthy
	health := tel.Health()
	assert.False(t, health.Healthy)
	assert.True(t, health.Degraded)
}

func TestTelemetry_Shutdown(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	// Shutdown should succeed for disabled telemetry
	err = tel.Shutdown(context.Background())
	require.NoError(t, err)

	// Health should be unhealthy after shutdown
	health := tel.Health()
	assert.False(t, health.Healthy)
}

func TestTelemetry_ShutdownWithTimeout(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false
	cfg.ShutdownGrace = config.Duration(100 * time.Millisecond)

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	// Shutdown with context timeout
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = tel.Shutdown(ctx)
	require.NoError(t, err)
}

func TestTelemetry_ForceFlush_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	// ForceFlush should succeed for disabled telemetry
	err = tel.ForceFlush(context.Background())
	require.NoError(t, err)
}

func TestTestTelemetry_CounterRecording(t *testing.T) {
	tt := NewTestTelemetry()
	require.NotNil(t, tt)

	meter := tt.Meter("test")
	counter, err := meter.Int64Counter("test.counter")
	require.NoError(t, err)

	counter.Add(context.Background(), 1)
	counter.Add(context.Background(), 2)

	assert.Equal(t, int64(3), tt.CounterValue(t, "test.counter"))
}

func TestTestTelemetry_MissingCounterIsZero(t *testing.T) {
	tt := NewTestTelemetry()

	assert.Equal(t, int64(0), tt.CounterValue(t, "never.recorded"))
}

func TestPipelineMetrics_Counters(t *testing.T) {
	tt := NewTestTelemetry()
	metrics, err := NewPipelineMetrics(tt.Meter("gitcorpus.pipeline"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RepoProcessed(ctx)
	metrics.RepoProcessed(ctx)
	metrics.RepoFailed(ctx)
	metrics.CommitsExtracted(ctx, 5)
	metrics.CommitSkipped(ctx, "merge")
	metrics.CommitSkipped(ctx, "bot")
	metrics.RepoDuration(ctx, 1.25)

	assert.Equal(t, int64(2), tt.CounterValue(t, "gitcorpus.repos.processed"))
	assert.Equal(t, int64(1), tt.CounterValue(t, "gitcorpus.repos.failed"))
	assert.Equal(t, int64(5), tt.CounterValue(t, "gitcorpus.commits.extracted"))
	assert.Equal(t, int64(2), tt.CounterValue(t, "gitcorpus.commits.skipped"))
	assert.Equal(t, uint64(1), tt.HistogramCount(t, "gitcorpus.repo.duration"))
}

func TestPipelineMetrics_SkipReasonAttribute(t *testing.T) {
	tt := NewTestTelemetry()
	metrics, err := NewPipelineMetrics(tt.Meter("gitcorpus.pipeline"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.CommitSkipped(ctx, "merge")
	metrics.CommitSkipped(ctx, "merge")
	metrics.CommitSkipped(ctx, "fault")

	assert.Equal(t, int64(2),
		tt.CounterValueWith(t, "gitcorpus.commits.skipped", attribute.String("reason", "merge")))
	assert.Equal(t, int64(1),
		tt.CounterValueWith(t, "gitcorpus.commits.skipped", attribute.String("reason", "fault")))
	assert.Equal(t, int64(3), tt.CounterValue(t, "gitcorpus.commits.skipped"))
}

func TestTelemetry_PipelineMetrics(t *testing.T) {
	tt := NewTestTelemetry()
	metrics, err := tt.PipelineMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)

	metrics.RepoProcessed(context.Background())
	assert.Equal(t, int64(1), tt.CounterValue(t, "gitcorpus.repos.processed"))
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var metrics *PipelineMetrics

	assert.NotPanics(t, func() {
		ctx := context.Background()
		metrics.RepoProcessed(ctx)
		metrics.RepoFailed(ctx)
		metrics.CommitsExtracted(ctx, 3)
		metrics.CommitSkipped(ctx, "merge")
		metrics.RepoDuration(ctx, 0.5)
	})
}

func TestTelemetry_ShutdownWithProvider(t *testing.T) {
	tt := NewTestTelemetry()

	meter := tt.Meter("test")
	counter, err := meter.Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	// Shutdown should succeed and flush the reader
	err = tt.Shutdown(context.Background())
	require.NoError(t, err)

	// Health should be unhealthy after shutdown
	health := tt.Health()
	assert.False(t, health.Healthy)
}
