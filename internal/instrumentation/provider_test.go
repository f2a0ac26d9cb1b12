package instrumentation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics())
	assert.Nil(t, provider.PrometheusHandler())

	// Recording on the no-op metrics must be safe
	provider.Metrics().RecordToolInvocation(context.Background(), "read_file", StatusSuccess, 0)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProviderPrometheus(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "skydeckai-code-test",
		ServiceVersion:  "0.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(ctx))
	}()

	assert.True(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics())
	assert.NotNil(t, provider.PrometheusHandler())
}

func TestNewProviderUnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:     "skydeckai-code-test",
		Enabled:         true,
		MetricsExporter: "graphite",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metrics exporter")
}

func TestNewProviderOTLPRequiresEndpoint(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:     "skydeckai-code-test",
		Enabled:         true,
		MetricsExporter: ExporterOTLP,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTLP endpoint is required")
}
