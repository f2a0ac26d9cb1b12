package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "skydeckai-code", config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, "/metrics", config.PrometheusEndpoint)
	assert.False(t, config.DetailedLabels)
	assert.True(t, config.AuditLogging.Enabled)
	assert.False(t, config.AuditLogging.IncludePaths)
	assert.Equal(t, "info", config.AuditLogging.LogLevel)
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "aidd-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", ExporterStdout)
	t.Setenv("METRICS_DETAILED_LABELS", "true")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PATHS", "true")

	config := DefaultConfig()

	assert.Equal(t, "aidd-test", config.ServiceName)
	assert.False(t, config.Enabled)
	assert.Equal(t, ExporterStdout, config.MetricsExporter)
	assert.True(t, config.DetailedLabels)
	assert.True(t, config.AuditLogging.IncludePaths)
}

func TestDefaultConfigInvalidBoolFallsBack(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "not-a-bool")

	config := DefaultConfig()
	assert.True(t, config.Enabled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid prometheus",
			config: Config{MetricsExporter: ExporterPrometheus},
		},
		{
			name:   "valid otlp with endpoint",
			config: Config{MetricsExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"},
		},
		{
			name:   "empty exporter is allowed",
			config: Config{},
		},
		{
			name:    "unknown exporter",
			config:  Config{MetricsExporter: "graphite"},
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "otlp without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
