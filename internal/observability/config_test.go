package observability

import (
	"testing"

	"github.com/playlistlab/pairwise/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_FromAppConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:      "pairwise",
		AppVersion:   "0.1.0",
		Environment:  "production",
		OTLPEndpoint: "collector:4317",
	})

	assert.Equal(t, "pairwise", cfg.ServiceName)
	assert.Equal(t, "0.1.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "collector:4317", cfg.OtelEndpoint)
	assert.Equal(t, "grpc", cfg.OtelProtocol)
	assert.InDelta(t, 0.1, cfg.OtelSamplingRatio, 1e-9)
	assert.False(t, cfg.Debug())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")

	cfg := LoadConfig(config.Config{Environment: "production"})
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "otel:4318", cfg.OtelEndpoint)
	assert.Equal(t, "http", cfg.OtelProtocol)
	assert.InDelta(t, 0.5, cfg.OtelSamplingRatio, 1e-9)
	assert.True(t, cfg.Debug())
}

func TestConfigDebug(t *testing.T) {
	assert.True(t, Config{LogLevel: "debug", Environment: "production"}.Debug())
	assert.True(t, Config{LogLevel: "info", Environment: "development"}.Debug())
	assert.True(t, Config{LogLevel: "info", Environment: "local"}.Debug())
	assert.False(t, Config{LogLevel: "info", Environment: "production"}.Debug())
}

func TestLoadConfig_MalformedEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "sometimes")
	t.Setenv("OTEL_SAMPLING_RATIO", "half")

	cfg := LoadConfig(config.Config{})
	assert.False(t, cfg.OtelEnabled)
	assert.InDelta(t, 0.1, cfg.OtelSamplingRatio, 1e-9)
}
