package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(ServiceData, viper.New())
	require.NoError(t, err)

	assert.Equal(t, ServiceData, cfg.Service)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 1000, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 1000, cfg.Metrics.HistogramCapacity)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 24*time.Hour, cfg.Data.IdempotencyTTL)
}

func TestLoad_GatewayPort(t *testing.T) {
	cfg, err := Load(ServiceGateway, viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8081", cfg.Gateway.UpstreamURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_RATELIMIT_MAX_REQUESTS", "25")
	t.Setenv("APP_RATELIMIT_WINDOW", "30s")
	t.Setenv("APP_METRICS_HISTOGRAM_CAPACITY", "64")

	cfg, err := Load(ServiceData, viper.New())
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 64, cfg.Metrics.HistogramCapacity)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("APP_RATELIMIT_MAX_REQUESTS", "0")

	_, err := Load(ServiceData, viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("APP_LOGGER_LEVEL", "verbose")

	_, err := Load(ServiceGateway, viper.New())
	require.Error(t, err)
}
