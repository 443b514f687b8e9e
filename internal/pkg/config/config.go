package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// NewConfig creates and returns a new Config instance for the given service.
// It loads configuration from file, environment variables, and defaults
func NewConfig(name ServiceName) (*Config, error) {
	return Load(name, viper.New())
}

// Load reads configuration into v and decodes it. Exposed so tests can
// inject values without touching the filesystem.
func Load(name ServiceName, v *viper.Viper) (*Config, error) {
	setDefaults(v, name)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("../../config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// A per-service file (config/gateway.yaml, config/data.yaml) overrides the shared one
	v.SetConfigName(string(name))
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s config file: %w", name, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Service = name

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper, name ServiceName) {
	port := 8081
	if name == ServiceGateway {
		port = 8080
	}

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", port)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.request_timeout", 30)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output_path", "stdout")

	// Rate limit defaults: 1000 requests per client per 15 minutes
	v.SetDefault("ratelimit.window", 15*time.Minute)
	v.SetDefault("ratelimit.max_requests", 1000)
	v.SetDefault("ratelimit.sweep_interval", time.Minute)
	v.SetDefault("ratelimit.janitor_schedule", "@every 5m")
	v.SetDefault("ratelimit.trust_forwarded_header", "")
	v.SetDefault("ratelimit.trusted_proxies", []string{})

	// Metrics defaults
	v.SetDefault("metrics.histogram_capacity", 1000)
	v.SetDefault("metrics.report_schedule", "@every 1m")

	// Gateway defaults
	v.SetDefault("gateway.upstream_url", "http://localhost:8081")
	v.SetDefault("gateway.upstream_timeout", 15*time.Second)
	v.SetDefault("gateway.health_path", "/health")

	// Data service defaults
	v.SetDefault("data.seed", true)
	v.SetDefault("data.idempotency_ttl", 24*time.Hour)
	v.SetDefault("data.idempotency_sweep_schedule", "@every 5m")
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	if cfg.Service == ServiceGateway && cfg.Gateway.UpstreamURL == "" {
		return fmt.Errorf("gateway upstream url is required")
	}

	return nil
}
