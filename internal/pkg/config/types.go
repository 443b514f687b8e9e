package config

import "time"

// ServiceName identifies which binary is loading configuration
type ServiceName string

const (
	// ServiceGateway is the public-facing proxy in front of the data service
	ServiceGateway ServiceName = "gateway"
	// ServiceData is the users/tasks CRUD service
	ServiceData ServiceName = "data"
)

// Config holds the application configuration
type Config struct {
	Service   ServiceName     `mapstructure:"service" validate:"required,oneof=gateway data"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Logger    LoggerConfig    `mapstructure:"logger" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Data      DataConfig      `mapstructure:"data"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"required,gt=0,lte=65535"`
	ReadTimeout     int    `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    int    `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"`
	RequestTimeout  int    `mapstructure:"request_timeout" validate:"gte=0"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"required,oneof=json console"`
	OutputPath string `mapstructure:"output_path" validate:"required"`
}

// RateLimitConfig holds admission control configuration
type RateLimitConfig struct {
	Window               time.Duration `mapstructure:"window" validate:"gt=0"`
	MaxRequests          int           `mapstructure:"max_requests" validate:"gt=0"`
	SweepInterval        time.Duration `mapstructure:"sweep_interval" validate:"gte=0"`
	JanitorSchedule      string        `mapstructure:"janitor_schedule"`
	TrustForwardedHeader string        `mapstructure:"trust_forwarded_header"`
	TrustedProxies       []string      `mapstructure:"trusted_proxies"`
}

// MetricsConfig holds request metrics configuration
type MetricsConfig struct {
	HistogramCapacity int    `mapstructure:"histogram_capacity" validate:"gt=0"`
	ReportSchedule    string `mapstructure:"report_schedule"`
}

// GatewayConfig holds reverse proxy configuration
type GatewayConfig struct {
	UpstreamURL     string        `mapstructure:"upstream_url" validate:"omitempty,url"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout" validate:"gte=0"`
	HealthPath      string        `mapstructure:"health_path"`
}

// DataConfig holds data service configuration
type DataConfig struct {
	Seed                     bool          `mapstructure:"seed"`
	IdempotencyTTL           time.Duration `mapstructure:"idempotency_ttl" validate:"gte=0"`
	IdempotencySweepSchedule string        `mapstructure:"idempotency_sweep_schedule"`
}
