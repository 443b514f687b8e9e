package rate

import (
	"fmt"
	"time"

	"crudgate/internal/pkg/config"
)

// IdleFactor is how many windows a client may stay silent before its
// window state is reclaimed
const IdleFactor = 2

// Config holds rate limiter configuration
type Config struct {
	// Window is the length of one counting interval
	Window time.Duration

	// MaxRequests is the number of requests admitted per client per window
	MaxRequests int

	// SweepInterval is the minimum spacing between idle-entry scans run on
	// the request path. Zero scans on every call.
	SweepInterval time.Duration
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive")
	}
	if c.MaxRequests <= 0 {
		return fmt.Errorf("max requests must be positive")
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("sweep interval must not be negative")
	}
	return nil
}

// IdleTTL is how long a window may go unused before it is swept
func (c *Config) IdleTTL() time.Duration {
	return IdleFactor * c.Window
}

// DefaultConfig returns the default policy: 1000 requests per 15 minutes
func DefaultConfig() *Config {
	return &Config{
		Window:        15 * time.Minute,
		MaxRequests:   1000,
		SweepInterval: time.Minute,
	}
}

// ConfigFromApp extracts the limiter settings from the application config
func ConfigFromApp(cfg *config.Config) *Config {
	return &Config{
		Window:        cfg.RateLimit.Window,
		MaxRequests:   cfg.RateLimit.MaxRequests,
		SweepInterval: cfg.RateLimit.SweepInterval,
	}
}
