package rate

import (
	"fmt"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/scheduler"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the rate limiter module for FX
var Module = fx.Module("rate",
	fx.Provide(NewFromConfig),
	fx.Invoke(registerJanitor),
)

// NewFromConfig creates a limiter from the application configuration
func NewFromConfig(cfg *config.Config, log *logger.Logger) (*Limiter, error) {
	rc := ConfigFromApp(cfg)
	l, err := New(rc)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limiter config: %w", err)
	}

	log.Info("Rate limiter initialized",
		zap.Duration("window", rc.Window),
		zap.Int("max_requests", rc.MaxRequests),
	)
	return l, nil
}

// registerJanitor reclaims idle windows even when no traffic arrives to
// trigger the on-path sweep
func registerJanitor(s *scheduler.Scheduler, l *Limiter, cfg *config.Config, log *logger.Logger) error {
	return s.Register("ratelimit-janitor", cfg.RateLimit.JanitorSchedule, func() {
		if removed := l.Sweep(time.Now()); removed > 0 {
			log.Debug("Swept idle rate windows",
				zap.Int("removed", removed),
				zap.Int("remaining", l.Len()),
			)
		}
	})
}
