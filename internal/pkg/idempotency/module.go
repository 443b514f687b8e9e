package idempotency

import (
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/scheduler"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultTTL applies when configuration leaves it unset
const DefaultTTL = 24 * time.Hour

// Module provides the idempotency service backed by memory storage
var Module = fx.Module("idempotency",
	fx.Provide(
		NewMemoryStorage,
		NewServiceFromConfig,
	),
	fx.Invoke(registerSweeper),
)

// NewServiceFromConfig creates the service with the configured TTL
func NewServiceFromConfig(cfg *config.Config, storage *MemoryStorage, log *logger.Logger) *Service {
	ttl := cfg.Data.IdempotencyTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	log.Info("Idempotency service initialized", zap.Duration("ttl", ttl))
	return NewService(storage, ttl)
}

func registerSweeper(s *scheduler.Scheduler, storage *MemoryStorage, cfg *config.Config, log *logger.Logger) error {
	return s.Register("idempotency-sweep", cfg.Data.IdempotencySweepSchedule, func() {
		if removed := storage.Sweep(time.Now()); removed > 0 {
			log.Debug("Swept expired idempotency records", zap.Int("removed", removed))
		}
	})
}
