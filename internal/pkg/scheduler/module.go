package scheduler

import (
	"context"

	"crudgate/internal/pkg/logger"

	"go.uber.org/fx"
)

// Module provides scheduler dependencies for fx.
var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, s *Scheduler, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			log.Info("Scheduler started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping scheduler")
			return s.Stop(ctx)
		},
	})
}
