package logger

import (
	"context"

	"go.uber.org/fx"
)

// Module exports the logger module for FX
var Module = fx.Module("logger",
	fx.Provide(NewLogger),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, log *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stdout sync fails on some platforms; nothing useful to do with it
			_ = log.Sync()
			return nil
		},
	})
}
