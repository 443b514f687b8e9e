package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the server module for FX
var Module = fx.Module("server",
	fx.Provide(
		NewEchoServer,
	),
	fx.Invoke(registerHooks),
)

// registerHooks registers lifecycle hooks for server
func registerHooks(lc fx.Lifecycle, server *Server, cfg *config.Config, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server error", zap.Error(err))
				}
			}()
			log.Info("Server module started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()

			log.Info("Stopping server")
			return server.Shutdown(shutdownCtx)
		},
	})
}
