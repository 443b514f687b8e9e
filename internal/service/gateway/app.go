package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/health"
	"crudgate/internal/pkg/httpclient"
	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/metrics"
	"crudgate/internal/pkg/rate"
	"crudgate/internal/pkg/scheduler"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// GatewayApp provides all gateway dependencies including infrastructure
var GatewayApp = fx.Options(
	fx.Supply(config.ServiceGateway),

	// Infrastructure modules
	config.Module,
	logger.Module,
	scheduler.Module,
	rate.Module,
	metrics.Module,
	instrument.Module,
	httpclient.Module,
	health.Module,

	// Gateway components
	fx.Provide(
		NewProxy,
		NewServer,
	),

	fx.Invoke(registerHooks),
)

// registerHooks registers lifecycle hooks for the gateway server
func registerHooks(lc fx.Lifecycle, server *Server, cfg *config.Config, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Gateway server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	})
}
