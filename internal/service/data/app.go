package data

import (
	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/health"
	"crudgate/internal/pkg/idempotency"
	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/metrics"
	"crudgate/internal/pkg/rate"
	"crudgate/internal/pkg/scheduler"
	"crudgate/internal/pkg/server"

	"go.uber.org/fx"
)

// DataApp provides all data service dependencies including infrastructure
var DataApp = fx.Options(
	fx.Supply(config.ServiceData),

	// Infrastructure modules
	config.Module,
	logger.Module,
	scheduler.Module,
	rate.Module,
	metrics.Module,
	instrument.Module,
	health.Module,
	idempotency.Module,
	server.Module,

	// Data service components
	fx.Provide(
		NewStore,
		NewDataService,
		NewDataHandler,
	),

	fx.Invoke(seedIfEnabled),
	fx.Invoke(registerDataRoutes),
)

// registerDataRoutes registers data routes on the Echo server
func registerDataRoutes(srv *server.Server, handler *DataHandler) {
	RegisterDataRoutes(srv.GetEcho(), handler)
}
