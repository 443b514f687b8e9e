package health

import (
	"net/http"
	"strings"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/retry"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the health module for FX
var Module = fx.Module("health",
	fx.Provide(NewHealthService),
)

// HealthServiceParams defines the dependencies for the health service
type HealthServiceParams struct {
	fx.In

	Config *config.Config
	Logger *logger.Logger
	Client *http.Client `optional:"true"`
}

// NewHealthService constructs the health service. The gateway also probes
// its upstream data service.
func NewHealthService(params HealthServiceParams) *Service {
	serviceConfig := DefaultServiceConfig()
	serviceConfig.Details = map[string]interface{}{
		"service": string(params.Config.Service),
	}

	service := NewService(serviceConfig)

	if params.Config.Service == config.ServiceGateway {
		url := strings.TrimRight(params.Config.Gateway.UpstreamURL, "/") + params.Config.Gateway.HealthPath
		service.RegisterProvider(NewHTTPProvider(HTTPProviderConfig{
			Name:   "upstream",
			URL:    url,
			Client: params.Client,
			Retry:  retry.ExponentialBackoff(100*time.Millisecond, time.Second, true, 3),
		}))
		params.Logger.Info("Registered upstream health provider", zap.String("url", url))
	}

	params.Logger.Info("Health service initialized")
	return service
}
