package instrument

import (
	"fmt"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/metrics"
	"crudgate/internal/pkg/rate"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the request pipeline for FX
var Module = fx.Module("instrument",
	fx.Provide(NewFromConfig),
)

// NewFromConfig builds the pipeline with the configured client key resolver
func NewFromConfig(cfg *config.Config, limiter *rate.Limiter, rec *metrics.Recorder, log *logger.Logger) (*Pipeline, error) {
	keyFunc := ClientKey
	if h := cfg.RateLimit.TrustForwardedHeader; h != "" {
		fn, err := ForwardedKey(h, cfg.RateLimit.TrustedProxies)
		if err != nil {
			return nil, fmt.Errorf("rate limit key: %w", err)
		}
		keyFunc = fn
		log.Info("Rate limit keyed by forwarded header",
			zap.String("header", h),
			zap.Strings("trusted_proxies", cfg.RateLimit.TrustedProxies),
		)
	}
	return New(limiter, rec, log, WithKeyFunc(keyFunc)), nil
}
