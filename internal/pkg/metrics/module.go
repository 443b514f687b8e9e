package metrics

import (
	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/scheduler"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the metrics module for FX
var Module = fx.Module("metrics",
	fx.Provide(
		NewRecorderFromConfig,
		NewReporter,
	),
	fx.Invoke(registerReporter),
)

// NewRecorderFromConfig creates the process-wide recorder
func NewRecorderFromConfig(cfg *config.Config, log *logger.Logger) *Recorder {
	rec := NewRecorder(WithCapacity(cfg.Metrics.HistogramCapacity))
	log.Info("Metrics recorder initialized", zap.Int("histogram_capacity", rec.Capacity()))
	return rec
}

func registerReporter(s *scheduler.Scheduler, r *Reporter, cfg *config.Config) error {
	return s.Register("metrics-report", cfg.Metrics.ReportSchedule, r.Report)
}
