package metrics

import (
	"sort"

	"crudgate/internal/pkg/logger"

	"go.uber.org/zap"
)

// Reporter periodically writes a summary of the recorder to the log
type Reporter struct {
	recorder *Recorder
	logger   *logger.Logger
}

// NewReporter creates a reporter for rec
func NewReporter(rec *Recorder, log *logger.Logger) *Reporter {
	return &Reporter{recorder: rec, logger: log}
}

// Report logs one line with the total of each counter name and one line
// per histogram
func (r *Reporter) Report() {
	snap := r.recorder.Snapshot()

	totals := make(map[string]int64)
	for k, v := range snap.Counters {
		totals[SeriesName(k)] += v
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := []zap.Field{
		zap.Int("counters", len(snap.Counters)),
		zap.Int("histograms", len(snap.Histograms)),
		zap.String("uptime", snap.Uptime.Human),
	}
	for _, name := range names {
		fields = append(fields, zap.Int64(name, totals[name]))
	}
	r.logger.Info("Request metrics", fields...)

	keys := make([]string, 0, len(snap.Histograms))
	for k := range snap.Histograms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		h := snap.Histograms[k]
		r.logger.Debug("Latency",
			zap.String("series", k),
			zap.Int("count", h.Count),
			zap.Float64("p50_ms", h.P50),
			zap.Float64("p95_ms", h.P95),
			zap.Float64("p99_ms", h.P99),
		)
	}
}
