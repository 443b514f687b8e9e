package metrics

import (
	"math"
	"sort"
	"sync/atomic"
	"time"
)

// Snapshot is a point-in-time copy of every series. Each series is read
// atomically, but different series may be read at slightly different instants.
type Snapshot struct {
	Counters   map[string]int64          `json:"counters"`
	Histograms map[string]HistogramStats `json:"histograms"`
	Uptime     Uptime                    `json:"uptime"`
	Timestamp  time.Time                 `json:"timestamp"`
}

// HistogramStats summarizes the samples currently held by one histogram
type HistogramStats struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	P50     float64 `json:"p50"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
}

// Uptime is the process uptime at snapshot time
type Uptime struct {
	Milliseconds int64   `json:"milliseconds"`
	Seconds      float64 `json:"seconds"`
	Human        string  `json:"human"`
}

// Snapshot returns a copy of all counters and statistics for every
// non-empty histogram
func (r *Recorder) Snapshot() Snapshot {
	now := r.now()

	uptime := now.Sub(r.started)
	if uptime < 0 {
		uptime = 0
	}

	snap := Snapshot{
		Counters:   make(map[string]int64),
		Histograms: make(map[string]HistogramStats),
		Uptime: Uptime{
			Milliseconds: uptime.Milliseconds(),
			Seconds:      uptime.Seconds(),
			Human:        uptime.Truncate(time.Second).String(),
		},
		Timestamp: now,
	}

	r.counters.Range(func(key, value any) bool {
		snap.Counters[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	r.histograms.Range(func(key, value any) bool {
		samples := value.(*histogram).values()
		if len(samples) == 0 {
			return true
		}
		snap.Histograms[key.(string)] = Summarize(samples)
		return true
	})

	return snap
}

// Summarize computes statistics over samples. samples is sorted in place.
func Summarize(samples []float64) HistogramStats {
	if len(samples) == 0 {
		return HistogramStats{}
	}

	sort.Float64s(samples)

	sum := 0.0
	for _, v := range samples {
		sum += v
	}

	return HistogramStats{
		Count:   len(samples),
		Sum:     sum,
		Average: sum / float64(len(samples)),
		Min:     samples[0],
		Max:     samples[len(samples)-1],
		P50:     Percentile(samples, 0.50),
		P95:     Percentile(samples, 0.95),
		P99:     Percentile(samples, 0.99),
	}
}

// Percentile returns the nearest-rank percentile p (0..1) of an ascending
// slice: the value at index ceil(p*len)-1, clamped to the slice bounds.
// No interpolation is done.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}
