package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultHistogramCapacity is the number of samples kept per histogram
const DefaultHistogramCapacity = 1000

// Recorder holds live counters and latency histograms keyed by
// name and label values. All methods are safe for concurrent use; updates to
// one series never wait on updates to another.
type Recorder struct {
	capacity int
	started  time.Time
	now      func() time.Time

	counters   sync.Map // string -> *atomic.Int64
	histograms sync.Map // string -> *histogram
}

// Option configures a Recorder
type Option func(*Recorder)

// WithCapacity sets the per-histogram sample capacity
func WithCapacity(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder creates an empty recorder. Uptime is measured from this call.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		capacity: DefaultHistogramCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.now()
	return r
}

// Capacity returns the per-histogram sample capacity
func (r *Recorder) Capacity() int {
	return r.capacity
}

// IncrementCounter adds one to the counter, creating it on first use
func (r *Recorder) IncrementCounter(name string, labels ...string) {
	key := SeriesKey(name, labels...)

	v, ok := r.counters.Load(key)
	if !ok {
		v, _ = r.counters.LoadOrStore(key, new(atomic.Int64))
	}
	v.(*atomic.Int64).Add(1)
}

// RecordSample appends value to the histogram, creating it on first use.
// Negative and NaN values are recorded as 0; infinities are dropped.
func (r *Recorder) RecordSample(name string, value float64, labels ...string) {
	if math.IsInf(value, 0) {
		return
	}
	if math.IsNaN(value) || value < 0 {
		value = 0
	}

	key := SeriesKey(name, labels...)

	v, ok := r.histograms.Load(key)
	if !ok {
		v, _ = r.histograms.LoadOrStore(key, newHistogram(r.capacity))
	}
	v.(*histogram).add(value)
}

// ObserveDuration records d in milliseconds
func (r *Recorder) ObserveDuration(name string, d time.Duration, labels ...string) {
	r.RecordSample(name, float64(d)/float64(time.Millisecond), labels...)
}

// Counter returns the current value of a counter, 0 if it does not exist
func (r *Recorder) Counter(name string, labels ...string) int64 {
	v, ok := r.counters.Load(SeriesKey(name, labels...))
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// Samples returns a copy of a histogram's samples, oldest first
func (r *Recorder) Samples(name string, labels ...string) []float64 {
	v, ok := r.histograms.Load(SeriesKey(name, labels...))
	if !ok {
		return nil
	}
	return v.(*histogram).values()
}
