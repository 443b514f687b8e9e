package rate

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// UnknownKey is used when a caller cannot be identified. All such callers
// share one window.
const UnknownKey = "unknown"

// Decision is the outcome of an admission check
type Decision struct {
	// Allowed indicates if the request is admitted
	Allowed bool

	// Limit is the maximum number of requests per window
	Limit int

	// Remaining is the number of requests left in the current window
	Remaining int

	// ResetAt is when the current window ends
	ResetAt time.Time

	// RetryAfterSeconds is set on rejections only
	RetryAfterSeconds int
}

// clientWindow is the counting state for one client key
type clientWindow struct {
	mu       sync.Mutex
	start    time.Time
	count    int
	lastSeen time.Time
	evicted  bool
}

// Limiter is a fixed-window request counter per client key.
//
// Every request inside one window shares a single counter that resets
// wholesale once the window expires. A client can therefore burst up to
// twice MaxRequests across a window boundary.
type Limiter struct {
	config    Config
	windows   sync.Map // string -> *clientWindow
	size      atomic.Int64
	lastSweep atomic.Int64
}

// New creates a new rate limiter
func New(cfg *Config) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Limiter{config: *cfg}, nil
}

// Config returns a copy of the limiter policy
func (l *Limiter) Config() Config {
	return l.config
}

// Admit counts a request for key at now and reports whether it may proceed.
// It never fails.
func (l *Limiter) Admit(key string, now time.Time) Decision {
	if key == "" {
		key = UnknownKey
	}

	l.maybeSweep(now)

	for {
		w := l.window(key, now)

		w.mu.Lock()
		if w.evicted {
			// Swept between lookup and lock; the map no longer holds w
			w.mu.Unlock()
			continue
		}
		d := l.decide(w, now)
		w.mu.Unlock()

		return d
	}
}

// window returns the state for key, creating it on first sighting
func (l *Limiter) window(key string, now time.Time) *clientWindow {
	if v, ok := l.windows.Load(key); ok {
		return v.(*clientWindow)
	}

	fresh := &clientWindow{start: now, lastSeen: now}
	v, loaded := l.windows.LoadOrStore(key, fresh)
	if !loaded {
		l.size.Add(1)
	}
	return v.(*clientWindow)
}

// decide applies the fixed-window rule. Caller holds w.mu.
func (l *Limiter) decide(w *clientWindow, now time.Time) Decision {
	if now.Sub(w.start) >= l.config.Window {
		w.start = now
		w.count = 0
	}
	if now.After(w.lastSeen) {
		w.lastSeen = now
	}

	resetAt := w.start.Add(l.config.Window)

	if w.count >= l.config.MaxRequests {
		return Decision{
			Allowed:           false,
			Limit:             l.config.MaxRequests,
			Remaining:         0,
			ResetAt:           resetAt,
			RetryAfterSeconds: l.retryAfter(resetAt.Sub(now)),
		}
	}

	w.count++
	return Decision{
		Allowed:   true,
		Limit:     l.config.MaxRequests,
		Remaining: l.config.MaxRequests - w.count,
		ResetAt:   resetAt,
	}
}

// retryAfter rounds the wait up to whole seconds, within [1, window]
func (l *Limiter) retryAfter(wait time.Duration) int {
	secs := int(math.Ceil(wait.Seconds()))
	maxSecs := int(math.Ceil(l.config.Window.Seconds()))
	if secs < 1 {
		secs = 1
	}
	if secs > maxSecs {
		secs = maxSecs
	}
	return secs
}

// maybeSweep runs Sweep on the request path at most once per SweepInterval.
// Only the goroutine that wins the CAS performs the scan.
func (l *Limiter) maybeSweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.config.SweepInterval) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	l.Sweep(now)
}

// Sweep removes windows idle for at least IdleTTL and returns how many were removed
func (l *Limiter) Sweep(now time.Time) int {
	idle := l.config.IdleTTL()
	removed := 0

	l.windows.Range(func(key, value any) bool {
		w := value.(*clientWindow)

		w.mu.Lock()
		if !w.evicted && now.Sub(w.lastSeen) >= idle {
			w.evicted = true
			if l.windows.CompareAndDelete(key, w) {
				l.size.Add(-1)
			}
			removed++
		}
		w.mu.Unlock()

		return true
	})

	return removed
}

// Reset forgets the window for key
func (l *Limiter) Reset(key string) {
	v, ok := l.windows.Load(key)
	if !ok {
		return
	}
	w := v.(*clientWindow)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.evicted {
		w.evicted = true
		if l.windows.CompareAndDelete(key, w) {
			l.size.Add(-1)
		}
	}
}

// Len returns the number of tracked client windows
func (l *Limiter) Len() int {
	return int(l.size.Load())
}
