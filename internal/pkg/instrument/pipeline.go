package instrument

import (
	"fmt"
	"net/http"
	"time"

	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/metrics"
	"crudgate/internal/pkg/rate"

	"go.uber.org/zap"
)

const (
	// MetricRequestsTotal counts completed requests by method, route and status class
	MetricRequestsTotal = "http_requests_total"
	// MetricRequestDuration holds request latency in milliseconds by method and route
	MetricRequestDuration = "http_request_duration_ms"

	// UnmatchedRoute is the route label for requests no route claimed
	UnmatchedRoute = "unmatched"
)

// Pipeline wraps every request with admission control and completion metrics
type Pipeline struct {
	limiter  *rate.Limiter
	recorder *metrics.Recorder
	logger   *logger.Logger
	keyFunc  KeyFunc
	now      func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithKeyFunc sets the client key resolver
func WithKeyFunc(fn KeyFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.keyFunc = fn
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline over an existing limiter and recorder
func New(limiter *rate.Limiter, recorder *metrics.Recorder, log *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		limiter:  limiter,
		recorder: recorder,
		logger:   log,
		keyFunc:  ClientKey,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Admit runs the rate limiter for r and sets the rate limit headers on w.
// On rejection it also writes the 429 response; the caller must stop there.
func (p *Pipeline) Admit(w http.ResponseWriter, r *http.Request) rate.Decision {
	key := p.keyFunc(r)
	d := p.limiter.Admit(key, p.now())

	setRateLimitHeaders(w.Header(), d)
	if !d.Allowed {
		p.logger.Debug("Request rate limited",
			zap.String("client", key),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("retry_after", d.RetryAfterSeconds),
		)
		writeRejection(w, d)
	}
	return d
}

// Observe runs fn and records its latency and status class afterwards, even
// when fn returns an error or panics. fn reports the status it produced.
// Errors are returned unchanged and panics are re-raised after recording.
func (p *Pipeline) Observe(method, route string, fn func() (int, error)) (int, error) {
	return p.observe(method, func(int) string { return route }, fn)
}

// observe resolves the route label once the status is known
func (p *Pipeline) observe(method string, route func(status int) string, fn func() (int, error)) (status int, err error) {
	start := p.now()
	status = http.StatusInternalServerError

	defer func() {
		if rec := recover(); rec != nil {
			p.record(method, route(http.StatusInternalServerError), http.StatusInternalServerError, start)
			panic(rec)
		}
		p.record(method, route(status), status, start)
	}()

	status, err = fn()
	return status, err
}

// record must never fail the request
func (p *Pipeline) record(method, route string, status int, start time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Warn("Dropped request metrics",
				zap.String("method", method),
				zap.String("route", route),
				zap.String("panic", fmt.Sprint(rec)),
			)
		}
	}()

	elapsed := p.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	p.recorder.ObserveDuration(MetricRequestDuration, elapsed, method, route)
	p.recorder.IncrementCounter(MetricRequestsTotal, method, route, StatusClass(status))
}

// Recorder returns the recorder metrics are written to
func (p *Pipeline) Recorder() *metrics.Recorder {
	return p.recorder
}
