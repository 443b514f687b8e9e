package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"crudgate/internal/pkg/errorsx"
)

// Policy describes how many times to try and how long to wait in between
type Policy struct {
	// MaxAttempts counts the first try; values below 1 mean a single attempt
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

// ExponentialBackoff builds a doubling policy capped at max
func ExponentialBackoff(base, max time.Duration, jitter bool, maxAttempts int) Policy {
	return Policy{
		BaseDelay:   base,
		MaxDelay:    max,
		Jitter:      jitter,
		MaxAttempts: maxAttempts,
	}
}

// Delay returns the wait after the given failed attempt (1-based)
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	// 2^(attempt-1) * base
	delay := time.Duration(float64(p.BaseDelay) * math.Pow(2, float64(attempt-1)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.Jitter {
		delay = time.Duration(float64(delay) * (rand.Float64()*0.4 + 0.8)) // [0.8, 1.2)
	}
	return delay
}

// Do runs fn until it succeeds, returns an error not marked
// errorsx.Retryable, the attempts run out, or ctx is done. It returns the
// last error from fn, or ctx.Err() if the context ended first.
func Do(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil || !errorsx.IsRetryable(lastErr) || attempt == attempts {
			return lastErr
		}

		timer := time.NewTimer(policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
