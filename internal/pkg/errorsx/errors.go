package errorsx

import (
	"errors"
	"net/http"
)

var (
	// Retryable indicates the operation may succeed if retried
	Retryable = errors.New("retryable")
	// Permanent indicates the operation will not succeed upon retry
	Permanent = errors.New("permanent")
)

// WrapRetryable wraps an error as retryable
func WrapRetryable(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(Retryable, err)
}

// WrapPermanent wraps an error as permanent
func WrapPermanent(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(Permanent, err)
}

func IsRetryable(err error) bool {
	return errors.Is(err, Retryable)
}

func IsPermanent(err error) bool {
	return errors.Is(err, Permanent)
}

// RetryableStatus reports whether an HTTP response status is worth retrying:
// timeouts, throttling and server errors other than 501
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	case http.StatusNotImplemented:
		return false
	}
	return code >= 500 && code <= 599
}

// FromStatus wraps err according to RetryableStatus(code)
func FromStatus(code int, err error) error {
	if RetryableStatus(code) {
		return WrapRetryable(err)
	}
	return WrapPermanent(err)
}
