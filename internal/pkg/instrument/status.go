package instrument

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatusClientClosedRequest is recorded when the caller goes away before a
// response is produced
const StatusClientClosedRequest = 499

// StatusFor maps a handler error to the status recorded for it
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest
	}
	return http.StatusInternalServerError
}

// StatusClass buckets a status code into "1xx" .. "5xx"
func StatusClass(status int) string {
	switch {
	case status >= 100 && status < 200:
		return "1xx"
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
