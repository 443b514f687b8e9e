package instrument

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"crudgate/internal/pkg/rate"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"

	// ResetTimeFormat is ISO-8601 in UTC with millisecond precision
	ResetTimeFormat = "2006-01-02T15:04:05.000Z07:00"

	rejectionMessage = "Rate limit exceeded. Please try again later."
)

// RejectionBody is the JSON body of a 429 response
type RejectionBody struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

func setRateLimitHeaders(h http.Header, d rate.Decision) {
	h.Set(HeaderRateLimitLimit, strconv.Itoa(d.Limit))
	h.Set(HeaderRateLimitRemaining, strconv.Itoa(d.Remaining))
	h.Set(HeaderRateLimitReset, d.ResetAt.UTC().Format(ResetTimeFormat))
}

func writeRejection(w http.ResponseWriter, d rate.Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderRetryAfter, strconv.Itoa(d.RetryAfterSeconds))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(RejectionBody{
		Error:      rejectionMessage,
		RetryAfter: d.RetryAfterSeconds,
	})
}

// ParseReset parses an X-RateLimit-Reset header value
func ParseReset(v string) (time.Time, error) {
	return time.Parse(ResetTimeFormat, v)
}
