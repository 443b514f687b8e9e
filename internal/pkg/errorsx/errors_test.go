package errorsx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	base := errors.New("dial tcp: connection refused")

	r := WrapRetryable(base)
	assert.True(t, IsRetryable(r))
	assert.False(t, IsPermanent(r))
	assert.ErrorIs(t, r, base)

	p := WrapPermanent(base)
	assert.True(t, IsPermanent(p))
	assert.False(t, IsRetryable(p))

	assert.Nil(t, WrapRetryable(nil))
	assert.Nil(t, WrapPermanent(nil))
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusNotImplemented, false},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RetryableStatus(tt.code), "status %d", tt.code)
	}

	assert.True(t, IsRetryable(FromStatus(http.StatusServiceUnavailable, errors.New("x"))))
	assert.True(t, IsPermanent(FromStatus(http.StatusNotFound, errors.New("x"))))
}
