package httpclient

import (
	"testing"
	"time"

	"crudgate/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestNew_UsesUpstreamTimeout(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{UpstreamTimeout: 3 * time.Second}}
	tr := NewTransport()

	c := New(cfg, tr)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Same(t, tr, c.Transport)
}

func TestNew_DefaultTimeout(t *testing.T) {
	c := New(&config.Config{}, NewTransport())
	assert.Equal(t, DefaultTimeout, c.Timeout)
}
