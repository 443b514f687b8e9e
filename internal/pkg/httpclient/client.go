package httpclient

import (
	"net"
	"net/http"
	"time"

	"crudgate/internal/pkg/config"
)

// DefaultTimeout applies when the gateway config leaves the upstream timeout unset
const DefaultTimeout = 15 * time.Second

// NewTransport constructs the tuned transport shared by the proxy and the health probe
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// New constructs an http.Client bounded by the upstream timeout
func New(cfg *config.Config, transport *http.Transport) *http.Client {
	timeout := cfg.Gateway.UpstreamTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
