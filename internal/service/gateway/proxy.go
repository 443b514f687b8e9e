package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/httpclient"
	"crudgate/internal/pkg/logctx"
	"crudgate/internal/pkg/logger"

	"go.uber.org/zap"
)

// errorBody is the JSON body written when the upstream cannot answer
type errorBody struct {
	Error string `json:"error"`
}

// Proxy forwards /api traffic to the data service
type Proxy struct {
	target  *url.URL
	proxy   *httputil.ReverseProxy
	timeout time.Duration
	logger  *logger.Logger
}

// NewProxy builds a reverse proxy to the configured upstream
func NewProxy(cfg *config.Config, transport *http.Transport, log *logger.Logger) (*Proxy, error) {
	target, err := url.Parse(cfg.Gateway.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q: scheme and host are required", cfg.Gateway.UpstreamURL)
	}

	timeout := cfg.Gateway.UpstreamTimeout
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}

	p := &Proxy{
		target:  target,
		timeout: timeout,
		logger:  log,
	}

	// Rewrite drops the inbound X-Forwarded-* headers, so the data service
	// sees the gateway's view of the caller rather than a client supplied chain
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = pr.In.Host
			pr.SetXForwarded()
		},
	}
	if transport != nil {
		rp.Transport = transport
	}
	rp.ErrorHandler = p.handleError
	p.proxy = rp

	return p, nil
}

// ServeHTTP forwards the request with the upstream timeout applied
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), p.timeout)
	defer cancel()

	p.proxy.ServeHTTP(w, r.WithContext(ctx))
}

// handleError answers 504 on upstream timeout and 502 on any other failure.
// A caller that already went away gets nothing written.
func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		p.logger.Debug("Client closed request before upstream answered",
			zap.String("path", r.URL.Path),
		)
		return
	}

	status, message := http.StatusBadGateway, "bad gateway"
	if errors.Is(err, context.DeadlineExceeded) {
		status, message = http.StatusGatewayTimeout, "gateway timeout"
	}

	p.logger.Warn("Upstream request failed", append(logctx.Fields(r.Context()),
		zap.String("upstream", p.target.String()),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// Target returns the upstream base URL
func (p *Proxy) Target() *url.URL {
	return p.target
}
