package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/health"
	"crudgate/internal/pkg/httpclient"
	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/metrics"
	"crudgate/internal/pkg/rate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGateway struct {
	handler  http.Handler
	recorder *metrics.Recorder
}

func newTestGateway(t *testing.T, upstreamURL string, max int, timeout time.Duration) *testGateway {
	t.Helper()

	cfg := &config.Config{
		Service: config.ServiceGateway,
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Gateway: config.GatewayConfig{UpstreamURL: upstreamURL, UpstreamTimeout: timeout, HealthPath: "/health"},
	}
	log := logger.NewNop()

	limiter, err := rate.New(&rate.Config{Window: time.Minute, MaxRequests: max})
	require.NoError(t, err)
	rec := metrics.NewRecorder()
	pipeline := instrument.New(limiter, rec, log)

	proxy, err := NewProxy(cfg, httpclient.NewTransport(), log)
	require.NoError(t, err)

	return &testGateway{
		handler:  NewRouter(pipeline, proxy, health.NewService(health.DefaultServiceConfig()), log),
		recorder: rec,
	}
}

func (g *testGateway) get(target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res := httptest.NewRecorder()
	g.handler.ServeHTTP(res, req)
	return res
}

func TestGateway_ProxiesAndRecordsNormalizedRoute(t *testing.T) {
	var seenID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get(HeaderRequestID)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"path":"` + r.URL.Path + `"}`))
	}))
	defer upstream.Close()

	g := newTestGateway(t, upstream.URL, 10, time.Second)
	id := uuid.NewString()

	res := g.get("/api/users/"+id, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "/api/users/"+id)
	assert.Equal(t, "10", res.Header().Get(instrument.HeaderRateLimitLimit))
	assert.Equal(t, "9", res.Header().Get(instrument.HeaderRateLimitRemaining))

	_, err := uuid.Parse(seenID)
	assert.NoError(t, err, "request id generated and forwarded")
	assert.Equal(t, seenID, res.Header().Get(HeaderRequestID))

	assert.Equal(t, int64(1), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", "/api/users/:id", "2xx"))
	assert.Len(t, g.recorder.Samples(instrument.MetricRequestDuration, "GET", "/api/users/:id"), 1)
}

func TestGateway_KeepsIncomingRequestID(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc-123", r.Header.Get(HeaderRequestID))
	}))
	defer upstream.Close()

	g := newTestGateway(t, upstream.URL, 10, time.Second)
	res := g.get("/api/tasks", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", res.Header().Get(HeaderRequestID))
}

func TestGateway_BadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	g := newTestGateway(t, url, 10, time.Second)
	res := g.get("/api/users", nil)

	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.JSONEq(t, `{"error":"bad gateway"}`, res.Body.String())
	assert.Equal(t, int64(1), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", "/api/users", "5xx"))
}

func TestGateway_UpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer upstream.Close()
	defer close(release)

	g := newTestGateway(t, upstream.URL, 10, 30*time.Millisecond)
	res := g.get("/api/users", nil)

	assert.Equal(t, http.StatusGatewayTimeout, res.Code)
	assert.JSONEq(t, `{"error":"gateway timeout"}`, res.Body.String())
	assert.Equal(t, int64(1), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", "/api/users", "5xx"))
}

func TestGateway_RateLimited(t *testing.T) {
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer upstream.Close()

	g := newTestGateway(t, upstream.URL, 2, time.Second)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, g.get("/api/users", nil).Code)
	}

	res := g.get("/api/users", nil)
	require.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, 2, hits, "rejected request never reaches upstream")

	var body instrument.RejectionBody
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded. Please try again later.", body.Error)
	assert.Positive(t, body.RetryAfter)
	assert.NotEmpty(t, res.Header().Get(instrument.HeaderRetryAfter))
	assert.Equal(t, "0", res.Header().Get(instrument.HeaderRateLimitRemaining))

	// Only the two admitted requests were measured
	assert.Equal(t, int64(2), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", "/api/users", "2xx"))
	assert.Len(t, g.recorder.Samples(instrument.MetricRequestDuration, "GET", "/api/users"), 2)
}

func TestGateway_MetricsEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	g := newTestGateway(t, upstream.URL, 10, time.Second)
	g.get("/api/users", nil)

	res := g.get("/metrics", nil)
	require.Equal(t, http.StatusOK, res.Code)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap.Counters[metrics.SeriesKey(instrument.MetricRequestsTotal, "GET", "/api/users", "2xx")])
	assert.Contains(t, snap.Histograms, metrics.SeriesKey(instrument.MetricRequestDuration, "GET", "/api/users"))
}

func TestGateway_Health(t *testing.T) {
	g := newTestGateway(t, "http://127.0.0.1:1", 10, time.Second)

	res := g.get("/health", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, int64(1), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", "/health", "2xx"))
}

func TestNewProxy_InvalidUpstream(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{UpstreamURL: "localhost-no-scheme"}}
	_, err := NewProxy(cfg, nil, logger.NewNop())
	assert.Error(t, err)
}

func TestGateway_OverwritesForwardedFor(t *testing.T) {
	keyFunc, err := instrument.ForwardedKey("X-Forwarded-For", []string{"127.0.0.1", "::1"})
	require.NoError(t, err)

	var mu sync.Mutex
	var keys []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, keyFunc(r))
		mu.Unlock()
	}))
	defer upstream.Close()

	g := newTestGateway(t, upstream.URL, 10, time.Second)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3, 4.4.4.4"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = "9.9.9.9:5555"
		req.Header.Set("X-Forwarded-For", spoofed)
		res := httptest.NewRecorder()
		g.handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}

	assert.Equal(t, []string{"9.9.9.9", "9.9.9.9", "9.9.9.9"}, keys)
}

func TestGateway_UnmatchedPathsShareSeries(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	g := newTestGateway(t, upstream.URL, 1000, time.Second)
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusNotFound, g.get(fmt.Sprintf("/scan-%d", i), nil).Code)
		assert.Equal(t, http.StatusNotFound, g.get(fmt.Sprintf("/api/scan-%d", i), nil).Code)
	}

	snap := g.recorder.Snapshot()
	assert.Len(t, snap.Counters, 2)
	assert.Len(t, snap.Histograms, 2)
	assert.Equal(t, int64(20), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", instrument.UnmatchedRoute, "4xx"))
	assert.Equal(t, int64(20), g.recorder.Counter(instrument.MetricRequestsTotal, "GET", "/api/", "4xx"))
}
