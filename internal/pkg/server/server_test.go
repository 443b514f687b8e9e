package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/health"
	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/metrics"
	"crudgate/internal/pkg/rate"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, max int) (*Server, *metrics.Recorder) {
	t.Helper()

	cfg := &config.Config{
		Service: config.ServiceData,
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, RequestTimeout: 5},
	}
	limiter, err := rate.New(&rate.Config{Window: time.Minute, MaxRequests: max})
	require.NoError(t, err)

	rec := metrics.NewRecorder()
	p := instrument.New(limiter, rec, logger.NewNop())
	return NewEchoServer(cfg, logger.NewNop(), p, health.NewService(health.DefaultServiceConfig())), rec
}

func TestServer_HealthIsInstrumented(t *testing.T) {
	srv, rec := newTestServer(t, 5)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	res := httptest.NewRecorder()
	srv.GetEcho().ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "4", res.Header().Get(instrument.HeaderRateLimitRemaining))
	assert.NotEmpty(t, res.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, int64(1), rec.Counter(instrument.MetricRequestsTotal, "GET", "/health", "2xx"))
	assert.Contains(t, res.Body.String(), `"status":"UP"`)
}

func TestServer_RateLimitApplies(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	e := srv.GetEcho()

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		res := httptest.NewRecorder()
		e.ServeHTTP(res, req)
		assert.Equal(t, want, res.Code, "request %d", i)
	}
}

func TestServer_UnknownRoutesShareOneSeries(t *testing.T) {
	srv, rec := newTestServer(t, 1000)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan-%d", i), nil)
		req.RemoteAddr = "198.51.100.1:4000"
		res := httptest.NewRecorder()
		srv.GetEcho().ServeHTTP(res, req)
		require.Equal(t, http.StatusNotFound, res.Code)
	}

	snap := rec.Snapshot()
	assert.Len(t, snap.Counters, 1)
	assert.Len(t, snap.Histograms, 1)
	assert.Equal(t, int64(50), rec.Counter(instrument.MetricRequestsTotal, "GET", instrument.UnmatchedRoute, "4xx"))
}

func TestServer_PanicIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{Logger: zap.New(core)}

	cfg := &config.Config{
		Service: config.ServiceData,
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
	}
	limiter, err := rate.New(&rate.Config{Window: time.Minute, MaxRequests: 5})
	require.NoError(t, err)
	rec := metrics.NewRecorder()
	srv := NewEchoServer(cfg, log, instrument.New(limiter, rec, log), health.NewService(health.DefaultServiceConfig()))

	e := srv.GetEcho()
	e.GET("/boom", func(c echo.Context) error {
		panic("handler bug")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, int64(1), rec.Counter(instrument.MetricRequestsTotal, "GET", "/boom", "5xx"))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusInternalServerError), fields["status"])
	assert.Equal(t, "/boom", fields["uri"])
	assert.NotEmpty(t, fields["request_id"])
}
