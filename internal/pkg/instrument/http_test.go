package instrument

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTP_AdmitsAndRecords(t *testing.T) {
	p, rec := newTestPipeline(t, 2)
	h := p.HTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	res := serve(h, http.MethodPost, "/api/tasks", "10.0.0.1:1000")
	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "1", res.Header().Get(HeaderRateLimitRemaining))
	assert.Equal(t, int64(1), rec.Counter(MetricRequestsTotal, "POST", "/api/tasks", "2xx"))
}

func TestHTTP_ImplicitOK(t *testing.T) {
	p, rec := newTestPipeline(t, 2)
	h := p.HTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	serve(h, http.MethodGet, "/api/users/42", "10.0.0.1:1000")
	assert.Equal(t, int64(1), rec.Counter(MetricRequestsTotal, "GET", "/api/users/:id", "2xx"))
}

func TestHTTP_Rejects(t *testing.T) {
	p, rec := newTestPipeline(t, 1)
	calls := 0
	h := p.HTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	serve(h, http.MethodGet, "/api/users", "10.0.0.1:1000")
	res := serve(h, http.MethodGet, "/api/users", "10.0.0.1:1000")

	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
	assert.Len(t, rec.Samples(MetricRequestDuration, "GET", "/api/users"), 1)
}

func TestHTTP_PanicRecordedAndPropagated(t *testing.T) {
	p, rec := newTestPipeline(t, 5)
	h := p.HTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("proxy exploded")
	}))

	assert.Panics(t, func() {
		serve(h, http.MethodGet, "/api/users", "10.0.0.1:1000")
	})
	assert.Equal(t, int64(1), rec.Counter(MetricRequestsTotal, "GET", "/api/users", "5xx"))
}

func TestHTTP_CancelledBeforeResponse(t *testing.T) {
	p, rec := newTestPipeline(t, 5)
	h := p.HTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(1), rec.Counter(MetricRequestsTotal, "GET", "/api/users", "4xx"))
}

func TestHTTP_MuxRouteLabels(t *testing.T) {
	p, rec := newTestPipeline(t, 100)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/7" {
			return
		}
		http.NotFound(w, r)
	})
	h := p.HTTP(mux)

	serve(h, http.MethodGet, "/api/users/7", "10.0.0.1:1000")
	for i := 0; i < 5; i++ {
		serve(h, http.MethodGet, fmt.Sprintf("/api/scan-%d", i), "10.0.0.1:1000")
		serve(h, http.MethodGet, fmt.Sprintf("/scan-%d", i), "10.0.0.1:1000")
		serve(h, http.MethodGet, fmt.Sprintf("/api//scan-%d", i), "10.0.0.1:1000")
	}

	assert.Equal(t, int64(1), rec.Counter(MetricRequestsTotal, "GET", "/api/users/:id", "2xx"))
	assert.Equal(t, int64(5), rec.Counter(MetricRequestsTotal, "GET", "/api/", "4xx"))
	assert.Equal(t, int64(5), rec.Counter(MetricRequestsTotal, "GET", UnmatchedRoute, "4xx"))
	assert.Equal(t, int64(5), rec.Counter(MetricRequestsTotal, "GET", UnmatchedRoute, "3xx"))
	assert.Len(t, rec.Snapshot().Histograms, 3)
}

func TestHTTP_PlainHandlerNotFound(t *testing.T) {
	p, rec := newTestPipeline(t, 10)
	h := p.HTTP(http.NotFoundHandler())

	serve(h, http.MethodGet, "/a", "10.0.0.1:1000")
	serve(h, http.MethodGet, "/b", "10.0.0.1:1000")
	assert.Equal(t, int64(2), rec.Counter(MetricRequestsTotal, "GET", UnmatchedRoute, "4xx"))
}

