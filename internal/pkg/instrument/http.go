package instrument

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"crudgate/internal/pkg/metrics"

	"github.com/google/uuid"
)

// HTTP wraps next for plain net/http servers. The route label is the request
// path with ID-like segments collapsed. When next is a ServeMux, requests it
// does not route are labeled UnmatchedRoute and 404 or 405 answers carry the
// mux pattern, so arbitrary paths cannot add series.
func (p *Pipeline) HTTP(next http.Handler) http.Handler {
	mux, _ := next.(*http.ServeMux)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.Admit(w, r).Allowed {
			return
		}

		sw := NewStatusRecorder(w)
		route := func(status int) string {
			return httpRoute(mux, r, status)
		}
		_, _ = p.observe(r.Method, route, func() (int, error) {
			next.ServeHTTP(sw, r)
			if !sw.Written() {
				if err := r.Context().Err(); err != nil {
					return StatusFor(err), nil
				}
			}
			return sw.status, nil
		})
	})
}

func httpRoute(mux *http.ServeMux, r *http.Request, status int) string {
	notFound := status == http.StatusNotFound || status == http.StatusMethodNotAllowed
	if mux == nil {
		if notFound {
			return UnmatchedRoute
		}
		return NormalizePath(r.URL.Path)
	}

	// The mux redirects unclean paths and reports the redirect target as
	// the pattern, which is request controlled
	_, pattern := mux.Handler(r)
	if pattern == "" || !isCleanPath(r.URL.Path) {
		return UnmatchedRoute
	}
	if notFound {
		return pattern
	}
	return NormalizePath(r.URL.Path)
}

func isCleanPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	cleaned := path.Clean(p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned == p
}

// StatusRecorder captures the status written by the wrapped handler
type StatusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

// NewStatusRecorder wraps w; the status defaults to 200 until written
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// Status returns the recorded status code
func (s *StatusRecorder) Status() int {
	return s.status
}

// Written reports whether the handler wrote a header or body
func (s *StatusRecorder) Written() bool {
	return s.wroteHeader
}

func (s *StatusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *StatusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.wroteHeader = true
	}
	return s.ResponseWriter.Write(b)
}

// Flush keeps streaming responses from the reverse proxy working
func (s *StatusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer
func (s *StatusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// NormalizePath replaces numeric and UUID path segments with ":id" so raw
// IDs do not create one series each
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if isNumeric(seg) {
			segments[i] = ":id"
			continue
		}
		if _, err := uuid.Parse(seg); err == nil && len(seg) == 36 {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// MetricsHTTPHandler serves the recorder snapshot as JSON
func MetricsHTTPHandler(rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(rec.Snapshot())
	}
}
