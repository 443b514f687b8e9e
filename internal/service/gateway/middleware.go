package gateway

import (
	"net/http"
	"time"

	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logctx"
	"crudgate/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request correlation ID
const HeaderRequestID = "X-Request-ID"

// requestID ensures every request carries an ID, forwarded upstream and echoed back
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(logctx.WithRequestID(r.Context(), id)))
	})
}

// requestLogger logs one line per request
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := instrument.NewStatusRecorder(w)

			next.ServeHTTP(sw, r)

			log.Info("HTTP request", append(logctx.Fields(r.Context()),
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.String("remote_ip", instrument.ClientKey(r)),
				zap.Int("status", sw.Status()),
				zap.Int64("latency_ms", time.Since(start).Milliseconds()),
				zap.String("user_agent", r.UserAgent()),
			)...)
		})
	}
}

// recoverer turns a handler panic into a 500 after the pipeline has recorded it
func recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Recovered from panic", append(logctx.Fields(r.Context()),
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
					)...)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
