package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/health"
	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logger"

	"go.uber.org/zap"
)

// Server is the gateway's HTTP server
type Server struct {
	http    *http.Server
	handler http.Handler
	config  *config.Config
	logger  *logger.Logger
}

// NewRouter builds the gateway routes behind the request pipeline
func NewRouter(pipeline *instrument.Pipeline, proxy *Proxy, healthService *health.Service, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", proxy)
	mux.Handle("/metrics", instrument.MetricsHTTPHandler(pipeline.Recorder()))
	mux.Handle("/health", health.HTTPHandler(healthService))
	mux.Handle("/health/live", health.LivenessHandler())

	var h http.Handler = mux
	h = pipeline.HTTP(h)
	h = recoverer(log)(h)
	h = requestLogger(log)(h)
	h = requestID(h)
	return h
}

// NewServer creates the gateway server
func NewServer(cfg *config.Config, log *logger.Logger, pipeline *instrument.Pipeline, proxy *Proxy, healthService *health.Service) *Server {
	h := NewRouter(pipeline, proxy, healthService, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	log.Info("Gateway server initialized", zap.String("upstream", proxy.Target().String()))

	return &Server{
		http:    srv,
		handler: h,
		config:  cfg,
		logger:  log,
	}
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting gateway server", zap.String("address", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down gateway server")
	return s.http.Shutdown(ctx)
}
