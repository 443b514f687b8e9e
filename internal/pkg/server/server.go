package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/health"
	"crudgate/internal/pkg/instrument"
	"crudgate/internal/pkg/logctx"
	"crudgate/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server wraps Echo server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
}

// NewEchoServer creates a new Echo server instance with the request
// pipeline installed in front of every route
func NewEchoServer(cfg *config.Config, log *logger.Logger, pipeline *instrument.Pipeline, healthService *health.Service) *Server {
	e := echo.New()

	// Hide Echo banner
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.Server.WriteTimeout) * time.Second

	setupMiddleware(e, cfg, log, pipeline)

	e.GET("/health", echo.WrapHandler(health.HTTPHandler(healthService)))
	e.GET("/health/live", echo.WrapHandler(health.LivenessHandler()))
	e.GET("/metrics", instrument.MetricsHandler(pipeline.Recorder()))

	log.Info("Echo server initialized")

	return &Server{
		echo:   e,
		config: cfg,
		logger: log,
	}
}

// setupMiddleware configures Echo middleware. The request logger wraps
// Recover so panicking requests are logged with their 500. The pipeline sits
// inside Recover and outside Timeout so panics and timeouts are both measured.
func setupMiddleware(e *echo.Echo, cfg *config.Config, log *logger.Logger, pipeline *instrument.Pipeline) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logctx.WithRequestID(c.Request().Context(), id)))
		},
	}))

	e.Use(requestLoggerMiddleware(log))

	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{
			instrument.HeaderRateLimitLimit,
			instrument.HeaderRateLimitRemaining,
			instrument.HeaderRateLimitReset,
			instrument.HeaderRetryAfter,
		},
	}))

	e.Use(pipeline.Echo())

	if cfg.Server.RequestTimeout > 0 {
		// Handlers that hit the deadline reach the pipeline as a 503 HTTPError
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		}))
	}
}

// requestLoggerMiddleware creates a custom logger middleware
func requestLoggerMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()

			err := next(c)

			log.Info("HTTP request", append(logctx.Fields(c.Request().Context()),
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Int64("latency_ms", time.Since(start).Milliseconds()),
				zap.String("user_agent", req.UserAgent()),
			)...)

			return err
		}
	}
}

// GetEcho returns the Echo instance
func (s *Server) GetEcho() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Response is a standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Message string      `json:"message"`
}

// SuccessResponse creates a success response
func SuccessResponse(c echo.Context, statusCode int, data interface{}, message string) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// ErrorResponse creates an error response
func ErrorResponse(c echo.Context, statusCode int, err interface{}, message string) error {
	return c.JSON(statusCode, Response{
		Success: false,
		Error:   err,
		Message: message,
	})
}
