package instrument

import (
	"errors"
	"net/http"

	"crudgate/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Echo returns the pipeline as echo middleware. Register it with Use so the
// matched route pattern is available as the route label.
func (p *Pipeline) Echo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !p.Admit(c.Response(), req).Allowed {
				return nil
			}

			var err error
			_, _ = p.observe(req.Method, func(int) string { return echoRoute(c, err) }, func() (int, error) {
				err = next(c)
				return echoStatus(c, err), err
			})
			return err
		}
	}
}

// echoRoute is the registered route pattern. Requests the router could not
// match share UnmatchedRoute so arbitrary paths do not create new series.
func echoRoute(c echo.Context, err error) string {
	if errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) || c.Path() == "" {
		return UnmatchedRoute
	}
	return c.Path()
}

// echoStatus is the status the client sees: what was written if the
// response is committed, otherwise what the error handler will write
func echoStatus(c echo.Context, err error) int {
	res := c.Response()
	if res.Committed || err == nil {
		if res.Status == 0 {
			return http.StatusOK
		}
		return res.Status
	}
	return StatusFor(err)
}

// MetricsHandler serves the recorder snapshot as JSON
func MetricsHandler(rec *metrics.Recorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, rec.Snapshot())
	}
}
