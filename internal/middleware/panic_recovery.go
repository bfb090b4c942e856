package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiPanicsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analyzer_api_panics_total",
		Help: "Panics recovered in API handlers, by route",
	},
	[]string{"route"},
)

// PanicRecovery turns a handler panic into an error for the HTTP error
// handler, which answers SYSTEM_001 without exposing the panic value.
func PanicRecovery(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				logger.Error("panic recovered",
					slog.String("event_type", "api_panic"),
					slog.String("trace_id", GetTraceID(c)),
					slog.String("panic", fmt.Sprint(r)),
					slog.String("stack_trace", string(debug.Stack())),
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
				)
				apiPanicsTotal.WithLabelValues(c.Path()).Inc()

				err = fmt.Errorf("handler panic: %v", r)
			}()

			return next(c)
		}
	}
}
