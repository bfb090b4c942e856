package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nydiokar/analyzer-sub009/internal/errors"
)

const healthPingTimeout = 2 * time.Second

// BrokerPinger is satisfied by the queue runtime and its repositories
type BrokerPinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	broker  BrokerPinger
	backend string
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(broker BrokerPinger, backend string) *HealthCheckHandler {
	return &HealthCheckHandler{broker: broker, backend: backend}
}

// HealthCheck reports whether the queue broker answers a ping
// @Summary Health check
// @Description Check API and queue broker connectivity status
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,backend=string,time=string} "Service is healthy"
// @Failure 503 {object} errors.ErrorResponse "QUEUE_002 - Queue broker is unavailable"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	if err := h.broker.Ping(ctx); err != nil {
		return SendError(c, errors.QueueUnavailable, errors.WithDetails("Broker ping failed"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"backend": h.backend,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
