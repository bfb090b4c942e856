package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/errors"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/services"
	"github.com/nydiokar/analyzer-sub009/internal/validation"
)

const (
	defaultFailuresLimit = 50
	maxFailuresLimit     = 500
)

// DeadLetterHandler exposes dead-letter queue statistics and maintenance
type DeadLetterHandler struct {
	dlq    services.DeadLetterQueueServiceInterface
	logger *slog.Logger
}

// NewDeadLetterHandler creates a new dead-letter handler
func NewDeadLetterHandler(dlq services.DeadLetterQueueServiceInterface, logger *slog.Logger) *DeadLetterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeadLetterHandler{dlq: dlq, logger: logger}
}

// GetStats returns the dead-letter queue depth per state
// @Summary Dead-letter statistics
// @Tags DeadLetter
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DeadLetterStats
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Missing authentication"
// @Failure 503 {object} errors.ErrorResponse "QUEUE_003 - Dead-letter queue is unavailable"
// @Router /dead-letter/stats [get]
func (h *DeadLetterHandler) GetStats(c echo.Context) error {
	stats, err := h.dlq.GetStats(c.Request().Context())
	if err != nil {
		h.logBrokerError(c, "get_stats", err)
		return SendError(c, errors.QueueDeadLetterUnavailable)
	}

	return c.JSON(http.StatusOK, stats)
}

// ListFailures returns the most recent dead-letter records, newest first
// @Summary Recent failures
// @Tags DeadLetter
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Number of records (max 500)" default(50)
// @Success 200 {object} dto.FailuresListResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 - Limit out of range"
// @Failure 503 {object} errors.ErrorResponse "QUEUE_003 - Dead-letter queue is unavailable"
// @Router /dead-letter/failures [get]
func (h *DeadLetterHandler) ListFailures(c echo.Context) error {
	limit, ok := getIntParam(c, "limit", defaultFailuresLimit)
	if !ok {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("limit: must be a number"))
	}
	if limit < 1 || limit > maxFailuresLimit {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("limit: must be between 1 and 500"))
	}

	failures, err := h.dlq.GetRecentFailures(c.Request().Context(), limit)
	if err != nil {
		h.logBrokerError(c, "list_failures", err)
		return SendError(c, errors.QueueDeadLetterUnavailable)
	}

	return c.JSON(http.StatusOK, dto.FailuresListResponse{
		Failures: failures,
		Count:    len(failures),
		Limit:    limit,
	})
}

// CleanupFailures deletes dead-letter records older than the given period
// @Summary Delete old failures
// @Tags DeadLetter
// @Security BearerAuth
// @Produce json
// @Param olderThan query string true "Retention period, e.g. 24h or 7d"
// @Success 200 {object} dto.CleanupFailuresResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid duration"
// @Failure 503 {object} errors.ErrorResponse "QUEUE_003 - Dead-letter queue is unavailable"
// @Router /dead-letter/failures [delete]
func (h *DeadLetterHandler) CleanupFailures(c echo.Context) error {
	var req dto.CleanupFailuresRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	olderThan, err := parseRetention(req.OlderThan)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDuration, errors.WithDetails("olderThan: "+err.Error()))
	}

	removed, err := h.dlq.CleanupOldFailures(c.Request().Context(), olderThan)
	if err != nil {
		h.logBrokerError(c, "cleanup_failures", err)
		return SendError(c, errors.QueueDeadLetterUnavailable)
	}

	h.logger.Info("dead-letter records removed by operator",
		slog.String("event_type", "dead_letter_cleanup_requested"),
		slog.String("operator", getOperatorFromContext(c)),
		slog.String("client_ip", getClientIP(c)),
		slog.Duration("older_than", olderThan),
		slog.Int("removed", removed),
	)

	return c.JSON(http.StatusOK, dto.CleanupFailuresResponse{
		Removed:   removed,
		OlderThan: req.OlderThan,
	})
}

// GetFailureRate returns the rolling failure count of one queue
// @Summary Queue failure rate
// @Tags DeadLetter
// @Security BearerAuth
// @Produce json
// @Param queue path string true "Queue name"
// @Success 200 {object} dto.FailureRateResponse
// @Failure 404 {object} errors.ErrorResponse "QUEUE_001 - Queue not found"
// @Router /dead-letter/failure-rates/{queue} [get]
func (h *DeadLetterHandler) GetFailureRate(c echo.Context) error {
	queueName := c.Param("queue")
	if !validation.IsQueueName(queueName) || queueName == models.DeadLetterQueueName {
		return SendError(c, errors.QueueNotFound, errors.WithDetails("queue: "+queueName))
	}

	recent := h.dlq.GetRecentFailureCount(queueName)
	threshold := h.dlq.FailureThreshold()

	return c.JSON(http.StatusOK, dto.FailureRateResponse{
		Queue:          queueName,
		RecentFailures: recent,
		Threshold:      threshold,
		Window:         h.dlq.FailureWindow().String(),
		AboveThreshold: recent >= threshold,
	})
}

func (h *DeadLetterHandler) logBrokerError(c echo.Context, op string, err error) {
	h.logger.Error("dead-letter operation failed",
		slog.String("event_type", "dead_letter_api_error"),
		slog.String("operation", op),
		slog.String("trace_id", getTraceID(c)),
		slog.String("error", err.Error()),
	)
}
