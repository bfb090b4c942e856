package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/errors"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/services"
	"github.com/nydiokar/analyzer-sub009/internal/validation"
)

// QueueHandler reads job counts and job status from the queues
type QueueHandler struct {
	producer services.JobProducerServiceInterface
	logger   *slog.Logger
}

// NewQueueHandler creates a new queue inspection handler
func NewQueueHandler(producer services.JobProducerServiceInterface, logger *slog.Logger) *QueueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueHandler{producer: producer, logger: logger}
}

// GetCounts returns job counts per state for one queue
// @Summary Queue counts
// @Tags Queues
// @Security BearerAuth
// @Produce json
// @Param queue path string true "Queue name"
// @Success 200 {object} dto.QueueCountsResponse
// @Failure 404 {object} errors.ErrorResponse "QUEUE_001 - Queue not found"
// @Router /queues/{queue}/counts [get]
func (h *QueueHandler) GetCounts(c echo.Context) error {
	queueName := c.Param("queue")
	if !validation.IsQueueName(queueName) {
		return SendError(c, errors.QueueNotFound, errors.WithDetails("queue: "+queueName))
	}

	counts, err := h.producer.GetQueueCounts(c.Request().Context(), queueName)
	if err != nil {
		return h.sendQueueError(c, err)
	}

	return c.JSON(http.StatusOK, counts)
}

// GetJob returns the status of one job
// @Summary Job status
// @Tags Queues
// @Security BearerAuth
// @Produce json
// @Param queue path string true "Queue name"
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Validation failed"
// @Failure 404 {object} errors.ErrorResponse "JOB_001 - Job not found"
// @Router /queues/{queue}/jobs/{id} [get]
func (h *QueueHandler) GetJob(c echo.Context) error {
	var params dto.QueueJobParams
	if err := c.Bind(&params); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid path parameters"))
	}
	if !validation.IsQueueName(params.Queue) {
		return SendError(c, errors.QueueNotFound, errors.WithDetails("queue: "+params.Queue))
	}
	if err := c.Validate(params); err != nil {
		return SendValidationError(c, err)
	}

	job, err := h.producer.GetJobStatus(c.Request().Context(), params.Queue, params.JobID)
	if err != nil {
		return h.sendQueueError(c, err)
	}

	return c.JSON(http.StatusOK, job)
}

func (h *QueueHandler) sendQueueError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, queue.ErrJobNotFound):
		return SendError(c, errors.JobNotFound)
	case stderrors.Is(err, services.ErrUnknownQueue):
		return SendError(c, errors.QueueNotFound)
	case stderrors.Is(err, queue.ErrQueueClosed):
		return SendError(c, errors.QueueUnavailable)
	}

	h.logger.Error("queue read failed",
		slog.String("event_type", "api_queue_read_failed"),
		slog.String("trace_id", getTraceID(c)),
		slog.String("error", err.Error()),
	)
	return SendBrokerError(c, err)
}
