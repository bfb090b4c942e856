package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/errors"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

// JobHandler submits analyzer jobs on behalf of operators
type JobHandler struct {
	producer services.JobProducerServiceInterface
	logger   *slog.Logger
}

// NewJobHandler creates a new job submission handler
func NewJobHandler(producer services.JobProducerServiceInterface, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{producer: producer, logger: logger}
}

// EnqueueWalletSync submits a wallet sync
// @Summary Submit wallet sync
// @Tags Jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.WalletSyncRequest true "Wallet to sync"
// @Success 202 {object} dto.JobResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Validation failed"
// @Failure 503 {object} errors.ErrorResponse "QUEUE_002 - Queue broker is unavailable"
// @Router /jobs/wallet-sync [post]
func (h *JobHandler) EnqueueWalletSync(c echo.Context) error {
	var req dto.WalletSyncRequest
	return submit(h, c, &req, h.producer.EnqueueWalletSync)
}

// EnqueueSimilarity submits a similarity analysis over a wallet set
// @Summary Submit similarity analysis
// @Tags Jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SimilarityRequest true "Wallet set"
// @Success 202 {object} dto.JobResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Validation failed"
// @Router /jobs/similarity [post]
func (h *JobHandler) EnqueueSimilarity(c echo.Context) error {
	var req dto.SimilarityRequest
	return submit(h, c, &req, h.producer.EnqueueSimilarity)
}

// EnqueuePnl submits a PNL analysis
// @Router /jobs/pnl [post]
func (h *JobHandler) EnqueuePnl(c echo.Context) error {
	var req dto.AnalysisRequest
	return submit(h, c, &req, h.producer.EnqueuePnl)
}

// EnqueueBehavior submits a behavior analysis
// @Router /jobs/behavior [post]
func (h *JobHandler) EnqueueBehavior(c echo.Context) error {
	var req dto.AnalysisRequest
	return submit(h, c, &req, h.producer.EnqueueBehavior)
}

// EnqueueEnrichment submits token balance enrichment for a wallet
// @Router /jobs/enrichment [post]
func (h *JobHandler) EnqueueEnrichment(c echo.Context) error {
	var req dto.EnrichmentRequest
	return submit(h, c, &req, h.producer.EnqueueEnrichment)
}

// EnqueueDexFetch submits a DEX data fetch for a token
// @Router /jobs/dex [post]
func (h *JobHandler) EnqueueDexFetch(c echo.Context) error {
	var req dto.DexFetchRequest
	return submit(h, c, &req, h.producer.EnqueueDexFetch)
}

func submit[T any](h *JobHandler, c echo.Context, req *T, enqueue func(context.Context, *T) (*dto.JobResponse, error)) error {
	if err := c.Bind(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	job, err := enqueue(c.Request().Context(), req)
	if err != nil {
		return h.sendEnqueueError(c, err)
	}

	h.logger.Info("job submitted by operator",
		slog.String("event_type", "api_job_submitted"),
		slog.String("operator", getOperatorFromContext(c)),
		slog.String("trace_id", getTraceID(c)),
		slog.String("queue", job.Queue),
		slog.String("job_id", job.ID),
	)

	return c.JSON(http.StatusAccepted, job)
}

func (h *JobHandler) sendEnqueueError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, queue.ErrInvalidJob):
		return SendError(c, errors.JobEnqueueFailed, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrUnknownQueue), stderrors.Is(err, queue.ErrQueueClosed):
		return SendError(c, errors.QueueUnavailable)
	}

	h.logger.Error("enqueue failed",
		slog.String("event_type", "api_enqueue_failed"),
		slog.String("trace_id", getTraceID(c)),
		slog.String("error", err.Error()),
	)
	return SendBrokerError(c, err)
}
