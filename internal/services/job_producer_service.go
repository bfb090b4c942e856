package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/jobid"
	"github.com/nydiokar/analyzer-sub009/internal/models"
)

var ErrUnknownQueue = errors.New("unknown queue")

// Priorities of producer-submitted jobs. Lower is served first.
const (
	similarityJobPriority = 1
	analysisJobPriority   = 5
	enrichmentJobPriority = 10
)

type jobProducerService struct {
	queues  map[string]JobQueueInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewJobProducerService enqueues onto the given queues, keyed by queue name.
func NewJobProducerService(queues map[string]JobQueueInterface, metrics MetricsRecorderInterface, logger *slog.Logger) JobProducerServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &jobProducerService{
		queues:  queues,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *jobProducerService) EnqueueWalletSync(ctx context.Context, req *dto.WalletSyncRequest) (*dto.JobResponse, error) {
	return s.enqueue(ctx, models.JobNameSyncWallet,
		jobid.SyncWallet(req.WalletAddress, req.RequestID),
		models.SyncWalletPayload{WalletAddress: req.WalletAddress, RequestID: req.RequestID},
		req.Priority,
	)
}

func (s *jobProducerService) EnqueueSimilarity(ctx context.Context, req *dto.SimilarityRequest) (*dto.JobResponse, error) {
	return s.enqueue(ctx, models.JobNameCalculateSimilarity,
		jobid.CalculateSimilarity(req.WalletAddresses, req.RequestID),
		models.SimilarityPayload{
			WalletAddresses:  req.WalletAddresses,
			RequestID:        req.RequestID,
			FailureThreshold: req.FailureThreshold,
		},
		similarityJobPriority,
	)
}

func (s *jobProducerService) EnqueuePnl(ctx context.Context, req *dto.AnalysisRequest) (*dto.JobResponse, error) {
	return s.enqueue(ctx, models.JobNameCalculatePnl,
		jobid.CalculatePnl(req.WalletAddress, req.DependsOn),
		models.AnalysisPayload{WalletAddress: req.WalletAddress, DependsOn: req.DependsOn},
		analysisJobPriority,
	)
}

func (s *jobProducerService) EnqueueBehavior(ctx context.Context, req *dto.AnalysisRequest) (*dto.JobResponse, error) {
	return s.enqueue(ctx, models.JobNameAnalyzeBehavior,
		jobid.AnalyzeBehavior(req.WalletAddress, req.DependsOn),
		models.AnalysisPayload{WalletAddress: req.WalletAddress, DependsOn: req.DependsOn},
		analysisJobPriority,
	)
}

func (s *jobProducerService) EnqueueEnrichment(ctx context.Context, req *dto.EnrichmentRequest) (*dto.JobResponse, error) {
	return s.enqueue(ctx, models.JobNameEnrichTokens,
		jobid.EnrichTokens(req.WalletAddress, req.RequestID),
		models.EnrichmentPayload{WalletAddress: req.WalletAddress, RequestID: req.RequestID},
		enrichmentJobPriority,
	)
}

func (s *jobProducerService) EnqueueDexFetch(ctx context.Context, req *dto.DexFetchRequest) (*dto.JobResponse, error) {
	return s.enqueue(ctx, models.JobNameFetchDexData,
		jobid.FetchDexData(req.TokenAddress, req.RequestID),
		models.DexFetchPayload{TokenAddress: req.TokenAddress, RequestID: req.RequestID},
		enrichmentJobPriority,
	)
}

// enqueue adds the job under its deterministic ID. Resubmitting an identical
// request returns the job already in the queue.
func (s *jobProducerService) enqueue(ctx context.Context, jobName, jobID string, payload interface{}, priority int) (*dto.JobResponse, error) {
	queueName := models.QueueForJob(jobName)
	q, err := s.queue(queueName)
	if err != nil {
		return nil, err
	}

	tags := map[string]string{"queue": queueName, "job_name": jobName}

	job, err := q.Add(ctx, jobName, payload, models.JobOptions{
		JobID:    jobID,
		Priority: priority,
	})
	if err != nil {
		tags["status"] = "error"
		s.countEnqueued(tags)
		return nil, fmt.Errorf("failed to enqueue %s: %w", jobName, err)
	}

	tags["status"] = "accepted"
	s.countEnqueued(tags)

	s.logger.Info("job submitted",
		slog.String("event_type", "job_submitted"),
		slog.String("queue", queueName),
		slog.String("job_id", job.ID),
		slog.String("job_name", jobName),
		slog.String("state", string(job.State)),
	)

	return dto.ToJobResponse(job), nil
}

func (s *jobProducerService) countEnqueued(tags map[string]string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter("job.enqueued", tags)
	}
}

func (s *jobProducerService) queue(name string) (JobQueueInterface, error) {
	q, ok := s.queues[name]
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueue, name)
	}
	return q, nil
}

func (s *jobProducerService) GetJobStatus(ctx context.Context, queueName, jobID string) (*dto.JobResponse, error) {
	q, err := s.queue(queueName)
	if err != nil {
		return nil, err
	}

	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return dto.ToJobResponse(job), nil
}

func (s *jobProducerService) GetQueueCounts(ctx context.Context, queueName string) (*dto.QueueCountsResponse, error) {
	q, err := s.queue(queueName)
	if err != nil {
		return nil, err
	}

	counts, err := q.GetJobCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs in %s: %w", queueName, err)
	}

	return &dto.QueueCountsResponse{
		Queue:  queueName,
		Counts: counts,
		Total:  counts.Total(),
	}, nil
}
