package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
)

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// AlertingServiceInterface routes operational alerts and metrics. None of its
// methods report errors to the caller.
type AlertingServiceInterface interface {
	SendAlert(ctx context.Context, alert models.Alert)
	EmitMetric(name string, value float64, tags map[string]string)
	IncrementCounter(name string, tags map[string]string)
	SetGauge(name string, value float64, tags map[string]string)
	RecordTiming(name string, duration time.Duration, tags map[string]string)
}

// AlertSink delivers alerts to an external system such as a chat webhook.
type AlertSink interface {
	Name() string
	Send(ctx context.Context, alert models.Alert) error
}

// DeadLetterQueueServiceInterface mirrors terminal job failures into the
// dead-letter queue and tracks rolling failure rates per queue.
type DeadLetterQueueServiceInterface interface {
	MonitorQueue(ctx context.Context, queueName string) error
	MonitorKnownQueues(ctx context.Context) error
	StopMonitoring(queueName string) error
	MonitoredQueues() []string

	// Start launches the periodic failure-window cleanup.
	Start(ctx context.Context)
	CleanupFailureWindows()
	Shutdown(ctx context.Context) error

	GetStats(ctx context.Context) (*dto.DeadLetterStats, error)
	GetRecentFailures(ctx context.Context, limit int) ([]models.FailedJobMetrics, error)
	CleanupOldFailures(ctx context.Context, olderThan time.Duration) (int, error)
	GetRecentFailureCount(queueName string) int
	FailureThreshold() int
	FailureWindow() time.Duration
}

// JobProducerServiceInterface enqueues analyzer jobs under deterministic IDs
// and reads their status back.
type JobProducerServiceInterface interface {
	EnqueueWalletSync(ctx context.Context, req *dto.WalletSyncRequest) (*dto.JobResponse, error)
	EnqueueSimilarity(ctx context.Context, req *dto.SimilarityRequest) (*dto.JobResponse, error)
	EnqueuePnl(ctx context.Context, req *dto.AnalysisRequest) (*dto.JobResponse, error)
	EnqueueBehavior(ctx context.Context, req *dto.AnalysisRequest) (*dto.JobResponse, error)
	EnqueueEnrichment(ctx context.Context, req *dto.EnrichmentRequest) (*dto.JobResponse, error)
	EnqueueDexFetch(ctx context.Context, req *dto.DexFetchRequest) (*dto.JobResponse, error)
	GetJobStatus(ctx context.Context, queueName, jobID string) (*dto.JobResponse, error)
	GetQueueCounts(ctx context.Context, queueName string) (*dto.QueueCountsResponse, error)
}

type AnalyzerClientInterface interface {
	SyncWallet(ctx context.Context, walletAddress string) (*dto.WalletSyncResult, error)
	CalculatePnl(ctx context.Context, walletAddress string) (json.RawMessage, error)
	AnalyzeBehavior(ctx context.Context, walletAddress string) (json.RawMessage, error)
	CalculateSimilarity(ctx context.Context, walletAddresses []string) (json.RawMessage, error)
	GetTokenBalances(ctx context.Context, walletAddress string) (*dto.TokenBalancesResponse, error)
	EnrichToken(ctx context.Context, mint string) (json.RawMessage, error)
	FetchDexData(ctx context.Context, tokenAddress string) (json.RawMessage, error)
}

// TokenServiceInterface verifies operator tokens for the admin API.
type TokenServiceInterface interface {
	GenerateOperatorToken(subject, role string, ttl time.Duration) (string, time.Time, error)
	ValidateOperatorToken(tokenString string) (*models.OperatorClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// JobQueueInterface is the subset of *queue.Queue the services depend on.
type JobQueueInterface interface {
	Name() string
	Add(ctx context.Context, name string, data interface{}, opts models.JobOptions) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	GetJobCounts(ctx context.Context) (models.JobCounts, error)
	GetJobs(ctx context.Context, states []models.JobState, offset, limit int) ([]*models.Job, error)
	Clean(ctx context.Context, grace time.Duration, limit int, state models.JobState) ([]string, error)
	Close() error
}

// QueueEventsInterface is the subset of *queue.Events the services depend on.
type QueueEventsInterface interface {
	On(eventType models.JobEventType, handler queue.EventHandler)
	Close() error
}

// QueueEventsFactory opens an event listener for the named queue.
type QueueEventsFactory func(ctx context.Context, queueName string) (QueueEventsInterface, error)

// Clock abstracts the wall clock so time-window logic can be tested.
type Clock interface {
	Now() time.Time
}
