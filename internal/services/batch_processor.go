package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"

	"golang.org/x/sync/errgroup"
)

var ErrBatchThresholdNotMet = errors.New("batch success rate below threshold")

const (
	DefaultBatchFailureThreshold = 0.8
	DefaultBatchTimeout          = 30 * time.Minute
	DefaultBatchRetryDelay       = time.Second
	DefaultJobPollInterval       = 2 * time.Second

	jobTimeoutReason  = "Job timeout"
	jobNotFoundReason = "Job not found"
)

// BatchThresholdError is returned when fewer items succeeded than the batch
// requires. The summary is still returned alongside it.
type BatchThresholdError struct {
	SuccessRate float64
	Required    float64
	Failed      int
	Total       int
}

func (e *BatchThresholdError) Error() string {
	return fmt.Sprintf("batch success rate %.1f%% below required %.1f%% (%d/%d failed)",
		e.SuccessRate*100, e.Required*100, e.Failed, e.Total)
}

func (e *BatchThresholdError) Is(target error) bool {
	return target == ErrBatchThresholdNotMet
}

type BatchOptions struct {
	FailureThreshold float64
	Timeout          time.Duration
	MaxConcurrency   int
	RetryAttempts    int
	RetryDelay       time.Duration
	PollInterval     time.Duration
}

type BatchOption func(*BatchOptions)

func WithFailureThreshold(threshold float64) BatchOption {
	return func(o *BatchOptions) { o.FailureThreshold = threshold }
}

func WithBatchTimeout(timeout time.Duration) BatchOption {
	return func(o *BatchOptions) { o.Timeout = timeout }
}

// WithMaxConcurrency caps in-flight items; zero or less means unbounded.
func WithMaxConcurrency(n int) BatchOption {
	return func(o *BatchOptions) { o.MaxConcurrency = n }
}

func WithRetryAttempts(n int) BatchOption {
	return func(o *BatchOptions) { o.RetryAttempts = n }
}

func WithRetryDelay(delay time.Duration) BatchOption {
	return func(o *BatchOptions) { o.RetryDelay = delay }
}

func WithPollInterval(interval time.Duration) BatchOption {
	return func(o *BatchOptions) { o.PollInterval = interval }
}

func buildBatchOptions(pollInterval time.Duration, opts []BatchOption) BatchOptions {
	options := BatchOptions{
		FailureThreshold: DefaultBatchFailureThreshold,
		Timeout:          DefaultBatchTimeout,
		RetryDelay:       DefaultBatchRetryDelay,
		PollInterval:     pollInterval,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultBatchTimeout
	}
	if options.RetryAttempts < 0 {
		options.RetryAttempts = 0
	}
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultJobPollInterval
	}
	return options
}

// BatchProcessor runs independent units of work and tolerates a bounded
// fraction of failures.
type BatchProcessor struct {
	clock        Clock
	pollInterval time.Duration
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
}

func NewBatchProcessor(logger *slog.Logger, metrics MetricsRecorderInterface, pollInterval time.Duration) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultJobPollInterval
	}
	return &BatchProcessor{
		clock:        SystemClock{},
		pollInterval: pollInterval,
		metrics:      metrics,
		logger:       logger,
	}
}

// ProcessBatch runs processor over items. Each item gets up to
// RetryAttempts+1 attempts and no new attempt starts once the batch timeout
// has elapsed. A *BatchThresholdError is returned together with the summary
// when the success rate is below FailureThreshold.
func ProcessBatch[T, R any](
	ctx context.Context,
	bp *BatchProcessor,
	items []T,
	processor func(ctx context.Context, item T) (R, error),
	itemID func(item T) string,
	opts ...BatchOption,
) (*models.BatchSummary[R], error) {
	options := buildBatchOptions(bp.pollInterval, opts)
	start := bp.clock.Now()
	results := make([]models.BatchResult[R], len(items))

	g := new(errgroup.Group)
	if options.MaxConcurrency > 0 {
		g.SetLimit(options.MaxConcurrency)
	}

	for i, item := range items {
		g.Go(func() error {
			results[i] = processItem(ctx, bp, item, processor, itemID(item), start, options)
			return nil
		})
	}
	_ = g.Wait()

	elapsed := bp.clock.Now().Sub(start)
	timedOut := elapsed > options.Timeout
	summary := summarize(results, timedOut)

	bp.logSummary("batch processing completed", tally(summary), elapsed, timedOut, options)
	if bp.metrics != nil {
		bp.metrics.RecordProcessingTime("batch.processing", elapsed)
	}

	return summary, bp.checkThreshold(tally(summary), options)
}

func processItem[T, R any](
	ctx context.Context,
	bp *BatchProcessor,
	item T,
	processor func(ctx context.Context, item T) (R, error),
	id string,
	start time.Time,
	options BatchOptions,
) models.BatchResult[R] {
	itemStart := bp.clock.Now()
	result := models.BatchResult[R]{ItemID: id}
	maxAttempts := options.RetryAttempts + 1

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if elapsed := bp.clock.Now().Sub(start); elapsed > options.Timeout {
			lastErr = fmt.Errorf("batch timeout exceeded after %s", elapsed.Round(time.Millisecond))
			break
		}
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		data, err := processor(ctx, item)
		if err == nil {
			result.Success = true
			result.Data = data
			lastErr = nil
			break
		}
		lastErr = err

		if attempt < maxAttempts {
			bp.logger.Warn("batch item failed, retrying",
				slog.String("event_type", "batch_item_retry"),
				slog.String("item_id", id),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxAttempts),
				slog.Duration("retry_delay", options.RetryDelay),
				slog.String("error", err.Error()),
			)
			if !sleepContext(ctx, options.RetryDelay) {
				lastErr = ctx.Err()
				break
			}
		}
	}

	if lastErr != nil {
		result.Error = lastErr.Error()
	}
	result.ProcessingTimeMs = bp.clock.Now().Sub(itemStart).Milliseconds()

	if bp.metrics != nil {
		status := "success"
		if !result.Success {
			status = "failed"
		}
		bp.metrics.IncrementCounter("batch.item", map[string]string{"status": status})
	}

	return result
}

// JobGetter looks a job up by ID. A nil job or repositories.ErrJobNotFound
// means the job no longer exists.
type JobGetter func(ctx context.Context, jobID string) (*models.Job, error)

// WaitForJobsWithTolerance polls getter on a fixed interval until every job
// is completed, failed or gone, or the timeout elapses. Jobs still pending at
// the timeout count as failed with "Job timeout". Getter errors are logged
// and the job stays pending.
func (bp *BatchProcessor) WaitForJobsWithTolerance(
	ctx context.Context,
	jobIDs []string,
	getter JobGetter,
	opts ...BatchOption,
) (*models.BatchSummary[*models.Job], error) {
	options := buildBatchOptions(bp.pollInterval, opts)
	start := bp.clock.Now()

	results := make([]models.BatchResult[*models.Job], len(jobIDs))
	pending := make(map[int]struct{}, len(jobIDs))
	for i, id := range jobIDs {
		results[i] = models.BatchResult[*models.Job]{ItemID: id}
		pending[i] = struct{}{}
	}

	timedOut := false
	for len(pending) > 0 {
		for i := range pending {
			id := jobIDs[i]
			job, err := getter(ctx, id)
			if err != nil && !errors.Is(err, repositories.ErrJobNotFound) {
				bp.logger.Warn("failed to fetch job status, will retry",
					slog.String("event_type", "batch_job_poll_error"),
					slog.String("job_id", id),
					slog.String("error", err.Error()),
				)
				continue
			}

			elapsedMs := bp.clock.Now().Sub(start).Milliseconds()
			switch {
			case job == nil:
				results[i].Error = jobNotFoundReason
			case job.State == models.JobStateCompleted:
				results[i].Success = true
				results[i].Data = job
			case job.State == models.JobStateFailed:
				results[i].Data = job
				results[i].Error = job.FailedReason
				if results[i].Error == "" {
					results[i].Error = "Job failed"
				}
			default:
				continue
			}
			results[i].ProcessingTimeMs = elapsedMs
			delete(pending, i)
		}

		if len(pending) == 0 {
			break
		}

		if bp.clock.Now().Sub(start) >= options.Timeout {
			timedOut = true
			break
		}
		if !sleepContext(ctx, options.PollInterval) {
			break
		}
	}

	reason := jobTimeoutReason
	if !timedOut && ctx.Err() != nil {
		reason = ctx.Err().Error()
	}
	elapsed := bp.clock.Now().Sub(start)
	for i := range pending {
		results[i].Error = reason
		results[i].ProcessingTimeMs = elapsed.Milliseconds()
	}

	summary := summarize(results, timedOut)
	bp.logSummary("job wait completed", tally(summary), elapsed, timedOut, options)

	return summary, bp.checkThreshold(tally(summary), options)
}

func summarize[R any](results []models.BatchResult[R], timedOut bool) *models.BatchSummary[R] {
	summary := &models.BatchSummary[R]{
		TotalItems: len(results),
		TimedOut:   timedOut,
		Results:    results,
	}
	for _, r := range results {
		if r.Success {
			summary.SuccessfulItems++
		} else {
			summary.FailedItems++
		}
	}

	summary.SuccessRate = 1.0
	if summary.TotalItems > 0 {
		summary.SuccessRate = float64(summary.SuccessfulItems) / float64(summary.TotalItems)
	}

	return summary
}

type batchTally struct {
	rate   float64
	failed int
	total  int
}

func tally[R any](summary *models.BatchSummary[R]) batchTally {
	return batchTally{rate: summary.SuccessRate, failed: summary.FailedItems, total: summary.TotalItems}
}

func (bp *BatchProcessor) checkThreshold(t batchTally, options BatchOptions) error {
	if t.rate < options.FailureThreshold {
		return &BatchThresholdError{
			SuccessRate: t.rate,
			Required:    options.FailureThreshold,
			Failed:      t.failed,
			Total:       t.total,
		}
	}
	return nil
}

func (bp *BatchProcessor) logSummary(msg string, t batchTally, elapsed time.Duration, timedOut bool, options BatchOptions) {
	level := slog.LevelInfo
	if t.rate < options.FailureThreshold {
		level = slog.LevelError
	} else if t.failed > 0 {
		level = slog.LevelWarn
	}

	bp.logger.Log(context.Background(), level, msg,
		slog.String("event_type", "batch_summary"),
		slog.Int("total_items", t.total),
		slog.Int("successful_items", t.total-t.failed),
		slog.Int("failed_items", t.failed),
		slog.Float64("success_rate", t.rate),
		slog.Float64("failure_threshold", options.FailureThreshold),
		slog.Duration("elapsed", elapsed),
		slog.Bool("timed_out", timedOut),
	)
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
