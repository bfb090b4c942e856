package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"
)

type WorkerOptions struct {
	Concurrency    int
	PollInterval   time.Duration
	JobTimeout     time.Duration
	CircuitBreaker CircuitBreakerConfig
	Metrics        MetricsRecorder
	Logger         *slog.Logger
}

// Worker claims jobs from one queue and runs them through a Processor.
type Worker struct {
	queue     *Queue
	processor Processor
	opts      WorkerOptions
	breaker   CircuitBreakerInterface
	metrics   MetricsRecorder
	semaphore chan struct{}
	wg        sync.WaitGroup
	logger    *slog.Logger

	mu        sync.Mutex
	running   bool
	stopLoop  context.CancelFunc
	abortJobs context.CancelFunc
	loopDone  chan struct{}
}

func NewWorker(q *Queue, processor Processor, opts WorkerOptions) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.CircuitBreaker.MaxFailures <= 0 {
		opts.CircuitBreaker = DefaultCircuitBreakerConfig()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = q.logger
	}

	return &Worker{
		queue:     q,
		processor: processor,
		opts:      opts,
		breaker:   NewCircuitBreaker(opts.CircuitBreaker),
		metrics:   metrics,
		semaphore: make(chan struct{}, opts.Concurrency),
		logger:    logger.With(slog.String("component", "worker")),
	}
}

// Start runs the polling loop in the background until Close is called or ctx
// is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true

	loopCtx, stopLoop := context.WithCancel(ctx)
	jobCtx, abortJobs := context.WithCancel(context.WithoutCancel(ctx))
	w.stopLoop = stopLoop
	w.abortJobs = abortJobs
	w.loopDone = make(chan struct{})

	go w.run(loopCtx, jobCtx)
}

func (w *Worker) run(loopCtx, jobCtx context.Context) {
	defer close(w.loopDone)

	w.logger.Info("starting worker",
		slog.Int("concurrency", w.opts.Concurrency),
		slog.Duration("poll_interval", w.opts.PollInterval),
	)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.poll(loopCtx, jobCtx)
	for {
		select {
		case <-loopCtx.Done():
			w.logger.Info("worker shutting down, waiting for active jobs to complete")
			w.wg.Wait()
			w.logger.Info("worker stopped")
			return
		case <-ticker.C:
			w.poll(loopCtx, jobCtx)
		}
	}
}

func (w *Worker) poll(loopCtx, jobCtx context.Context) {
	if w.breaker.IsOpen() {
		w.metrics.IncrementCounter("circuit_breaker.open", map[string]string{
			"service": "queue_" + w.queue.name,
		})
		return
	}

	if _, err := w.queue.repo.PromoteDelayed(loopCtx, w.queue.name, w.queue.now()); err != nil {
		w.brokerFailure("promote delayed jobs", err)
		return
	}

	for {
		select {
		case w.semaphore <- struct{}{}:
		default:
			return
		}

		if loopCtx.Err() != nil {
			<-w.semaphore
			return
		}

		job, err := w.queue.repo.ClaimNext(loopCtx, w.queue.name, w.queue.now())
		if err != nil {
			<-w.semaphore
			w.brokerFailure("claim job", err)
			return
		}
		if job == nil {
			<-w.semaphore
			return
		}
		w.breaker.RecordSuccess()

		w.wg.Add(1)
		go w.handle(jobCtx, job)
	}
}

func (w *Worker) brokerFailure(operation string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	w.breaker.RecordFailure()
	w.logger.Error("queue storage operation failed",
		slog.String("event_type", "queue_storage_error"),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

func (w *Worker) handle(ctx context.Context, job *models.Job) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()

	start := time.Now()
	result, err := w.execute(ctx, job)
	job.AttemptsMade++

	// Bookkeeping must land even when the worker is aborting.
	ctx = context.WithoutCancel(ctx)

	tags := map[string]string{"queue": w.queue.name, "job_name": job.Name}
	w.metrics.RecordProcessingTime("job.processing", time.Since(start))

	if err == nil {
		w.complete(ctx, job, result)
		w.metrics.IncrementCounter("job.completed", tags)
		return
	}

	if job.CanRetry() {
		w.retry(ctx, job, err)
		w.metrics.IncrementCounter("job.retried", tags)
		return
	}

	w.fail(ctx, job, err)
	w.metrics.IncrementCounter("job.failed", tags)
}

// execute runs the processor, converting panics into errors so the job is
// always recorded as finished.
func (w *Worker) execute(ctx context.Context, job *models.Job) (result json.RawMessage, err error) {
	if w.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.JobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("processor panicked",
				slog.String("event_type", "processor_panic"),
				slog.String("job_id", job.ID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			result = nil
			err = fmt.Errorf("processor panic: %v", r)
		}
	}()

	return w.processor.Process(ctx, job)
}

func (w *Worker) complete(ctx context.Context, job *models.Job, result json.RawMessage) {
	if len(result) > 0 && !json.Valid(result) {
		result, _ = json.Marshal(string(result))
	}

	now := w.queue.now()
	if err := w.queue.repo.Complete(ctx, job, result, now); err != nil {
		w.finalizeError(job, "complete", err)
		return
	}

	w.logger.Info("job completed",
		slog.String("event_type", "job_completed"),
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
		slog.Int("attempts_made", job.AttemptsMade),
		slog.Duration("processing_time", job.ProcessingTime()),
	)

	_ = w.queue.publish(ctx, models.JobEvent{
		Queue:       w.queue.name,
		Type:        models.JobEventCompleted,
		JobID:       job.ID,
		ReturnValue: result,
		Timestamp:   now,
	})

	w.trim(ctx, models.JobStateCompleted, job.KeepComplete)
}

func (w *Worker) retry(ctx context.Context, job *models.Job, cause error) {
	availableAt := job.NextAvailableAt(w.queue.now())
	if err := w.queue.repo.Retry(ctx, job, cause.Error(), availableAt); err != nil {
		w.finalizeError(job, "retry", err)
		return
	}

	w.logger.Warn("job attempt failed, retry scheduled",
		slog.String("event_type", "job_retry_scheduled"),
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
		slog.Int("attempts_made", job.AttemptsMade),
		slog.Int("max_attempts", job.MaxAttempts),
		slog.Time("available_at", availableAt),
		slog.String("error", cause.Error()),
	)
}

func (w *Worker) fail(ctx context.Context, job *models.Job, cause error) {
	now := w.queue.now()
	if err := w.queue.repo.Fail(ctx, job, cause.Error(), now); err != nil {
		w.finalizeError(job, "fail", err)
		return
	}

	w.logger.Error("job failed",
		slog.String("event_type", "job_failed"),
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
		slog.Int("attempts_made", job.AttemptsMade),
		slog.String("error", cause.Error()),
	)

	snapshot, err := json.Marshal(job)
	if err != nil {
		snapshot = nil
	}

	err = w.queue.publish(ctx, models.JobEvent{
		Queue:        w.queue.name,
		Type:         models.JobEventFailed,
		JobID:        job.ID,
		FailedReason: cause.Error(),
		Prev:         string(snapshot),
		Timestamp:    now,
	})
	if errors.Is(err, ErrEventDropped) {
		w.metrics.IncrementCounter("job_event.dropped", map[string]string{
			"queue": w.queue.name,
			"event": string(models.JobEventFailed),
		})
	}

	w.trim(ctx, models.JobStateFailed, job.KeepFail)
}

func (w *Worker) finalizeError(job *models.Job, operation string, err error) {
	if errors.Is(err, repositories.ErrJobStateConflict) {
		w.logger.Warn("job changed state while active",
			slog.String("event_type", "job_state_conflict"),
			slog.String("job_id", job.ID),
			slog.String("operation", operation),
		)
		return
	}
	w.brokerFailure(operation+" job "+job.ID, err)
}

func (w *Worker) trim(ctx context.Context, state models.JobState, keep int) {
	if keep <= 0 {
		return
	}
	if _, err := w.queue.repo.Trim(ctx, w.queue.name, state, keep); err != nil {
		w.logger.Warn("failed to trim finished jobs",
			slog.String("event_type", "queue_trim_failed"),
			slog.String("state", string(state)),
			slog.String("error", err.Error()),
		)
	}
}

// Close stops claiming new jobs and waits for active ones. If ctx expires
// first, active jobs are cancelled and ctx's error is returned.
func (w *Worker) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopLoop, abortJobs, done := w.stopLoop, w.abortJobs, w.loopDone
	w.mu.Unlock()

	stopLoop()
	defer abortJobs()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		abortJobs()
		<-done
		return ctx.Err()
	}
}

func (w *Worker) CircuitState() models.CircuitBreakerState {
	return w.breaker.GetState()
}
