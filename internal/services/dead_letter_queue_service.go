package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
)

var (
	ErrQueueNotMonitored      = errors.New("queue is not monitored")
	ErrDeadLetterSelfMonitor  = errors.New("the dead-letter queue cannot monitor itself")
	ErrDeadLetterShuttingDown = errors.New("dead-letter service is shut down")
)

const (
	defaultFailureThreshold  = 10
	defaultFailureWindow     = 5 * time.Minute
	defaultMaxFailureRecords = 1000
	defaultCleanupInterval   = 10 * time.Minute
	defaultEventConcurrency  = 8
	defaultRecentFailures    = 50

	unknownJobName = "unknown"
)

var deadLetterListStates = []models.JobState{
	models.JobStateWaiting,
	models.JobStateActive,
	models.JobStateCompleted,
	models.JobStateFailed,
	models.JobStateDelayed,
}

type DeadLetterOption func(*DeadLetterQueueService)

func WithDeadLetterClock(clock Clock) DeadLetterOption {
	return func(s *DeadLetterQueueService) { s.clock = clock }
}

func WithDeadLetterLogger(logger *slog.Logger) DeadLetterOption {
	return func(s *DeadLetterQueueService) { s.logger = logger }
}

// DeadLetterQueueService listens to the lifecycle events of the production
// queues, copies every terminal failure into the dead-letter queue and raises
// an alert when a queue fails too often inside the rolling window.
//
// The failure window is process local.
type DeadLetterQueueService struct {
	dlq       JobQueueInterface
	newEvents QueueEventsFactory
	alerting  AlertingServiceInterface
	clock     Clock

	threshold   int
	window      time.Duration
	maxRecords  int
	cleanupTick time.Duration
	keepDone    int
	keepFailed  int

	mu        sync.Mutex
	listeners map[string]QueueEventsInterface
	failures  map[string][]time.Time
	stopping  bool
	closed    bool

	// Handlers outlive the listener that dispatched them; handlerCtx is
	// cancelled only once they have finished or Shutdown's deadline passed.
	handlerCtx    context.Context
	handlerCancel context.CancelFunc
	sem           chan struct{}
	handlers      sync.WaitGroup

	cleanupCancel context.CancelFunc
	cleanupDone   chan struct{}

	logger *slog.Logger
}

func NewDeadLetterQueueService(
	dlq JobQueueInterface,
	newEvents QueueEventsFactory,
	alerting AlertingServiceInterface,
	cfg config.DeadLetterConfig,
	opts ...DeadLetterOption,
) *DeadLetterQueueService {
	s := &DeadLetterQueueService{
		dlq:         dlq,
		newEvents:   newEvents,
		alerting:    alerting,
		clock:       SystemClock{},
		threshold:   positiveOr(cfg.FailureThreshold, defaultFailureThreshold),
		window:      cfg.FailureWindow,
		maxRecords:  positiveOr(cfg.MaxFailureRecords, defaultMaxFailureRecords),
		cleanupTick: cfg.CleanupInterval,
		keepDone:    cfg.KeepCompleted,
		keepFailed:  cfg.KeepFailed,
		listeners:   make(map[string]QueueEventsInterface),
		failures:    make(map[string][]time.Time),
		sem:         make(chan struct{}, positiveOr(cfg.EventConcurrency, defaultEventConcurrency)),
		logger:      slog.Default(),
	}
	if s.window <= 0 {
		s.window = defaultFailureWindow
	}
	if s.cleanupTick <= 0 {
		s.cleanupTick = defaultCleanupInterval
	}

	s.handlerCtx, s.handlerCancel = context.WithCancel(context.Background())

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func (s *DeadLetterQueueService) FailureThreshold() int {
	return s.threshold
}

func (s *DeadLetterQueueService) FailureWindow() time.Duration {
	return s.window
}

// MonitorQueue subscribes to the failed and completed events of queueName.
// Monitoring an already monitored queue is a no-op.
func (s *DeadLetterQueueService) MonitorQueue(ctx context.Context, queueName string) error {
	if queueName == models.DeadLetterQueueName {
		return ErrDeadLetterSelfMonitor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopping {
		return ErrDeadLetterShuttingDown
	}
	if _, ok := s.listeners[queueName]; ok {
		return nil
	}

	events, err := s.newEvents(ctx, queueName)
	if err != nil {
		return fmt.Errorf("failed to monitor queue %s: %w", queueName, err)
	}

	events.On(models.JobEventFailed, s.eventHandler(queueName, s.handleFailure))
	events.On(models.JobEventCompleted, s.eventHandler(queueName, s.handleCompletion))
	s.listeners[queueName] = events

	s.logger.Info("monitoring queue for failures",
		slog.String("event_type", "dead_letter_monitor_started"),
		slog.String("queue", queueName),
	)

	return nil
}

// MonitorKnownQueues monitors every production queue. It stops at the first
// queue that cannot be monitored.
func (s *DeadLetterQueueService) MonitorKnownQueues(ctx context.Context) error {
	for _, name := range models.KnownQueues {
		if err := s.MonitorQueue(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *DeadLetterQueueService) StopMonitoring(queueName string) error {
	s.mu.Lock()
	events, ok := s.listeners[queueName]
	delete(s.listeners, queueName)
	s.mu.Unlock()

	if !ok {
		return ErrQueueNotMonitored
	}

	if err := events.Close(); err != nil {
		return fmt.Errorf("failed to stop monitoring queue %s: %w", queueName, err)
	}

	s.logger.Info("stopped monitoring queue",
		slog.String("event_type", "dead_letter_monitor_stopped"),
		slog.String("queue", queueName),
	)

	return nil
}

func (s *DeadLetterQueueService) MonitoredQueues() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.listeners))
	for name := range s.listeners {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// eventHandler hands each event to a bounded pool of goroutines. The
// handlers run on the service's own context, not the dispatcher's, so
// closing a listener never aborts a dead-letter write already under way.
func (s *DeadLetterQueueService) eventHandler(queueName string, handle func(context.Context, string, models.JobEvent)) queue.EventHandler {
	return func(_ context.Context, event models.JobEvent) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.handlers.Add(1)
		s.mu.Unlock()

		s.sem <- struct{}{}
		go func() {
			defer s.handlers.Done()
			defer func() { <-s.sem }()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("dead-letter event handler panicked",
						slog.String("event_type", "dead_letter_handler_panic"),
						slog.String("queue", queueName),
						slog.String("job_id", event.JobID),
						slog.Any("panic", r),
					)
				}
			}()

			handle(s.handlerCtx, queueName, event)
		}()
	}
}

func (s *DeadLetterQueueService) handleFailure(ctx context.Context, queueName string, event models.JobEvent) {
	now := s.clock.Now()
	count := s.recordFailure(queueName, now)

	record := buildFailureRecord(queueName, event, now)
	s.writeDeadLetter(ctx, record)

	s.alerting.IncrementCounter("job_failures_total", map[string]string{
		"queue":    queueName,
		"job_name": record.JobName,
	})

	if count >= s.threshold {
		s.alerting.SendAlert(ctx, models.Alert{
			Severity: models.AlertSeverityHigh,
			Title:    "High failure rate detected",
			Message: fmt.Sprintf("Queue %s has %d failures in the last %s (threshold %d)",
				queueName, count, s.window, s.threshold),
			Context: map[string]any{
				"queue":        queueName,
				"failureCount": count,
				"threshold":    s.threshold,
				"window":       s.window.String(),
				"jobId":        record.JobID,
				"error":        record.Error,
			},
			Timestamp: now,
		})
	}
}

func (s *DeadLetterQueueService) handleCompletion(_ context.Context, queueName string, _ models.JobEvent) {
	s.alerting.IncrementCounter("job_completions_total", map[string]string{"queue": queueName})
}

func (s *DeadLetterQueueService) writeDeadLetter(ctx context.Context, record models.FailedJobMetrics) {
	if s.dlq == nil {
		return
	}

	_, err := s.dlq.Add(ctx, models.DeadLetterJobName, record, models.JobOptions{
		Priority:         deadLetterPriority(record.QueueName),
		Attempts:         1,
		RemoveOnComplete: s.keepDone,
		RemoveOnFail:     s.keepFailed,
	})
	if err != nil {
		s.logger.Error("failed to write dead-letter record",
			slog.String("event_type", "dead_letter_write_failed"),
			slog.String("queue", record.QueueName),
			slog.String("job_id", record.JobID),
			slog.String("error", err.Error()),
		)
		s.alerting.IncrementCounter("dead_letter.recorded", map[string]string{"status": "error"})
		return
	}

	s.logger.Warn("job moved to dead-letter queue",
		slog.String("event_type", "dead_letter_recorded"),
		slog.String("queue", record.QueueName),
		slog.String("job_id", record.JobID),
		slog.String("job_name", record.JobName),
		slog.Int("attempts", record.Attempts),
		slog.String("error", record.Error),
	)
	s.alerting.IncrementCounter("dead_letter.recorded", map[string]string{"status": "success"})
}

// deadLetterPriority orders dead-letter records by the business weight of the
// queue they came from. Lower is more important.
func deadLetterPriority(queueName string) int {
	switch queueName {
	case models.QueueSimilarityOperations:
		return 1
	case models.QueueAnalysisOperations:
		return 2
	case models.QueueWalletOperations:
		return 3
	case models.QueueEnrichmentOperations:
		return 4
	default:
		return 5
	}
}

// buildFailureRecord reconstructs what it can from the job snapshot carried
// by the event. A snapshot that does not parse is kept verbatim under
// data.raw.
func buildFailureRecord(queueName string, event models.JobEvent, failedAt time.Time) models.FailedJobMetrics {
	record := models.FailedJobMetrics{
		QueueName: queueName,
		JobID:     event.JobID,
		JobName:   unknownJobName,
		FailedAt:  failedAt.UTC(),
		Error:     event.FailedReason,
	}

	var prev models.Job
	if event.Prev != "" && json.Unmarshal([]byte(event.Prev), &prev) == nil {
		if prev.Name != "" {
			record.JobName = prev.Name
		}
		if record.JobID == "" {
			record.JobID = prev.ID
		}
		if record.Error == "" {
			record.Error = prev.FailedReason
		}
		record.Attempts = prev.AttemptsMade
		record.MaxAttempts = prev.MaxAttempts
		record.Data = prev.Data
		record.ProcessingTime = prev.ProcessingTime().Milliseconds()
	} else {
		raw, _ := json.Marshal(map[string]string{"raw": event.Prev})
		record.Data = raw
	}

	if record.Error == "" {
		record.Error = "unknown error"
	}

	return record
}

// recordFailure appends a failure timestamp, prunes the window and returns
// the number of failures still inside it.
func (s *DeadLetterQueueService) recordFailure(queueName string, at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := pruneFailures(append(s.failures[queueName], at), at.Add(-s.window))
	if len(timestamps) > s.maxRecords {
		timestamps = timestamps[len(timestamps)-s.maxRecords:]
	}
	s.failures[queueName] = timestamps

	return len(timestamps)
}

func pruneFailures(timestamps []time.Time, cutoff time.Time) []time.Time {
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

func (s *DeadLetterQueueService) GetRecentFailureCount(queueName string) int {
	cutoff := s.clock.Now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, ts := range s.failures[queueName] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}

// CleanupFailureWindows prunes stale timestamps and forgets queues with no
// recent failures.
func (s *DeadLetterQueueService) CleanupFailureWindows() {
	cutoff := s.clock.Now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, timestamps := range s.failures {
		kept := pruneFailures(timestamps, cutoff)
		if len(kept) == 0 {
			delete(s.failures, name)
			continue
		}
		s.failures[name] = kept
	}
}

func (s *DeadLetterQueueService) trackedQueues() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures)
}

// Start launches the periodic cleanup. Calling it again is a no-op.
func (s *DeadLetterQueueService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stopping || s.cleanupCancel != nil {
		s.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cleanupCancel = cancel
	s.cleanupDone = make(chan struct{})
	s.mu.Unlock()

	go s.cleanupLoop(loopCtx, s.cleanupDone)
}

func (s *DeadLetterQueueService) cleanupLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanupFailureWindows()
			s.logger.Debug("pruned failure windows",
				slog.String("event_type", "dead_letter_window_cleanup"),
				slog.Int("tracked_queues", s.trackedQueues()),
			)
		}
	}
}

// Shutdown stops the cleanup loop, closes every listener after it has
// dispatched the events it already received, waits for the handlers those
// events started and closes the dead-letter queue. Handlers still running
// when ctx expires are cancelled. Only the first call does work.
func (s *DeadLetterQueueService) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	listeners := s.listeners
	s.listeners = make(map[string]QueueEventsInterface)
	cancel, done := s.cleanupCancel, s.cleanupDone
	s.mu.Unlock()

	var errs []error

	if cancel != nil {
		cancel()
		<-done
	}

	for name, events := range listeners {
		if events == nil {
			continue
		}
		if err := events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close listener for %s: %w", name, err))
		}
	}

	// Every listener has drained; whatever arrives now came from a listener
	// that outlived its queue and is dropped.
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for dead-letter handlers: %w", ctx.Err()))
	}
	if s.handlerCancel != nil {
		s.handlerCancel()
	}

	if s.dlq != nil {
		if err := s.dlq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close dead-letter queue: %w", err))
		}
	}

	s.logger.Info("dead-letter service stopped",
		slog.String("event_type", "dead_letter_shutdown"),
		slog.Int("listeners_closed", len(listeners)),
	)

	return errors.Join(errs...)
}

func (s *DeadLetterQueueService) GetStats(ctx context.Context) (*dto.DeadLetterStats, error) {
	counts, err := s.dlq.GetJobCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count dead-letter records: %w", err)
	}

	for _, state := range models.AllJobStates {
		s.alerting.SetGauge("queue.depth", float64(countFor(counts, state)), map[string]string{
			"queue": models.DeadLetterQueueName,
			"state": string(state),
		})
	}

	return &dto.DeadLetterStats{
		JobCounts:       counts,
		MonitoredQueues: s.MonitoredQueues(),
	}, nil
}

func countFor(counts models.JobCounts, state models.JobState) int64 {
	switch state {
	case models.JobStateWaiting:
		return counts.Waiting
	case models.JobStateActive:
		return counts.Active
	case models.JobStateCompleted:
		return counts.Completed
	case models.JobStateFailed:
		return counts.Failed
	case models.JobStateDelayed:
		return counts.Delayed
	default:
		return counts.Paused
	}
}

// GetRecentFailures returns up to limit dead-letter records, newest first.
func (s *DeadLetterQueueService) GetRecentFailures(ctx context.Context, limit int) ([]models.FailedJobMetrics, error) {
	if limit <= 0 {
		limit = defaultRecentFailures
	}

	jobs, err := s.dlq.GetJobs(ctx, deadLetterListStates, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead-letter records: %w", err)
	}

	records := make([]models.FailedJobMetrics, 0, len(jobs))
	for _, job := range jobs {
		var record models.FailedJobMetrics
		if err := json.Unmarshal(job.Data, &record); err != nil {
			s.logger.Warn("skipping unreadable dead-letter record",
				slog.String("event_type", "dead_letter_decode_failed"),
				slog.String("record_id", job.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// CleanupOldFailures removes completed dead-letter records that finished more
// than olderThan ago and returns how many were removed.
func (s *DeadLetterQueueService) CleanupOldFailures(ctx context.Context, olderThan time.Duration) (int, error) {
	ids, err := s.dlq.Clean(ctx, olderThan, 0, models.JobStateCompleted)
	if err != nil {
		return 0, fmt.Errorf("failed to clean dead-letter records: %w", err)
	}

	s.logger.Info("cleaned old dead-letter records",
		slog.String("event_type", "dead_letter_cleanup"),
		slog.Duration("older_than", olderThan),
		slog.Int("removed", len(ids)),
	)

	return len(ids), nil
}

var _ DeadLetterQueueServiceInterface = (*DeadLetterQueueService)(nil)
