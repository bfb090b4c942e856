package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound = repositories.ErrJobNotFound
	ErrQueueClosed = errors.New("queue is closed")
	ErrInvalidJob  = errors.New("invalid job")
)

// Defaults apply to jobs added without explicit attempts or backoff.
type Defaults struct {
	Attempts int
	Backoff  time.Duration
}

// Queue is a named handle for adding and inspecting jobs.
type Queue struct {
	name     string
	repo     repositories.JobRepositoryInterface
	bus      EventBus
	defaults Defaults
	now      func() time.Time
	closed   atomic.Bool
	logger   *slog.Logger
}

type Option func(*Queue)

func WithDefaults(defaults Defaults) Option {
	return func(q *Queue) {
		if defaults.Attempts > 0 {
			q.defaults.Attempts = defaults.Attempts
		}
		if defaults.Backoff > 0 {
			q.defaults.Backoff = defaults.Backoff
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

func New(name string, repo repositories.JobRepositoryInterface, bus EventBus, opts ...Option) *Queue {
	q := &Queue{
		name: name,
		repo: repo,
		bus:  bus,
		defaults: Defaults{
			Attempts: models.DefaultJobAttempts,
			Backoff:  models.DefaultJobBackoff,
		},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.logger = q.logger.With(slog.String("queue", name))
	return q
}

func (q *Queue) Name() string {
	return q.name
}

// Add enqueues a job. data is stored as JSON; json.RawMessage and []byte are
// stored verbatim. Adding a job whose ID already exists returns the stored
// job unchanged.
func (q *Queue) Add(ctx context.Context, name string, data interface{}, opts models.JobOptions) (*models.Job, error) {
	if q.closed.Load() {
		return nil, ErrQueueClosed
	}
	if name == "" {
		return nil, fmt.Errorf("%w: job name is required", ErrInvalidJob)
	}

	payload, err := encodeData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	now := q.now().UTC()
	job := &models.Job{
		ID:           opts.JobID,
		Queue:        q.name,
		Name:         name,
		Data:         payload,
		State:        models.JobStateWaiting,
		Priority:     opts.Priority,
		MaxAttempts:  opts.Attempts,
		DelayMs:      opts.Delay.Milliseconds(),
		BackoffMs:    opts.Backoff.Milliseconds(),
		KeepComplete: opts.RemoveOnComplete,
		KeepFail:     opts.RemoveOnFail,
		AvailableAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = q.defaults.Attempts
	}
	if opts.Backoff <= 0 {
		job.BackoffMs = q.defaults.Backoff.Milliseconds()
	}
	if opts.Delay > 0 {
		job.State = models.JobStateDelayed
		job.AvailableAt = now.Add(opts.Delay)
	}

	stored, err := q.repo.Add(ctx, job)
	if errors.Is(err, repositories.ErrDuplicateJob) {
		q.logger.Debug("job already enqueued",
			slog.String("event_type", "job_deduplicated"),
			slog.String("job_id", job.ID),
			slog.String("state", string(stored.State)),
		)
		return stored, nil
	}
	if err != nil {
		return nil, err
	}

	q.logger.Debug("job enqueued",
		slog.String("event_type", "job_enqueued"),
		slog.String("job_id", stored.ID),
		slog.String("job_name", name),
		slog.Int("priority", stored.Priority),
	)

	return stored, nil
}

func encodeData(data interface{}) (json.RawMessage, error) {
	switch v := data.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		if !json.Valid(v) {
			return nil, errors.New("data is not valid JSON")
		}
		return v, nil
	case []byte:
		if !json.Valid(v) {
			return nil, errors.New("data is not valid JSON")
		}
		return json.RawMessage(v), nil
	default:
		return json.Marshal(v)
	}
}

// GetJob returns ErrJobNotFound when the job does not exist or was removed.
func (q *Queue) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return q.repo.Get(ctx, q.name, id)
}

func (q *Queue) GetJobCounts(ctx context.Context) (models.JobCounts, error) {
	return q.repo.Counts(ctx, q.name)
}

// GetJobs lists jobs in the given states, newest first. A limit of zero
// returns everything after offset.
func (q *Queue) GetJobs(ctx context.Context, states []models.JobState, offset, limit int) ([]*models.Job, error) {
	return q.repo.List(ctx, q.name, states, offset, limit)
}

// Clean removes up to limit jobs in state older than grace and returns their IDs.
func (q *Queue) Clean(ctx context.Context, grace time.Duration, limit int, state models.JobState) ([]string, error) {
	before := q.now().Add(-grace)
	ids, err := q.repo.Clean(ctx, q.name, state, before, limit)
	if err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		q.logger.Info("cleaned jobs",
			slog.String("event_type", "queue_cleaned"),
			slog.String("state", string(state)),
			slog.Int("removed", len(ids)),
		)
	}

	return ids, nil
}

func (q *Queue) Remove(ctx context.Context, id string) error {
	return q.repo.Remove(ctx, q.name, id)
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.repo.Ping(ctx)
}

// Close rejects further Add calls. It is safe to call more than once.
func (q *Queue) Close() error {
	q.closed.Store(true)
	return nil
}

// publish logs and returns publishing errors; callers may ignore them.
func (q *Queue) publish(ctx context.Context, event models.JobEvent) error {
	if q.bus == nil {
		return nil
	}
	err := q.bus.Publish(ctx, event)
	if err != nil {
		q.logger.Warn("failed to publish job event",
			slog.String("event_type", "job_event_publish_failed"),
			slog.String("job_id", event.JobID),
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()),
		)
	}
	return err
}
