package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

// AppContext holds the dependencies of a single job execution. Everything it
// opens is released by Close.
type AppContext struct {
	Job      *models.Job
	Logger   *slog.Logger
	Analyzer services.AnalyzerClientInterface
	Queues   map[string]services.JobQueueInterface
	Producer services.JobProducerServiceInterface
	Batch    *services.BatchProcessor

	mu      sync.Mutex
	closers []func(ctx context.Context) error
	closed  bool
}

// OnClose registers a teardown step. Steps run in reverse registration order.
func (a *AppContext) OnClose(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

// Close runs every teardown step once, even when earlier steps fail.
func (a *AppContext) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// JobGetter reads jobs from the named queue, for use with
// WaitForJobsWithTolerance.
func (a *AppContext) JobGetter(queueName string) (services.JobGetter, error) {
	q, ok := a.Queues[queueName]
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: %s", services.ErrUnknownQueue, queueName)
	}
	return q.GetJob, nil
}

// Bootstrapper builds the application context for one job.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, job *models.Job) (*AppContext, error)
}

type BootstrapFunc func(ctx context.Context, job *models.Job) (*AppContext, error)

func (f BootstrapFunc) Bootstrap(ctx context.Context, job *models.Job) (*AppContext, error) {
	return f(ctx, job)
}

// QueueOpener opens the queue handles a job may enqueue onto or poll. The
// returned close function is called during teardown.
type QueueOpener func(ctx context.Context, logger *slog.Logger) (map[string]services.JobQueueInterface, func() error, error)

type AppBootstrapper struct {
	cfg        *config.Config
	openQueues QueueOpener
	metrics    services.MetricsRecorderInterface
	logger     *slog.Logger
}

func NewAppBootstrapper(cfg *config.Config, openQueues QueueOpener, metrics services.MetricsRecorderInterface, logger *slog.Logger) *AppBootstrapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppBootstrapper{
		cfg:        cfg,
		openQueues: openQueues,
		metrics:    metrics,
		logger:     logger,
	}
}

func (b *AppBootstrapper) Bootstrap(ctx context.Context, job *models.Job) (*AppContext, error) {
	logger := b.logger.With(
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
		slog.String("queue", job.Queue),
	)

	app := &AppContext{
		Job:      job,
		Logger:   logger,
		Analyzer: services.NewAnalyzerClient(b.cfg.Analyzer, logger),
		Queues:   map[string]services.JobQueueInterface{},
		Batch:    services.NewBatchProcessor(logger, b.metrics, b.cfg.Queue.WaitPollInterval),
	}

	if b.openQueues != nil {
		queues, closeQueues, err := b.openQueues(ctx, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open queues: %w", err)
		}
		app.Queues = queues
		if closeQueues != nil {
			app.OnClose(func(context.Context) error { return closeQueues() })
		}
	}

	app.Producer = services.NewJobProducerService(app.Queues, b.metrics, logger)

	return app, nil
}
