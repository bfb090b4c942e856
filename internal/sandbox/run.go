package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
)

const DefaultFlushDelay = 100 * time.Millisecond

type RunOptions struct {
	// FlushDelay is waited after a failure so in-flight events and log
	// writes can drain before the error is handed back.
	FlushDelay time.Duration
	Logger     *slog.Logger
}

// Run executes one job inside its own application context. The context is
// always torn down, processor panics become errors, and failures are
// returned unchanged so the queue runtime applies its retry and dead-letter
// policy. Run never retries.
func Run(ctx context.Context, job *models.Job, bootstrap Bootstrapper, registry *Registry, opts RunOptions) (json.RawMessage, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
	)

	app, err := bootstrap.Bootstrap(ctx, job)
	if err != nil {
		return nil, failed(ctx, logger, job, fmt.Errorf("bootstrap failed: %w", err), opts.FlushDelay)
	}
	if app == nil {
		app = &AppContext{Job: job}
	}
	if app.Logger == nil {
		app.Logger = logger
	}
	defer func() {
		if closeErr := app.Close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.Warn("sandbox teardown failed",
				slog.String("event_type", "sandbox_teardown_failed"),
				slog.String("error", closeErr.Error()),
			)
		}
	}()

	factory, err := registry.Resolve(job.Name)
	if err != nil {
		return nil, failed(ctx, logger, job, err, opts.FlushDelay)
	}

	processor, err := factory(app)
	if err != nil {
		return nil, failed(ctx, logger, job, fmt.Errorf("failed to build processor for %s: %w", job.Name, err), opts.FlushDelay)
	}

	result, err := process(ctx, processor, job, app.Logger)
	if err != nil {
		return nil, failed(ctx, logger, job, err, opts.FlushDelay)
	}
	return result, nil
}

// failed logs err and waits for the flush delay before handing it back.
func failed(ctx context.Context, logger *slog.Logger, job *models.Job, err error, flushDelay time.Duration) error {
	logger.Error("sandboxed job failed",
		slog.String("event_type", "sandbox_job_failed"),
		slog.Int("attempts_made", job.AttemptsMade),
		slog.String("error", err.Error()),
	)

	if flushDelay > 0 {
		timer := time.NewTimer(flushDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return err
}

func process(ctx context.Context, processor queue.Processor, job *models.Job, logger *slog.Logger) (result json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("processor panicked",
				slog.String("event_type", "processor_panic"),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			result = nil
			err = fmt.Errorf("panic in job %s: %v", job.Name, r)
		}
	}()

	return processor.Process(ctx, job)
}

// InProcess adapts Run to a queue.Processor for workers that execute jobs in
// the current process.
func InProcess(bootstrap Bootstrapper, registry *Registry, opts RunOptions) queue.Processor {
	return queue.ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		return Run(ctx, job, bootstrap, registry, opts)
	})
}
