package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/handlers"
	"github.com/nydiokar/analyzer-sub009/internal/middleware"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/processors"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/sandbox"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

type application struct {
	cfg      *config.Config
	logger   *slog.Logger
	backend  *backend
	queues   map[string]*queue.Queue
	workers  []*queue.Worker
	dlq      *services.DeadLetterQueueService
	limiter  *middleware.IPRateLimiter
	echo     *echo.Echo
	stopBack context.CancelFunc
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	b, err := openBackend(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}

	bgCtx, stopBack := context.WithCancel(context.WithoutCancel(ctx))
	app := &application{
		cfg:      cfg,
		logger:   logger,
		backend:  b,
		queues:   b.openQueues(),
		stopBack: stopBack,
	}

	metrics := services.NewPrometheusMetrics()

	var sinks []services.AlertSink
	if cfg.Alerting.WebhookURL != "" {
		sinks = append(sinks, services.NewWebhookSink(cfg.Alerting.WebhookURL, cfg.Alerting.WebhookTimeout))
	}
	alerting := services.NewAlertingService(cfg.Alerting, metrics, logger, sinks...)

	app.dlq = services.NewDeadLetterQueueService(
		app.queues[models.DeadLetterQueueName],
		b.eventsFactory(),
		alerting,
		cfg.DeadLetter,
		services.WithDeadLetterLogger(logger),
	)
	if err := app.dlq.MonitorKnownQueues(ctx); err != nil {
		logger.Error("dead-letter monitoring incomplete",
			slog.String("event_type", "dead_letter_monitor_failed"),
			slog.String("error", err.Error()),
		)
	}
	app.dlq.Start(bgCtx)

	if err := app.startWorkers(bgCtx, metrics); err != nil {
		app.shutdown(context.Background())
		return nil, err
	}

	app.limiter = middleware.NewIPRateLimiter(float64(cfg.Security.RateLimitPerSecond), cfg.Security.RateLimitBurst)
	go app.limiter.Run(bgCtx)

	producer := services.NewJobProducerService(serviceQueues(app.queues), metrics, logger)
	app.echo = app.routes(producer, services.NewTokenService(&cfg.JWT))

	return app, nil
}

func (a *application) startWorkers(ctx context.Context, metrics services.MetricsRecorderInterface) error {
	processor, err := a.jobProcessor(metrics)
	if err != nil {
		return err
	}

	opts := queue.WorkerOptions{
		Concurrency:  a.cfg.Queue.WorkerConcurrency,
		PollInterval: a.cfg.Queue.PollInterval,
		JobTimeout:   a.cfg.Sandbox.JobTimeout,
		Metrics:      metrics,
		Logger:       a.logger,
	}

	for _, name := range models.KnownQueues {
		w := queue.NewWorker(a.queues[name], processor, opts)
		w.Start(ctx)
		a.workers = append(a.workers, w)
	}

	archiverOpts := opts
	archiverOpts.Concurrency = 1
	archiver := queue.NewWorker(a.queues[models.DeadLetterQueueName], services.NewDeadLetterArchiver(a.logger), archiverOpts)
	archiver.Start(ctx)
	a.workers = append(a.workers, archiver)

	a.logger.Info("workers started",
		slog.String("event_type", "workers_started"),
		slog.Int("queues", len(a.workers)),
		slog.Bool("sandboxed", a.cfg.Queue.Sandboxed),
	)
	return nil
}

// jobProcessor returns the processor every domain worker runs: a fresh child
// process per job when sandboxed, otherwise the same lifecycle in-process.
func (a *application) jobProcessor(metrics services.MetricsRecorderInterface) (queue.Processor, error) {
	if a.cfg.Queue.Sandboxed {
		runner, err := sandbox.NewProcessRunner(a.cfg.Sandbox.Binary, a.logger)
		if err != nil {
			return nil, err
		}
		return runner, nil
	}

	registry := sandbox.NewRegistry()
	if err := processors.Register(registry, processors.DefaultOptions()); err != nil {
		return nil, fmt.Errorf("failed to register processors: %w", err)
	}

	queues := serviceQueues(a.queues)
	opener := func(context.Context, *slog.Logger) (map[string]services.JobQueueInterface, func() error, error) {
		return queues, nil, nil
	}

	bootstrapper := sandbox.NewAppBootstrapper(a.cfg, opener, metrics, a.logger)
	return sandbox.InProcess(bootstrapper, registry, sandbox.RunOptions{
		FlushDelay: a.cfg.Sandbox.FlushDelay,
		Logger:     a.logger,
	}), nil
}

func (a *application) routes(producer services.JobProducerServiceInterface, tokens services.TokenServiceInterface) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(a.logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery(a.logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: a.cfg.Server.CORSAllowOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Trace-ID"},
	}))
	e.Use(a.limiter.Middleware())

	health := handlers.NewHealthCheckHandler(a.backend, a.backend.name)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	deadLetter := handlers.NewDeadLetterHandler(a.dlq, a.logger)
	jobs := handlers.NewJobHandler(producer, a.logger)
	queues := handlers.NewQueueHandler(producer, a.logger)

	api := e.Group("/api/v1", middleware.RequireOperator(tokens))

	api.GET("/dead-letter/stats", deadLetter.GetStats)
	api.GET("/dead-letter/failures", deadLetter.ListFailures)
	api.DELETE("/dead-letter/failures", deadLetter.CleanupFailures, middleware.RequireAdmin())
	api.GET("/dead-letter/failure-rates/:queue", deadLetter.GetFailureRate)

	api.POST("/jobs/wallet-sync", jobs.EnqueueWalletSync)
	api.POST("/jobs/similarity", jobs.EnqueueSimilarity)
	api.POST("/jobs/pnl", jobs.EnqueuePnl)
	api.POST("/jobs/behavior", jobs.EnqueueBehavior)
	api.POST("/jobs/enrichment", jobs.EnqueueEnrichment)
	api.POST("/jobs/dex", jobs.EnqueueDexFetch)

	api.GET("/queues/:queue/counts", queues.GetCounts)
	api.GET("/queues/:queue/jobs/:id", queues.GetJob)

	return e
}

func (a *application) listen() error {
	server := &http.Server{
		Addr:         net.JoinHostPort(a.cfg.Server.Host, a.cfg.Server.Port),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	a.logger.Info("api server listening",
		slog.String("event_type", "api_server_started"),
		slog.String("addr", server.Addr),
	)

	if err := a.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// shutdown stops the API, then the workers, then the dead-letter monitor, and
// finally closes the broker.
func (a *application) shutdown(ctx context.Context) error {
	var errs []error

	if a.echo != nil {
		if err := a.echo.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("api shutdown: %w", err))
		}
	}

	for _, w := range a.workers {
		if err := w.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("worker shutdown: %w", err))
		}
	}

	if err := a.dlq.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("dead-letter shutdown: %w", err))
	}

	a.stopBack()

	for _, q := range a.queues {
		q.Close()
	}
	if err := a.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("backend close: %w", err))
	}

	return errors.Join(errs...)
}
