package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/database"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

// backend is one opened queue broker: a job store, an event bus and the
// handles needed to release them.
type backend struct {
	name   string
	repo   repositories.JobRepositoryInterface
	bus    queue.EventBus
	cfg    *config.Config
	logger *slog.Logger
	closer func() error
}

// openBackend connects to the broker selected by QUEUE_BACKEND. migrate is
// false inside sandbox children so only the parent touches the schema.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*backend, error) {
	b := &backend{name: cfg.Queue.Backend, cfg: cfg, logger: logger}

	switch cfg.Queue.Backend {
	case config.QueueBackendRedis:
		client := database.NewRedisClient(cfg.Redis, logger)
		b.repo = repositories.NewRedisJobRepository(client, cfg.Redis.KeyPrefix)
		b.bus = queue.NewRedisEventBus(client, cfg.Redis.KeyPrefix, logger)
		b.closer = client.Close

	case config.QueueBackendPostgres:
		var db *database.DB
		var err error
		if migrate {
			db, err = database.Initialize(ctx, cfg)
		} else {
			db, err = database.New(&cfg.Database)
		}
		if err != nil {
			return nil, err
		}
		b.repo = repositories.NewJobRepository(db.DB)
		b.bus = queue.NewLocalEventBus(logger)
		b.closer = db.Close

	case config.QueueBackendSQLite:
		open := database.NewSQLite
		if migrate {
			open = database.InitializeSQLite
		}
		db, err := open(cfg.Queue.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.repo = repositories.NewJobRepository(db.DB)
		b.bus = queue.NewLocalEventBus(logger)
		b.closer = db.Close

	default:
		return nil, fmt.Errorf("unsupported queue backend %q", cfg.Queue.Backend)
	}

	logger.Info("queue backend opened",
		slog.String("event_type", "queue_backend_opened"),
		slog.String("backend", b.name),
	)
	return b, nil
}

func (b *backend) Ping(ctx context.Context) error {
	return b.repo.Ping(ctx)
}

func (b *backend) newQueue(name string) *queue.Queue {
	return queue.New(name, b.repo, b.bus,
		queue.WithDefaults(queue.Defaults{
			Attempts: b.cfg.Queue.DefaultAttempts,
			Backoff:  b.cfg.Queue.DefaultBackoff,
		}),
		queue.WithLogger(b.logger),
	)
}

// openQueues returns a handle for every known queue plus the dead-letter queue.
func (b *backend) openQueues() map[string]*queue.Queue {
	names := append([]string{models.DeadLetterQueueName}, models.KnownQueues...)
	queues := make(map[string]*queue.Queue, len(names))
	for _, name := range names {
		queues[name] = b.newQueue(name)
	}
	return queues
}

func (b *backend) eventsFactory() services.QueueEventsFactory {
	return func(ctx context.Context, queueName string) (services.QueueEventsInterface, error) {
		events, err := queue.NewEvents(ctx, b.bus, queueName, b.logger)
		if err != nil {
			return nil, err
		}
		return events, nil
	}
}

func (b *backend) Close() error {
	return errors.Join(b.bus.Close(), b.closer())
}

func serviceQueues(queues map[string]*queue.Queue) map[string]services.JobQueueInterface {
	out := make(map[string]services.JobQueueInterface, len(queues))
	for name, q := range queues {
		out[name] = q
	}
	return out
}
