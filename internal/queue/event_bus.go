package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	subscriptionBuffer    = 1024
	defaultPublishTimeout = 5 * time.Second
)

var (
	ErrEventBusClosed = errors.New("event bus is closed")
	ErrEventDropped   = errors.New("job event dropped")
)

// LocalEventBus fans events out to subscribers inside the current process.
// It backs the SQL queue backends, where workers and observers share a process.
// A subscriber with a full buffer makes Publish wait, up to the publish
// timeout or the publisher's context, before the event is dropped.
type LocalEventBus struct {
	mu             sync.RWMutex
	subs           map[string]map[*localSubscription]struct{}
	closed         bool
	publishTimeout time.Duration
	dropped        atomic.Uint64
	logger         *slog.Logger
}

type LocalEventBusOption func(*LocalEventBus)

// WithPublishTimeout bounds how long Publish waits on one stalled subscriber.
func WithPublishTimeout(timeout time.Duration) LocalEventBusOption {
	return func(b *LocalEventBus) {
		if timeout > 0 {
			b.publishTimeout = timeout
		}
	}
}

func NewLocalEventBus(logger *slog.Logger, opts ...LocalEventBusOption) *LocalEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &LocalEventBus{
		subs:           make(map[string]map[*localSubscription]struct{}),
		publishTimeout: defaultPublishTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *LocalEventBus) Publish(ctx context.Context, event models.JobEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrEventBusClosed
	}

	var dropped int
	for sub := range b.subs[event.Queue] {
		if err := b.deliver(ctx, sub, event); err != nil {
			dropped++
			b.dropped.Add(1)
			b.logger.Error("dropping job event, subscriber is not keeping up",
				slog.String("event_type", "job_event_dropped"),
				slog.String("queue", event.Queue),
				slog.String("job_id", event.JobID),
				slog.String("event", string(event.Type)),
				slog.String("error", err.Error()),
			)
		}
	}

	if dropped > 0 {
		return fmt.Errorf("%w: %d subscriber(s) of %s", ErrEventDropped, dropped, event.Queue)
	}
	return nil
}

func (b *LocalEventBus) deliver(ctx context.Context, sub *localSubscription, event models.JobEvent) error {
	select {
	case sub.ch <- event:
		return nil
	default:
	}

	timer := time.NewTimer(b.publishTimeout)
	defer timer.Stop()

	select {
	case sub.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("subscriber buffer full for %s", b.publishTimeout)
	}
}

// Dropped reports how many deliveries have been abandoned since the bus
// was created.
func (b *LocalEventBus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *LocalEventBus) Subscribe(ctx context.Context, queue string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrEventBusClosed
	}

	sub := &localSubscription{
		bus:   b,
		queue: queue,
		ch:    make(chan models.JobEvent, subscriptionBuffer),
	}
	if b.subs[queue] == nil {
		b.subs[queue] = make(map[*localSubscription]struct{})
	}
	b.subs[queue][sub] = struct{}{}

	return sub, nil
}

func (b *LocalEventBus) unsubscribe(sub *localSubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.queue][sub]; !ok {
		return
	}
	delete(b.subs[sub.queue], sub)
	if len(b.subs[sub.queue]) == 0 {
		delete(b.subs, sub.queue)
	}
	close(sub.ch)
}

func (b *LocalEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for queue, subs := range b.subs {
		for sub := range subs {
			close(sub.ch)
		}
		delete(b.subs, queue)
	}

	return nil
}

type localSubscription struct {
	bus   *LocalEventBus
	queue string
	ch    chan models.JobEvent
	once  sync.Once
}

func (s *localSubscription) Events() <-chan models.JobEvent {
	return s.ch
}

func (s *localSubscription) Close() error {
	s.once.Do(func() {
		s.bus.unsubscribe(s)
	})
	return nil
}

// RedisEventBus publishes events on one pub/sub channel per queue, so
// observers in other processes see every worker's events.
type RedisEventBus struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisEventBus(client *redis.Client, prefix string, logger *slog.Logger) *RedisEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisEventBus{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (b *RedisEventBus) channel(queue string) string {
	return b.prefix + queue + ":events"
}

func (b *RedisEventBus) Publish(ctx context.Context, event models.JobEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode job event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel(event.Queue), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	return nil
}

func (b *RedisEventBus) Subscribe(ctx context.Context, queue string) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, b.channel(queue))

	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s events: %w", queue, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan models.JobEvent, subscriptionBuffer),
		done:   make(chan struct{}),
	}
	go sub.forward(b.logger)

	return sub, nil
}

// Close is a no-op; the shared client is owned by the caller.
func (b *RedisEventBus) Close() error {
	return nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan models.JobEvent
	done   chan struct{}
	once   sync.Once
}

func (s *redisSubscription) forward(logger *slog.Logger) {
	defer close(s.ch)

	messages := s.pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event models.JobEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("discarding undecodable job event",
					slog.String("event_type", "job_event_invalid"),
					slog.String("channel", msg.Channel),
					slog.String("error", err.Error()),
				)
				continue
			}

			select {
			case s.ch <- event:
			case <-s.done:
				return
			}
		}
	}
}

func (s *redisSubscription) Events() <-chan models.JobEvent {
	return s.ch
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
