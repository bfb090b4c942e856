package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

type EventHandler func(ctx context.Context, event models.JobEvent)

// Events listens to the lifecycle events of one queue and dispatches them to
// registered handlers in arrival order. Handlers run on the dispatch
// goroutine and should hand long work off.
type Events struct {
	queue    string
	sub      Subscription
	mu       sync.RWMutex
	handlers map[models.JobEventType][]EventHandler
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	logger   *slog.Logger
}

func NewEvents(ctx context.Context, bus EventBus, queue string, logger *slog.Logger) (*Events, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sub, err := bus.Subscribe(ctx, queue)
	if err != nil {
		return nil, fmt.Errorf("failed to listen to queue %s: %w", queue, err)
	}

	dispatchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e := &Events{
		queue:    queue,
		sub:      sub,
		handlers: make(map[models.JobEventType][]EventHandler),
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   logger.With(slog.String("queue", queue)),
	}
	go e.dispatch(dispatchCtx)

	return e, nil
}

func (e *Events) On(eventType models.JobEventType, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[eventType] = append(e.handlers[eventType], handler)
}

func (e *Events) Queue() string {
	return e.queue
}

func (e *Events) dispatch(ctx context.Context) {
	defer close(e.done)

	for event := range e.sub.Events() {
		e.mu.RLock()
		handlers := e.handlers[event.Type]
		e.mu.RUnlock()

		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}

// Close unsubscribes and waits for the dispatch goroutine to drain.
func (e *Events) Close() error {
	var err error
	e.once.Do(func() {
		err = e.sub.Close()
		<-e.done
		e.cancel()
	})
	return err
}
