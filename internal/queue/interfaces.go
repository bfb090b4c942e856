package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

// Processor executes one job and returns its JSON result.
type Processor interface {
	Process(ctx context.Context, job *models.Job) (json.RawMessage, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(ctx context.Context, job *models.Job) (json.RawMessage, error)

func (f ProcessorFunc) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	return f(ctx, job)
}

// EventBus carries job lifecycle events between workers and observers.
type EventBus interface {
	Publish(ctx context.Context, event models.JobEvent) error
	Subscribe(ctx context.Context, queue string) (Subscription, error)
	Close() error
}

// Subscription delivers the events of one queue until closed.
type Subscription interface {
	Events() <-chan models.JobEvent
	Close() error
}

type MetricsRecorder interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string)  {}
func (noopMetrics) RecordProcessingTime(string, time.Duration) {}
