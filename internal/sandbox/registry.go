package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nydiokar/analyzer-sub009/internal/queue"
)

var ErrProcessorNotFound = errors.New("no processor registered for job")

// ProcessorFactory builds the processor for one job from that job's
// application context.
type ProcessorFactory func(app *AppContext) (queue.Processor, error)

// Registry maps job names to processor factories. It is filled once at
// process start and is safe for concurrent lookups afterwards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProcessorFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProcessorFactory)}
}

func (r *Registry) Register(jobName string, factory ProcessorFactory) error {
	if jobName == "" {
		return errors.New("job name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("processor factory for %q cannot be nil", jobName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[jobName]; exists {
		return fmt.Errorf("processor for %q already registered", jobName)
	}
	r.factories[jobName] = factory
	return nil
}

func (r *Registry) Resolve(jobName string) (ProcessorFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[jobName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProcessorNotFound, jobName)
	}
	return factory, nil
}

// Names returns the registered job names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
