// Package processors turns analyzer job payloads into calls against the
// analyzer backend. Each processor is built per job from the sandbox
// application context.
package processors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/jobid"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/sandbox"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

var (
	ErrInvalidPayload         = errors.New("invalid job payload")
	ErrDependencyNotReady     = errors.New("dependency job not completed")
	ErrDependencyFailed       = errors.New("dependency job failed")
	ErrNotEnoughSyncedWallets = errors.New("not enough wallets synced for similarity")
	ErrAnalyzerNotConfigured  = errors.New("analyzer client is not configured")
)

type Options struct {
	// SimilaritySyncTimeout bounds how long a similarity job waits for its
	// wallet syncs.
	SimilaritySyncTimeout time.Duration
	// SimilaritySyncThreshold is the share of wallet syncs that must
	// succeed when the payload does not set one.
	SimilaritySyncThreshold float64
	EnrichConcurrency       int
	EnrichRetries           int
	EnrichRetryDelay        time.Duration
	EnrichThreshold         float64
}

func DefaultOptions() Options {
	return Options{
		SimilaritySyncTimeout:   10 * time.Minute,
		SimilaritySyncThreshold: services.DefaultBatchFailureThreshold,
		EnrichConcurrency:       5,
		EnrichRetries:           2,
		EnrichRetryDelay:        time.Second,
		EnrichThreshold:         0.5,
	}
}

// Register installs a processor for every analyzer job name.
func Register(registry *sandbox.Registry, opts Options) error {
	factories := map[string]sandbox.ProcessorFactory{
		models.JobNameSyncWallet: withAnalyzer(func(app *sandbox.AppContext) queue.Processor {
			return &walletSyncProcessor{app: app}
		}),
		models.JobNameCalculatePnl: withAnalyzer(func(app *sandbox.AppContext) queue.Processor {
			return &analysisProcessor{app: app, analyze: app.Analyzer.CalculatePnl}
		}),
		models.JobNameAnalyzeBehavior: withAnalyzer(func(app *sandbox.AppContext) queue.Processor {
			return &analysisProcessor{app: app, analyze: app.Analyzer.AnalyzeBehavior}
		}),
		models.JobNameCalculateSimilarity: withAnalyzer(func(app *sandbox.AppContext) queue.Processor {
			return &similarityProcessor{app: app, opts: opts}
		}),
		models.JobNameEnrichTokens: withAnalyzer(func(app *sandbox.AppContext) queue.Processor {
			return &enrichmentProcessor{app: app, opts: opts}
		}),
		models.JobNameFetchDexData: withAnalyzer(func(app *sandbox.AppContext) queue.Processor {
			return &dexFetchProcessor{app: app}
		}),
	}

	for name, factory := range factories {
		if err := registry.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}

func withAnalyzer(build func(app *sandbox.AppContext) queue.Processor) sandbox.ProcessorFactory {
	return func(app *sandbox.AppContext) (queue.Processor, error) {
		if app.Analyzer == nil {
			return nil, ErrAnalyzerNotConfigured
		}
		return build(app), nil
	}
}

func decodePayload[T any](job *models.Job) (T, error) {
	var payload T
	if len(job.Data) == 0 {
		return payload, fmt.Errorf("%w: %s has no data", ErrInvalidPayload, job.Name)
	}
	if err := json.Unmarshal(job.Data, &payload); err != nil {
		return payload, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, job.Name, err)
	}
	return payload, nil
}

func encodeResult(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return b, nil
}

// queueForJobID maps a job ID back to the queue its job type runs on.
func queueForJobID(id string) string {
	switch jobid.ExtractType(id) {
	case jobid.PrefixSync:
		return models.QueueWalletOperations
	case jobid.PrefixPnl, jobid.PrefixBehavior:
		return models.QueueAnalysisOperations
	case jobid.PrefixSimilarity:
		return models.QueueSimilarityOperations
	case jobid.PrefixEnrich, jobid.PrefixDex:
		return models.QueueEnrichmentOperations
	default:
		return ""
	}
}

// checkDependency returns nil once the job named by dependsOn has completed.
// An unfinished dependency yields an error so the runtime retries the job
// after its backoff.
func checkDependency(ctx context.Context, app *sandbox.AppContext, dependsOn string) error {
	if dependsOn == "" {
		return nil
	}

	getter, err := app.JobGetter(queueForJobID(dependsOn))
	if err != nil {
		return fmt.Errorf("cannot resolve dependency %s: %w", dependsOn, err)
	}

	job, err := getter(ctx, dependsOn)
	if err != nil {
		return fmt.Errorf("cannot read dependency %s: %w", dependsOn, err)
	}

	switch job.State {
	case models.JobStateCompleted:
		return nil
	case models.JobStateFailed:
		return fmt.Errorf("%w: %s: %s", ErrDependencyFailed, dependsOn, job.FailedReason)
	default:
		return fmt.Errorf("%w: %s is %s", ErrDependencyNotReady, dependsOn, job.State)
	}
}
