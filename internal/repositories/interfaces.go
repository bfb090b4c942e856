package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrDuplicateJob     = errors.New("job already exists")
	ErrJobStateConflict = errors.New("job is not in the expected state")
)

// JobRepositoryInterface defines the storage contract of the queue runtime.
// Implementations must make ClaimNext safe for concurrent workers: a waiting
// job is handed to at most one caller.
type JobRepositoryInterface interface {
	// Add stores a new job. When a job with the same ID already exists in the
	// queue, the stored job is returned together with ErrDuplicateJob.
	Add(ctx context.Context, job *models.Job) (*models.Job, error)
	Get(ctx context.Context, queue, id string) (*models.Job, error)
	// ClaimNext moves the next waiting job to active. It returns nil, nil
	// when nothing is waiting.
	ClaimNext(ctx context.Context, queue string, now time.Time) (*models.Job, error)
	Complete(ctx context.Context, job *models.Job, returnValue json.RawMessage, now time.Time) error
	Fail(ctx context.Context, job *models.Job, reason string, now time.Time) error
	Retry(ctx context.Context, job *models.Job, reason string, availableAt time.Time) error
	// PromoteDelayed moves delayed jobs whose time has come back to waiting.
	PromoteDelayed(ctx context.Context, queue string, now time.Time) (int64, error)
	Counts(ctx context.Context, queue string) (models.JobCounts, error)
	// List returns jobs in the given states, newest first.
	List(ctx context.Context, queue string, states []models.JobState, offset, limit int) ([]*models.Job, error)
	// Clean removes up to limit jobs in state whose timestamp is older than
	// before and returns their IDs.
	Clean(ctx context.Context, queue string, state models.JobState, before time.Time, limit int) ([]string, error)
	// Trim keeps the newest keep jobs in a finished state and removes the rest.
	Trim(ctx context.Context, queue string, state models.JobState, keep int) (int64, error)
	Remove(ctx context.Context, queue, id string) error
	Ping(ctx context.Context) error
}
