package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxClaimAttempts = 5

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository returns a SQL-backed job store. It works against both
// postgres and sqlite.
func NewJobRepository(db *gorm.DB) JobRepositoryInterface {
	return &jobRepository{
		db: db,
	}
}

func (r *jobRepository) Add(ctx context.Context, job *models.Job) (*models.Job, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(job)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to add job: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := r.Get(ctx, job.Queue, job.ID)
		if err != nil {
			return nil, err
		}
		return existing, ErrDuplicateJob
	}

	return job, nil
}

func (r *jobRepository) Get(ctx context.Context, queue, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Where("queue = ? AND id = ?", queue, id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	return &job, nil
}

func (r *jobRepository) ClaimNext(ctx context.Context, queue string, now time.Time) (*models.Job, error) {
	now = now.UTC()
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		var candidate models.Job
		err := r.db.WithContext(ctx).
			Where("queue = ? AND state = ? AND available_at <= ?", queue, models.JobStateWaiting, now).
			Order("priority ASC, created_at ASC").
			First(&candidate).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch waiting job: %w", err)
		}

		// Conditional update so two workers racing on the same row cannot
		// both win it.
		result := r.db.WithContext(ctx).Model(&models.Job{}).
			Where("queue = ? AND id = ? AND state = ?", queue, candidate.ID, models.JobStateWaiting).
			Updates(map[string]interface{}{
				"state":        models.JobStateActive,
				"processed_at": now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to claim job: %w", result.Error)
		}
		if result.RowsAffected == 1 {
			candidate.State = models.JobStateActive
			candidate.ProcessedAt = &now
			candidate.UpdatedAt = now
			return &candidate, nil
		}
	}

	return nil, nil
}

func (r *jobRepository) Complete(ctx context.Context, job *models.Job, returnValue json.RawMessage, now time.Time) error {
	now = now.UTC()
	job.State = models.JobStateCompleted
	job.ReturnValue = returnValue
	job.FinishedAt = &now

	return r.transition(ctx, job, models.JobStateActive, map[string]interface{}{
		"state":         job.State,
		"return_value":  returnValue,
		"finished_at":   now,
		"attempts_made": job.AttemptsMade,
		"updated_at":    now,
	})
}

func (r *jobRepository) Fail(ctx context.Context, job *models.Job, reason string, now time.Time) error {
	now = now.UTC()
	job.State = models.JobStateFailed
	job.FailedReason = reason
	job.FinishedAt = &now

	return r.transition(ctx, job, models.JobStateActive, map[string]interface{}{
		"state":         job.State,
		"failed_reason": reason,
		"finished_at":   now,
		"attempts_made": job.AttemptsMade,
		"updated_at":    now,
	})
}

func (r *jobRepository) Retry(ctx context.Context, job *models.Job, reason string, availableAt time.Time) error {
	availableAt = availableAt.UTC()
	job.State = models.JobStateDelayed
	job.FailedReason = reason
	job.AvailableAt = availableAt

	return r.transition(ctx, job, models.JobStateActive, map[string]interface{}{
		"state":         job.State,
		"failed_reason": reason,
		"available_at":  availableAt,
		"attempts_made": job.AttemptsMade,
		"updated_at":    time.Now().UTC(),
	})
}

func (r *jobRepository) transition(ctx context.Context, job *models.Job, from models.JobState, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("queue = ? AND id = ? AND state = ?", job.Queue, job.ID, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrJobStateConflict
	}

	return nil
}

func (r *jobRepository) PromoteDelayed(ctx context.Context, queue string, now time.Time) (int64, error) {
	now = now.UTC()
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("queue = ? AND state = ? AND available_at <= ?", queue, models.JobStateDelayed, now).
		Updates(map[string]interface{}{
			"state":      models.JobStateWaiting,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to promote delayed jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *jobRepository) Counts(ctx context.Context, queue string) (models.JobCounts, error) {
	var rows []struct {
		State models.JobState
		Count int64
	}

	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("state, COUNT(*) as count").
		Where("queue = ?", queue).
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return models.JobCounts{}, fmt.Errorf("failed to count jobs: %w", err)
	}

	var counts models.JobCounts
	for _, row := range rows {
		counts.Set(row.State, row.Count)
	}

	return counts, nil
}

func (r *jobRepository) List(ctx context.Context, queue string, states []models.JobState, offset, limit int) ([]*models.Job, error) {
	var jobs []*models.Job

	query := r.db.WithContext(ctx).Where("queue = ?", queue)
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	if limit <= 0 && offset > 0 {
		if offset >= len(jobs) {
			return []*models.Job{}, nil
		}
		jobs = jobs[offset:]
	}

	return jobs, nil
}

func (r *jobRepository) Clean(ctx context.Context, queue string, state models.JobState, before time.Time, limit int) ([]string, error) {
	before = before.UTC()
	column := "created_at"
	if state == models.JobStateCompleted || state == models.JobStateFailed {
		column = "finished_at"
	}

	query := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("queue = ? AND state = ?", queue, state).
		Where(column+" < ?", before).
		Order(column + " ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []string
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to select jobs to clean: %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	err := r.db.WithContext(ctx).
		Where("queue = ? AND id IN ?", queue, ids).
		Delete(&models.Job{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to clean jobs: %w", err)
	}

	return ids, nil
}

func (r *jobRepository) Trim(ctx context.Context, queue string, state models.JobState, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("queue = ? AND state = ?", queue, state).
		Order("finished_at DESC, created_at DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("failed to select jobs to trim: %w", err)
	}
	if len(ids) <= keep {
		return 0, nil
	}
	ids = ids[keep:]

	result := r.db.WithContext(ctx).
		Where("queue = ? AND id IN ?", queue, ids).
		Delete(&models.Job{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to trim jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *jobRepository) Remove(ctx context.Context, queue, id string) error {
	result := r.db.WithContext(ctx).
		Where("queue = ? AND id = ?", queue, id).
		Delete(&models.Job{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

func (r *jobRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
