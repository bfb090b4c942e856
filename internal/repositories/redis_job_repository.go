package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// Waiting jobs are scored priority*priorityScoreStep + created-at millis,
	// so priorities above maxScoredPriority share the lowest rank.
	priorityScoreStep = 1e13
	maxScoredPriority = 899
)

var (
	// addJobScript stores a job document and indexes it, or does nothing when
	// the ID is taken.
	// KEYS: job, state set. ARGV: payload, score, id.
	addJobScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

	// transitionScript moves a job between state sets and rewrites its
	// document, provided the job is still a member of the source set.
	// KEYS: from set, to set, job. ARGV: id, payload, score.
	transitionScript = redis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('SET', KEYS[3], ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
return 1
`)
)

type redisJobRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisJobRepository returns a job store that keeps each job as a JSON
// document and tracks membership per state in sorted sets.
func NewRedisJobRepository(client *redis.Client, prefix string) JobRepositoryInterface {
	return &redisJobRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *redisJobRepository) jobKey(queue, id string) string {
	return r.prefix + queue + ":job:" + id
}

func (r *redisJobRepository) stateKey(queue string, state models.JobState) string {
	if state == models.JobStateWaiting {
		return r.prefix + queue + ":wait"
	}
	return r.prefix + queue + ":" + string(state)
}

func waitScore(job *models.Job) float64 {
	priority := job.Priority
	if priority < 0 {
		priority = 0
	}
	if priority > maxScoredPriority {
		priority = maxScoredPriority
	}
	return float64(priority)*priorityScoreStep + float64(job.CreatedAt.UnixMilli())
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// stateScore is the sorted-set score a job carries in its current state.
func stateScore(job *models.Job) float64 {
	switch job.State {
	case models.JobStateWaiting:
		return waitScore(job)
	case models.JobStateDelayed:
		return millis(job.AvailableAt)
	case models.JobStateActive:
		if job.ProcessedAt != nil {
			return millis(*job.ProcessedAt)
		}
	case models.JobStateCompleted, models.JobStateFailed:
		if job.FinishedAt != nil {
			return millis(*job.FinishedAt)
		}
	}
	return millis(job.CreatedAt)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func (r *redisJobRepository) Add(ctx context.Context, job *models.Job) (*models.Job, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	created, err := addJobScript.Run(ctx, r.client,
		[]string{r.jobKey(job.Queue, job.ID), r.stateKey(job.Queue, job.State)},
		payload, formatScore(stateScore(job)), job.ID,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to add job: %w", err)
	}
	if created == 0 {
		existing, err := r.Get(ctx, job.Queue, job.ID)
		if err != nil {
			return nil, err
		}
		return existing, ErrDuplicateJob
	}

	return job, nil
}

// transition stores job under its new state if it is still in the from set.
// It reports false when another client moved or removed the job first.
func (r *redisJobRepository) transition(ctx context.Context, job *models.Job, from models.JobState) (bool, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	moved, err := transitionScript.Run(ctx, r.client,
		[]string{
			r.stateKey(job.Queue, from),
			r.stateKey(job.Queue, job.State),
			r.jobKey(job.Queue, job.ID),
		},
		job.ID, payload, formatScore(stateScore(job)),
	).Int()
	if err != nil {
		return false, err
	}
	return moved == 1, nil
}

func (r *redisJobRepository) Get(ctx context.Context, queue, id string) (*models.Job, error) {
	payload, err := r.client.Get(ctx, r.jobKey(queue, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	var job models.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}

	return &job, nil
}

func (r *redisJobRepository) ClaimNext(ctx context.Context, queue string, now time.Time) (*models.Job, error) {
	waitKey := r.stateKey(queue, models.JobStateWaiting)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head, err := r.client.ZRange(ctx, waitKey, 0, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read waiting jobs: %w", err)
		}
		if len(head) == 0 {
			return nil, nil
		}

		id := head[0]
		job, err := r.Get(ctx, queue, id)
		if errors.Is(err, ErrJobNotFound) {
			r.client.ZRem(ctx, waitKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}

		job.State = models.JobStateActive
		job.ProcessedAt = &now

		claimed, err := r.transition(ctx, job, models.JobStateWaiting)
		if err != nil {
			return nil, fmt.Errorf("failed to claim job %s: %w", id, err)
		}
		if !claimed {
			// Another worker took the head first.
			continue
		}

		return job, nil
	}
}

// move takes job out of the from set and stores it under its new state.
func (r *redisJobRepository) move(ctx context.Context, job *models.Job, from models.JobState) error {
	moved, err := r.transition(ctx, job, from)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	if !moved {
		return ErrJobStateConflict
	}
	return nil
}

func (r *redisJobRepository) Complete(ctx context.Context, job *models.Job, returnValue json.RawMessage, now time.Time) error {
	job.State = models.JobStateCompleted
	job.ReturnValue = returnValue
	job.FinishedAt = &now
	return r.move(ctx, job, models.JobStateActive)
}

func (r *redisJobRepository) Fail(ctx context.Context, job *models.Job, reason string, now time.Time) error {
	job.State = models.JobStateFailed
	job.FailedReason = reason
	job.FinishedAt = &now
	return r.move(ctx, job, models.JobStateActive)
}

func (r *redisJobRepository) Retry(ctx context.Context, job *models.Job, reason string, availableAt time.Time) error {
	job.State = models.JobStateDelayed
	job.FailedReason = reason
	job.AvailableAt = availableAt
	return r.move(ctx, job, models.JobStateActive)
}

func (r *redisJobRepository) PromoteDelayed(ctx context.Context, queue string, now time.Time) (int64, error) {
	ids, err := r.client.ZRangeByScore(ctx, r.stateKey(queue, models.JobStateDelayed), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read delayed jobs: %w", err)
	}

	var promoted int64
	for _, id := range ids {
		job, err := r.Get(ctx, queue, id)
		if errors.Is(err, ErrJobNotFound) {
			r.client.ZRem(ctx, r.stateKey(queue, models.JobStateDelayed), id)
			continue
		}
		if err != nil {
			return promoted, err
		}

		job.State = models.JobStateWaiting
		if err := r.move(ctx, job, models.JobStateDelayed); err != nil {
			if errors.Is(err, ErrJobStateConflict) {
				continue
			}
			return promoted, fmt.Errorf("failed to promote delayed jobs: %w", err)
		}
		promoted++
	}

	return promoted, nil
}

func (r *redisJobRepository) Counts(ctx context.Context, queue string) (models.JobCounts, error) {
	pipe := r.client.Pipeline()
	cmds := make(map[models.JobState]*redis.IntCmd, len(models.AllJobStates))
	for _, state := range models.AllJobStates {
		cmds[state] = pipe.ZCard(ctx, r.stateKey(queue, state))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return models.JobCounts{}, fmt.Errorf("failed to count jobs: %w", err)
	}

	var counts models.JobCounts
	for state, cmd := range cmds {
		counts.Set(state, cmd.Val())
	}

	return counts, nil
}

func (r *redisJobRepository) load(ctx context.Context, queue string, ids []string) ([]*models.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.jobKey(queue, id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	jobs := make([]*models.Job, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var job models.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, fmt.Errorf("failed to decode job %s: %w", ids[i], err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

func (r *redisJobRepository) List(ctx context.Context, queue string, states []models.JobState, offset, limit int) ([]*models.Job, error) {
	if len(states) == 0 {
		states = models.AllJobStates
	}

	var ids []string
	for _, state := range states {
		members, err := r.client.ZRange(ctx, r.stateKey(queue, state), 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list jobs: %w", err)
		}
		ids = append(ids, members...)
	}

	jobs, err := r.load(ctx, queue, ids)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if offset >= len(jobs) {
		return []*models.Job{}, nil
	}
	jobs = jobs[offset:]
	if limit > 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}

	return jobs, nil
}

func (r *redisJobRepository) Clean(ctx context.Context, queue string, state models.JobState, before time.Time, limit int) ([]string, error) {
	members, err := r.client.ZRange(ctx, r.stateKey(queue, state), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs to clean: %w", err)
	}

	jobs, err := r.load(ctx, queue, members)
	if err != nil {
		return nil, err
	}

	timestamp := func(job *models.Job) time.Time {
		if job.FinishedAt != nil && (state == models.JobStateCompleted || state == models.JobStateFailed) {
			return *job.FinishedAt
		}
		return job.CreatedAt
	}

	var expired []*models.Job
	for _, job := range jobs {
		if timestamp(job).Before(before) {
			expired = append(expired, job)
		}
	}
	sort.SliceStable(expired, func(i, j int) bool {
		return timestamp(expired[i]).Before(timestamp(expired[j]))
	})
	if limit > 0 && limit < len(expired) {
		expired = expired[:limit]
	}

	ids := make([]string, 0, len(expired))
	for _, job := range expired {
		ids = append(ids, job.ID)
	}
	if err := r.delete(ctx, queue, state, ids); err != nil {
		return nil, fmt.Errorf("failed to clean jobs: %w", err)
	}

	return ids, nil
}

func (r *redisJobRepository) Trim(ctx context.Context, queue string, state models.JobState, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	key := r.stateKey(queue, state)
	total, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to select jobs to trim: %w", err)
	}
	excess := total - int64(keep)
	if excess <= 0 {
		return 0, nil
	}

	ids, err := r.client.ZRange(ctx, key, 0, excess-1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to select jobs to trim: %w", err)
	}
	if err := r.delete(ctx, queue, state, ids); err != nil {
		return 0, fmt.Errorf("failed to trim jobs: %w", err)
	}

	return int64(len(ids)), nil
}

func (r *redisJobRepository) delete(ctx context.Context, queue string, state models.JobState, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
			pipe.Del(ctx, r.jobKey(queue, id))
		}
		pipe.ZRem(ctx, r.stateKey(queue, state), members...)
		return nil
	})
	return err
}

func (r *redisJobRepository) Remove(ctx context.Context, queue, id string) error {
	var deleted *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, r.jobKey(queue, id))
		for _, state := range models.AllJobStates {
			pipe.ZRem(ctx, r.stateKey(queue, state), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove job: %w", err)
	}
	if deleted.Val() == 0 {
		return ErrJobNotFound
	}

	return nil
}

func (r *redisJobRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
