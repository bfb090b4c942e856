package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const miniredisPrefix = "aq:"

func newMiniredisRepo(t *testing.T) (*miniredis.Miniredis, *redisJobRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisJobRepository(client, miniredisPrefix).(*redisJobRepository)
}

// Runs the shared repository suite against an in-process Redis.
func TestJobRepositorySuite_Miniredis(t *testing.T) {
	suite.Run(t, &JobRepositorySuite{
		newRepo: func(t *testing.T) JobRepositoryInterface {
			_, repo := newMiniredisRepo(t)
			return repo
		},
	})
}

// Runs the shared repository suite against a live Redis when REDIS_TEST_ADDR
// is set, e.g. REDIS_TEST_ADDR=localhost:6379.
func TestJobRepositorySuite_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	suite.Run(t, &JobRepositorySuite{
		newRepo: func(t *testing.T) JobRepositoryInterface {
			client := redis.NewClient(&redis.Options{Addr: addr})
			prefix := fmt.Sprintf("aq-test-%d:", time.Now().UnixNano())

			t.Cleanup(func() {
				ctx := context.Background()
				iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
				for iter.Next(ctx) {
					client.Del(ctx, iter.Val())
				}
				_ = client.Close()
			})

			return NewRedisJobRepository(client, prefix)
		},
	})
}

func TestWaitScore_PriorityDominatesAge(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	urgentLate := waitScore(&models.Job{Priority: 1, CreatedAt: base.Add(time.Hour)})
	normalEarly := waitScore(&models.Job{Priority: 2, CreatedAt: base})
	unprioritised := waitScore(&models.Job{Priority: 0, CreatedAt: base.Add(24 * time.Hour)})

	if urgentLate >= normalEarly {
		t.Fatalf("priority 1 should rank ahead of priority 2 regardless of age")
	}
	if unprioritised >= urgentLate {
		t.Fatalf("priority 0 should rank ahead of any explicit priority")
	}

	clamped := waitScore(&models.Job{Priority: 5000, CreatedAt: base})
	if clamped != waitScore(&models.Job{Priority: maxScoredPriority, CreatedAt: base}) {
		t.Fatalf("priorities above %d should be clamped", maxScoredPriority)
	}
}

func waitingJob(queue, id string, createdAt time.Time) *models.Job {
	return &models.Job{
		ID:          id,
		Queue:       queue,
		Name:        "calculate-pnl",
		Data:        json.RawMessage(`{"walletAddress":"w1"}`),
		State:       models.JobStateWaiting,
		MaxAttempts: 1,
		AvailableAt: createdAt,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestRedisAdd_DuplicateIsNotReindexed(t *testing.T) {
	ctx := context.Background()
	mr, repo := newMiniredisRepo(t)
	queue := models.QueueAnalysisOperations
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// A completed job still owns its ID.
	done := waitingJob(queue, "pnl-1", now)
	done.State = models.JobStateCompleted
	done.FinishedAt = &now
	_, err := repo.Add(ctx, done)
	require.NoError(t, err)

	existing, err := repo.Add(ctx, waitingJob(queue, "pnl-1", now.Add(time.Minute)))
	require.ErrorIs(t, err, ErrDuplicateJob)
	assert.Equal(t, models.JobStateCompleted, existing.State)

	assert.False(t, mr.Exists(repo.stateKey(queue, models.JobStateWaiting)))
	completed, err := mr.ZMembers(repo.stateKey(queue, models.JobStateCompleted))
	require.NoError(t, err)
	assert.Equal(t, []string{"pnl-1"}, completed)
}

func TestRedisAdd_StoresAndIndexesTogether(t *testing.T) {
	ctx := context.Background()
	mr, repo := newMiniredisRepo(t)
	queue := models.QueueWalletOperations
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.Add(ctx, waitingJob(queue, "sync-1", now))
	require.NoError(t, err)

	assert.True(t, mr.Exists(repo.jobKey(queue, "sync-1")))
	score, err := mr.ZScore(repo.stateKey(queue, models.JobStateWaiting), "sync-1")
	require.NoError(t, err)
	assert.Equal(t, float64(now.UnixMilli()), score)
}

func TestRedisClaimNext_MovesJobToActiveInOneStep(t *testing.T) {
	ctx := context.Background()
	mr, repo := newMiniredisRepo(t)
	queue := models.QueueAnalysisOperations
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(time.Second)

	_, err := repo.Add(ctx, waitingJob(queue, "pnl-1", created))
	require.NoError(t, err)

	job, err := repo.ClaimNext(ctx, queue, now)
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.False(t, mr.Exists(repo.stateKey(queue, models.JobStateWaiting)))
	score, err := mr.ZScore(repo.stateKey(queue, models.JobStateActive), "pnl-1")
	require.NoError(t, err)
	assert.Equal(t, float64(now.UnixMilli()), score)

	stored, err := repo.Get(ctx, queue, "pnl-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateActive, stored.State)
	require.NotNil(t, stored.ProcessedAt)
	assert.True(t, stored.ProcessedAt.Equal(now))
}

func TestRedisClaimNext_SkipsIndexEntryWithoutDocument(t *testing.T) {
	ctx := context.Background()
	mr, repo := newMiniredisRepo(t)
	queue := models.QueueEnrichmentOperations
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := mr.ZAdd(repo.stateKey(queue, models.JobStateWaiting), 0, "ghost")
	require.NoError(t, err)
	_, err = repo.Add(ctx, waitingJob(queue, "enrich-1", now))
	require.NoError(t, err)

	job, err := repo.ClaimNext(ctx, queue, now)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "enrich-1", job.ID)
	assert.False(t, mr.Exists(repo.stateKey(queue, models.JobStateWaiting)))
}

func TestRedisTransition_StaleWriterLoses(t *testing.T) {
	ctx := context.Background()
	_, repo := newMiniredisRepo(t)
	queue := models.QueueSimilarityOperations
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.Add(ctx, waitingJob(queue, "sim-1", created))
	require.NoError(t, err)

	// Read by a slow claimer before another worker wins the job.
	stale, err := repo.Get(ctx, queue, "sim-1")
	require.NoError(t, err)

	winner, err := repo.ClaimNext(ctx, queue, created.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, repo.Complete(ctx, winner, json.RawMessage(`{"ok":true}`), created.Add(2*time.Second)))

	stale.State = models.JobStateActive
	moved, err := repo.transition(ctx, stale, models.JobStateWaiting)
	require.NoError(t, err)
	assert.False(t, moved)

	stored, err := repo.Get(ctx, queue, "sim-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateCompleted, stored.State)
	assert.JSONEq(t, `{"ok":true}`, string(stored.ReturnValue))
}

func TestRedisClaimNext_ConcurrentClaimsAreExclusive(t *testing.T) {
	ctx := context.Background()
	mr, repo := newMiniredisRepo(t)
	queue := models.QueueAnalysisOperations
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	const jobs = 40
	for i := 0; i < jobs; i++ {
		_, err := repo.Add(ctx, waitingJob(queue, fmt.Sprintf("pnl-%02d", i), created.Add(time.Duration(i)*time.Millisecond)))
		require.NoError(t, err)
	}

	var (
		mu      sync.Mutex
		claimed = map[string]int{}
		wg      sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, err := repo.ClaimNext(ctx, queue, created.Add(time.Minute))
				if err != nil || job == nil {
					return
				}
				mu.Lock()
				claimed[job.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, jobs)
	for id, n := range claimed {
		assert.Equal(t, 1, n, id)
	}
	active, err := mr.ZMembers(repo.stateKey(queue, models.JobStateActive))
	require.NoError(t, err)
	assert.Len(t, active, jobs)
}

func TestRedisRemove_ClearsDocumentAndIndex(t *testing.T) {
	ctx := context.Background()
	mr, repo := newMiniredisRepo(t)
	queue := models.QueueWalletOperations
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.Add(ctx, waitingJob(queue, "dex-1", now))
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, queue, "dex-1"))
	assert.False(t, mr.Exists(repo.jobKey(queue, "dex-1")))
	assert.False(t, mr.Exists(repo.stateKey(queue, models.JobStateWaiting)))

	assert.ErrorIs(t, repo.Remove(ctx, queue, "dex-1"), ErrJobNotFound)
}
