package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/database"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"

	"github.com/stretchr/testify/suite"
)

type QueueTestSuite struct {
	suite.Suite
	ctx   context.Context
	repo  repositories.JobRepositoryInterface
	bus   *LocalEventBus
	now   time.Time
	queue *Queue
}

func TestQueueTestSuite(t *testing.T) {
	suite.Run(t, new(QueueTestSuite))
}

func (s *QueueTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repositories.NewJobRepository(database.SetupTestDB(s.T()).DB)
	s.bus = NewLocalEventBus(nil)
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.queue = New(models.QueueWalletOperations, s.repo, s.bus,
		WithClock(func() time.Time { return s.now }),
		WithDefaults(Defaults{Attempts: 4, Backoff: 2 * time.Second}),
	)
}

func (s *QueueTestSuite) TestAdd_AppliesDefaults() {
	job, err := s.queue.Add(s.ctx, "sync-wallet", map[string]string{"walletAddress": "abc"}, models.JobOptions{})
	s.Require().NoError(err)

	s.NotEmpty(job.ID)
	s.Equal(models.QueueWalletOperations, job.Queue)
	s.Equal(models.JobStateWaiting, job.State)
	s.Equal(4, job.MaxAttempts)
	s.Equal(int64(2000), job.BackoffMs)
	s.JSONEq(`{"walletAddress":"abc"}`, string(job.Data))
}

func (s *QueueTestSuite) TestAdd_SameIDIsDeduplicated() {
	first, err := s.queue.Add(s.ctx, "sync-wallet", map[string]int{"n": 1}, models.JobOptions{JobID: "sync-deadbeef"})
	s.Require().NoError(err)

	second, err := s.queue.Add(s.ctx, "sync-wallet", map[string]int{"n": 2}, models.JobOptions{JobID: "sync-deadbeef"})
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.JSONEq(`{"n":1}`, string(second.Data))

	counts, err := s.queue.GetJobCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts.Total())
}

func (s *QueueTestSuite) TestAdd_DelayedJob() {
	job, err := s.queue.Add(s.ctx, "sync-wallet", nil, models.JobOptions{Delay: time.Minute})
	s.Require().NoError(err)

	s.Equal(models.JobStateDelayed, job.State)
	s.Equal(s.now.Add(time.Minute), job.AvailableAt)
	s.Equal(int64(60000), job.DelayMs)

	counts, err := s.queue.GetJobCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts.Delayed)
}

func (s *QueueTestSuite) TestAdd_RawJSONStoredVerbatim() {
	job, err := s.queue.Add(s.ctx, "sync-wallet", json.RawMessage(`{"a":[1,2]}`), models.JobOptions{})
	s.Require().NoError(err)
	s.JSONEq(`{"a":[1,2]}`, string(job.Data))
}

func (s *QueueTestSuite) TestAdd_RejectsInvalidInput() {
	_, err := s.queue.Add(s.ctx, "", nil, models.JobOptions{})
	s.ErrorIs(err, ErrInvalidJob)

	_, err = s.queue.Add(s.ctx, "sync-wallet", json.RawMessage(`{broken`), models.JobOptions{})
	s.ErrorIs(err, ErrInvalidJob)
}

func (s *QueueTestSuite) TestAdd_AfterClose() {
	s.NoError(s.queue.Close())
	s.NoError(s.queue.Close())

	_, err := s.queue.Add(s.ctx, "sync-wallet", nil, models.JobOptions{})
	s.ErrorIs(err, ErrQueueClosed)
}

func (s *QueueTestSuite) TestGetJob_NotFound() {
	_, err := s.queue.GetJob(s.ctx, "missing")
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *QueueTestSuite) TestGetJobs_NewestFirst() {
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.queue.Add(s.ctx, "sync-wallet", nil, models.JobOptions{JobID: id})
		s.Require().NoError(err)
		s.now = s.now.Add(time.Second)
	}

	jobs, err := s.queue.GetJobs(s.ctx, []models.JobState{models.JobStateWaiting}, 0, 2)
	s.Require().NoError(err)
	s.Require().Len(jobs, 2)
	s.Equal("c", jobs[0].ID)
	s.Equal("b", jobs[1].ID)
}

func (s *QueueTestSuite) TestClean_UsesGracePeriod() {
	for _, id := range []string{"old", "new"} {
		_, err := s.queue.Add(s.ctx, "sync-wallet", nil, models.JobOptions{JobID: id})
		s.Require().NoError(err)
		job, err := s.repo.ClaimNext(s.ctx, s.queue.Name(), s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.repo.Complete(s.ctx, job, nil, s.now))
		s.now = s.now.Add(time.Hour)
	}

	removed, err := s.queue.Clean(s.ctx, 30*time.Minute, 0, models.JobStateCompleted)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"old", "new"}, removed)

	counts, err := s.queue.GetJobCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), counts.Completed)
}

func (s *QueueTestSuite) TestClean_LargeGraceRemovesNothing() {
	_, err := s.queue.Add(s.ctx, "sync-wallet", nil, models.JobOptions{JobID: "done"})
	s.Require().NoError(err)
	job, err := s.repo.ClaimNext(s.ctx, s.queue.Name(), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Complete(s.ctx, job, nil, s.now))

	removed, err := s.queue.Clean(s.ctx, 365*24*time.Hour, 0, models.JobStateCompleted)
	s.Require().NoError(err)
	s.Empty(removed)
}
