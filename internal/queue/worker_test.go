package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/database"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"

	"github.com/stretchr/testify/suite"
)

type WorkerTestSuite struct {
	suite.Suite
	ctx    context.Context
	repo   repositories.JobRepositoryInterface
	bus    *LocalEventBus
	queue  *Queue
	sub    Subscription
	worker *Worker
}

func TestWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (s *WorkerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repositories.NewJobRepository(database.SetupTestDB(s.T()).DB)
	s.bus = NewLocalEventBus(nil)
	s.queue = New(models.QueueAnalysisOperations, s.repo, s.bus,
		WithDefaults(Defaults{Attempts: 1, Backoff: 10 * time.Millisecond}),
	)

	sub, err := s.bus.Subscribe(s.ctx, s.queue.Name())
	s.Require().NoError(err)
	s.sub = sub
}

func (s *WorkerTestSuite) TearDownTest() {
	if s.worker != nil {
		s.NoError(s.worker.Close(context.Background()))
		s.worker = nil
	}
	_ = s.sub.Close()
}

func (s *WorkerTestSuite) start(processor Processor, concurrency int) {
	s.worker = NewWorker(s.queue, processor, WorkerOptions{
		Concurrency:  concurrency,
		PollInterval: 10 * time.Millisecond,
	})
	s.worker.Start(s.ctx)
}

func (s *WorkerTestSuite) nextEvent() models.JobEvent {
	select {
	case event := <-s.sub.Events():
		return event
	case <-time.After(5 * time.Second):
		s.FailNow("timed out waiting for job event")
		return models.JobEvent{}
	}
}

func (s *WorkerTestSuite) TestCompletesJob() {
	_, err := s.queue.Add(s.ctx, "calculate-pnl", map[string]string{"walletAddress": "w1"}, models.JobOptions{JobID: "pnl-1"})
	s.Require().NoError(err)

	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		return json.RawMessage(`{"pnl":42}`), nil
	}), 1)

	event := s.nextEvent()
	s.Equal(models.JobEventCompleted, event.Type)
	s.Equal("pnl-1", event.JobID)
	s.JSONEq(`{"pnl":42}`, string(event.ReturnValue))

	job, err := s.queue.GetJob(s.ctx, "pnl-1")
	s.Require().NoError(err)
	s.Equal(models.JobStateCompleted, job.State)
	s.Equal(1, job.AttemptsMade)
}

func (s *WorkerTestSuite) TestRetriesThenFailsWithSnapshot() {
	_, err := s.queue.Add(s.ctx, "calculate-pnl", map[string]string{"walletAddress": "w1"}, models.JobOptions{
		JobID:    "pnl-2",
		Attempts: 3,
		Backoff:  10 * time.Millisecond,
	})
	s.Require().NoError(err)

	var calls atomic.Int32
	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		calls.Add(1)
		return nil, errors.New("analyzer unavailable")
	}), 1)

	event := s.nextEvent()
	s.Equal(models.JobEventFailed, event.Type)
	s.Equal("analyzer unavailable", event.FailedReason)
	s.Equal(int32(3), calls.Load())

	var prev models.Job
	s.Require().NoError(json.Unmarshal([]byte(event.Prev), &prev))
	s.Equal("calculate-pnl", prev.Name)
	s.Equal(3, prev.AttemptsMade)
	s.Equal(3, prev.MaxAttempts)
	s.JSONEq(`{"walletAddress":"w1"}`, string(prev.Data))
}

func (s *WorkerTestSuite) TestPanicIsRecordedAsFailure() {
	_, err := s.queue.Add(s.ctx, "calculate-pnl", nil, models.JobOptions{JobID: "pnl-3"})
	s.Require().NoError(err)

	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		panic("nil wallet")
	}), 1)

	event := s.nextEvent()
	s.Equal(models.JobEventFailed, event.Type)
	s.Contains(event.FailedReason, "nil wallet")
}

func (s *WorkerTestSuite) TestRespectsConcurrencyLimit() {
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := s.queue.Add(s.ctx, "calculate-pnl", nil, models.JobOptions{JobID: id})
		s.Require().NoError(err)
	}

	var inFlight, peak atomic.Int32
	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return nil, nil
	}), 2)

	for i := 0; i < 6; i++ {
		s.Equal(models.JobEventCompleted, s.nextEvent().Type)
	}
	s.LessOrEqual(peak.Load(), int32(2))
}

func (s *WorkerTestSuite) TestTrimsCompletedJobs() {
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.queue.Add(s.ctx, "calculate-pnl", nil, models.JobOptions{JobID: id, RemoveOnComplete: 1})
		s.Require().NoError(err)
	}

	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		return nil, nil
	}), 1)

	for i := 0; i < 3; i++ {
		s.nextEvent()
	}

	s.Eventually(func() bool {
		counts, err := s.queue.GetJobCounts(s.ctx)
		return err == nil && counts.Completed == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *WorkerTestSuite) TestCloseWaitsForActiveJob() {
	_, err := s.queue.Add(s.ctx, "calculate-pnl", nil, models.JobOptions{JobID: "slow"})
	s.Require().NoError(err)

	started := make(chan struct{})
	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return nil, nil
	}), 1)

	<-started
	s.Require().NoError(s.worker.Close(context.Background()))
	s.worker = nil

	job, err := s.queue.GetJob(s.ctx, "slow")
	s.Require().NoError(err)
	s.Equal(models.JobStateCompleted, job.State)
}

func (s *WorkerTestSuite) TestCloseDeadlineCancelsActiveJob() {
	_, err := s.queue.Add(s.ctx, "calculate-pnl", nil, models.JobOptions{JobID: "stuck"})
	s.Require().NoError(err)

	started := make(chan struct{})
	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}), 1)

	<-started
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s.ErrorIs(s.worker.Close(ctx), context.DeadlineExceeded)
	s.worker = nil
}

func (s *WorkerTestSuite) TestCloseIsIdempotent() {
	s.start(ProcessorFunc(func(ctx context.Context, job *models.Job) (json.RawMessage, error) {
		return nil, nil
	}), 1)

	s.NoError(s.worker.Close(context.Background()))
	s.NoError(s.worker.Close(context.Background()))
	s.worker = nil
}
