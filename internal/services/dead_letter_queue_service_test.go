package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/database"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/repositories"
	"github.com/nydiokar/analyzer-sub009/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DeadLetterQueueServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	dlq      *service_mocks.MockJobQueueInterface
	alerting *service_mocks.MockAlertingServiceInterface
	clock    *fakeClock
	logs     *logCapture
	cfg      config.DeadLetterConfig
	service  *DeadLetterQueueService
}

func (s *DeadLetterQueueServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.dlq = service_mocks.NewMockJobQueueInterface(s.ctrl)
	s.alerting = service_mocks.NewMockAlertingServiceInterface(s.ctrl)
	s.clock = newFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.cfg = config.DeadLetterConfig{
		FailureThreshold:  10,
		FailureWindow:     5 * time.Minute,
		MaxFailureRecords: 1000,
		CleanupInterval:   10 * time.Minute,
		KeepCompleted:     100,
		KeepFailed:        500,
		EventConcurrency:  4,
	}
	s.service = s.newService(nil)
}

func (s *DeadLetterQueueServiceTestSuite) newService(factory QueueEventsFactory) *DeadLetterQueueService {
	logger, logs := newCapturedLogger()
	s.logs = logs
	return NewDeadLetterQueueService(s.dlq, factory, s.alerting, s.cfg,
		WithDeadLetterClock(s.clock),
		WithDeadLetterLogger(logger),
	)
}

func (s *DeadLetterQueueServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDeadLetterQueueServiceSuite(t *testing.T) {
	suite.Run(t, new(DeadLetterQueueServiceTestSuite))
}

func failedEvent(queueName string, job *models.Job, reason string) models.JobEvent {
	prev, _ := json.Marshal(job)
	return models.JobEvent{
		Queue:        queueName,
		Type:         models.JobEventFailed,
		JobID:        job.ID,
		FailedReason: reason,
		Prev:         string(prev),
		Timestamp:    time.Now(),
	}
}

func (s *DeadLetterQueueServiceTestSuite) expectRecordWrites() {
	s.dlq.EXPECT().Add(gomock.Any(), models.DeadLetterJobName, gomock.Any(), gomock.Any()).
		Return(&models.Job{ID: gofakeit.UUID()}, nil).AnyTimes()
	s.alerting.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).AnyTimes()
}

func (s *DeadLetterQueueServiceTestSuite) TestHandleFailure_WritesDeadLetterRecord() {
	processedAt := s.clock.Now().Add(-1500 * time.Millisecond)
	finishedAt := s.clock.Now()
	job := &models.Job{
		ID:           "similarity-0123456789ab",
		Name:         models.JobNameCalculateSimilarity,
		Data:         json.RawMessage(`{"walletAddresses":["a","b"]}`),
		AttemptsMade: 3,
		MaxAttempts:  3,
		FailedReason: "analyzer unavailable",
		ProcessedAt:  &processedAt,
		FinishedAt:   &finishedAt,
	}

	var record models.FailedJobMetrics
	var opts models.JobOptions
	s.dlq.EXPECT().Add(gomock.Any(), models.DeadLetterJobName, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data interface{}, o models.JobOptions) (*models.Job, error) {
			record = data.(models.FailedJobMetrics)
			opts = o
			return &models.Job{ID: "record-1"}, nil
		})
	s.alerting.EXPECT().IncrementCounter("dead_letter.recorded", map[string]string{"status": "success"})
	s.alerting.EXPECT().IncrementCounter("job_failures_total", map[string]string{
		"queue":    models.QueueSimilarityOperations,
		"job_name": models.JobNameCalculateSimilarity,
	})

	s.service.handleFailure(s.ctx, models.QueueSimilarityOperations, failedEvent(models.QueueSimilarityOperations, job, "analyzer unavailable"))

	s.Equal(models.QueueSimilarityOperations, record.QueueName)
	s.Equal(job.ID, record.JobID)
	s.Equal(models.JobNameCalculateSimilarity, record.JobName)
	s.Equal(3, record.Attempts)
	s.Equal(3, record.MaxAttempts)
	s.Equal("analyzer unavailable", record.Error)
	s.Equal(int64(1500), record.ProcessingTime)
	s.JSONEq(`{"walletAddresses":["a","b"]}`, string(record.Data))
	s.Equal(s.clock.Now(), record.FailedAt)

	s.Equal(1, opts.Priority)
	s.Equal(100, opts.RemoveOnComplete)
	s.Equal(500, opts.RemoveOnFail)
	s.Equal(1, s.service.GetRecentFailureCount(models.QueueSimilarityOperations))
}

func (s *DeadLetterQueueServiceTestSuite) TestHandleFailure_MalformedSnapshotKeepsRawPayload() {
	var record models.FailedJobMetrics
	s.dlq.EXPECT().Add(gomock.Any(), models.DeadLetterJobName, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data interface{}, _ models.JobOptions) (*models.Job, error) {
			record = data.(models.FailedJobMetrics)
			return &models.Job{ID: "record-1"}, nil
		})
	s.alerting.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).Times(2)

	s.NotPanics(func() {
		s.service.handleFailure(s.ctx, "custom-queue", models.JobEvent{
			JobID:        "job-7",
			FailedReason: "boom",
			Prev:         "{not json",
		})
	})

	s.Equal("unknown", record.JobName)
	s.Equal("job-7", record.JobID)
	s.Equal("boom", record.Error)
	s.JSONEq(`{"raw":"{not json"}`, string(record.Data))
}

func (s *DeadLetterQueueServiceTestSuite) TestHandleFailure_MissingReasonFallsBack() {
	record := buildFailureRecord("q", models.JobEvent{JobID: "x"}, s.clock.Now())
	s.Equal("unknown error", record.Error)

	job := &models.Job{ID: "x", Name: "n", FailedReason: "from snapshot"}
	record = buildFailureRecord("q", failedEvent("q", job, ""), s.clock.Now())
	s.Equal("from snapshot", record.Error)
	s.Equal("n", record.JobName)
}

func (s *DeadLetterQueueServiceTestSuite) TestDeadLetterPriority() {
	s.Equal(1, deadLetterPriority(models.QueueSimilarityOperations))
	s.Equal(2, deadLetterPriority(models.QueueAnalysisOperations))
	s.Equal(3, deadLetterPriority(models.QueueWalletOperations))
	s.Equal(4, deadLetterPriority(models.QueueEnrichmentOperations))
	s.Equal(5, deadLetterPriority("something-else"))
}

func (s *DeadLetterQueueServiceTestSuite) TestRollingWindow_AlertsFromThresholdOnwards() {
	s.expectRecordWrites()

	var alerts []models.Alert
	s.alerting.EXPECT().SendAlert(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, alert models.Alert) { alerts = append(alerts, alert) }).
		Times(2)

	job := &models.Job{ID: "sync-00000000", Name: models.JobNameSyncWallet}
	for i := 0; i < 9; i++ {
		s.service.handleFailure(s.ctx, models.QueueWalletOperations, failedEvent(models.QueueWalletOperations, job, "timeout"))
		s.clock.Advance(10 * time.Second)
	}
	s.Empty(alerts)

	s.service.handleFailure(s.ctx, models.QueueWalletOperations, failedEvent(models.QueueWalletOperations, job, "rpc error"))
	s.Equal(10, s.service.GetRecentFailureCount(models.QueueWalletOperations))
	s.Require().Len(alerts, 1)

	alert := alerts[0]
	s.Equal(models.AlertSeverityHigh, alert.Severity)
	s.Equal(models.QueueWalletOperations, alert.Context["queue"])
	s.Equal(10, alert.Context["failureCount"])
	s.Equal(10, alert.Context["threshold"])
	s.Equal("rpc error", alert.Context["error"])
	s.Contains(alert.Message, models.QueueWalletOperations)

	s.service.handleFailure(s.ctx, models.QueueWalletOperations, failedEvent(models.QueueWalletOperations, job, "rpc error"))
	s.Len(alerts, 2)
	s.Equal(11, alerts[1].Context["failureCount"])
}

func (s *DeadLetterQueueServiceTestSuite) TestRollingWindow_OnlyCountsRecentFailures() {
	s.expectRecordWrites()

	job := &models.Job{ID: "pnl-00000000", Name: models.JobNameCalculatePnl}
	for i := 0; i < 5; i++ {
		s.service.handleFailure(s.ctx, models.QueueAnalysisOperations, failedEvent(models.QueueAnalysisOperations, job, "x"))
	}
	s.Equal(5, s.service.GetRecentFailureCount(models.QueueAnalysisOperations))

	s.clock.Advance(6 * time.Minute)
	s.Equal(0, s.service.GetRecentFailureCount(models.QueueAnalysisOperations))

	s.service.handleFailure(s.ctx, models.QueueAnalysisOperations, failedEvent(models.QueueAnalysisOperations, job, "x"))
	s.Equal(1, s.service.GetRecentFailureCount(models.QueueAnalysisOperations))
	s.Equal(0, s.service.GetRecentFailureCount(models.QueueWalletOperations))
}

func (s *DeadLetterQueueServiceTestSuite) TestRollingWindow_CappedAtMaxRecords() {
	s.cfg.MaxFailureRecords = 3
	s.cfg.FailureThreshold = 100
	s.service = s.newService(nil)
	s.expectRecordWrites()

	for i := 0; i < 5; i++ {
		s.service.handleFailure(s.ctx, "q", models.JobEvent{JobID: "j"})
	}

	s.Equal(3, s.service.GetRecentFailureCount("q"))
}

func (s *DeadLetterQueueServiceTestSuite) TestCleanupFailureWindows_DropsStaleQueues() {
	s.expectRecordWrites()

	s.service.handleFailure(s.ctx, "stale", models.JobEvent{JobID: "a"})
	s.clock.Advance(4 * time.Minute)
	s.service.handleFailure(s.ctx, "fresh", models.JobEvent{JobID: "b"})
	s.clock.Advance(2 * time.Minute)

	s.service.CleanupFailureWindows()

	s.Equal(1, s.service.trackedQueues())
	s.service.mu.Lock()
	_, staleTracked := s.service.failures["stale"]
	s.service.mu.Unlock()
	s.False(staleTracked)
	s.Equal(1, s.service.GetRecentFailureCount("fresh"))
}

func (s *DeadLetterQueueServiceTestSuite) TestHandleFailure_DeadLetterWriteErrorStillCounted() {
	s.dlq.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("broker down"))
	s.alerting.EXPECT().IncrementCounter("dead_letter.recorded", map[string]string{"status": "error"})
	s.alerting.EXPECT().IncrementCounter("job_failures_total", gomock.Any())

	s.service.handleFailure(s.ctx, "q", models.JobEvent{JobID: "a"})

	s.Equal(1, s.service.GetRecentFailureCount("q"))
	entries := s.logs.withEventType("dead_letter_write_failed")
	s.Require().Len(entries, 1)
	s.Equal("broker down", entries[0]["error"])
}

func (s *DeadLetterQueueServiceTestSuite) TestHandleCompletion_CountsOnly() {
	s.alerting.EXPECT().IncrementCounter("job_completions_total", map[string]string{"queue": "q"})

	s.service.handleCompletion(s.ctx, "q", models.JobEvent{Type: models.JobEventCompleted})

	s.Equal(0, s.service.GetRecentFailureCount("q"))
}

// fakeEvents records the handlers registered by the service.
type fakeEvents struct {
	mu       sync.Mutex
	handlers map[models.JobEventType]queue.EventHandler
	closed   int
}

func (f *fakeEvents) On(eventType models.JobEventType, handler queue.EventHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers == nil {
		f.handlers = make(map[models.JobEventType]queue.EventHandler)
	}
	f.handlers[eventType] = handler
}

func (f *fakeEvents) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeEvents) emit(ctx context.Context, event models.JobEvent) {
	f.mu.Lock()
	handler := f.handlers[event.Type]
	f.mu.Unlock()
	handler(ctx, event)
}

func fakeFactory(created map[string]*fakeEvents) QueueEventsFactory {
	return func(_ context.Context, name string) (QueueEventsInterface, error) {
		events := &fakeEvents{}
		created[name] = events
		return events, nil
	}
}

func (s *DeadLetterQueueServiceTestSuite) TestMonitorQueue_Lifecycle() {
	created := map[string]*fakeEvents{}
	s.service = s.newService(fakeFactory(created))

	s.Require().NoError(s.service.MonitorQueue(s.ctx, models.QueueWalletOperations))
	s.Require().NoError(s.service.MonitorQueue(s.ctx, models.QueueWalletOperations))
	s.Len(created, 1)
	s.Equal([]string{models.QueueWalletOperations}, s.service.MonitoredQueues())

	events := created[models.QueueWalletOperations]
	s.Contains(events.handlers, models.JobEventFailed)
	s.Contains(events.handlers, models.JobEventCompleted)

	s.Require().NoError(s.service.StopMonitoring(models.QueueWalletOperations))
	s.Equal(1, events.closed)
	s.Empty(s.service.MonitoredQueues())

	s.ErrorIs(s.service.StopMonitoring(models.QueueWalletOperations), ErrQueueNotMonitored)
}

func (s *DeadLetterQueueServiceTestSuite) TestMonitorQueue_RejectsDeadLetterQueue() {
	s.ErrorIs(s.service.MonitorQueue(s.ctx, models.DeadLetterQueueName), ErrDeadLetterSelfMonitor)
}

func (s *DeadLetterQueueServiceTestSuite) TestMonitorQueue_FactoryError() {
	s.service = s.newService(func(context.Context, string) (QueueEventsInterface, error) {
		return nil, errors.New("redis unavailable")
	})

	err := s.service.MonitorQueue(s.ctx, models.QueueWalletOperations)

	s.Require().Error(err)
	s.Contains(err.Error(), "redis unavailable")
	s.Empty(s.service.MonitoredQueues())
}

func (s *DeadLetterQueueServiceTestSuite) TestMonitorKnownQueues() {
	created := map[string]*fakeEvents{}
	s.service = s.newService(fakeFactory(created))

	s.Require().NoError(s.service.MonitorKnownQueues(s.ctx))

	s.ElementsMatch(models.KnownQueues, s.service.MonitoredQueues())
}

func (s *DeadLetterQueueServiceTestSuite) TestEvents_HandledThenDrainedOnShutdown() {
	created := map[string]*fakeEvents{}
	s.service = s.newService(fakeFactory(created))
	s.Require().NoError(s.service.MonitorQueue(s.ctx, models.QueueEnrichmentOperations))

	s.dlq.EXPECT().Add(gomock.Any(), models.DeadLetterJobName, gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, interface{}, models.JobOptions) (*models.Job, error) {
			time.Sleep(5 * time.Millisecond)
			return &models.Job{ID: gofakeit.UUID()}, nil
		}).Times(3)
	s.alerting.EXPECT().IncrementCounter("dead_letter.recorded", gomock.Any()).Times(3)
	s.alerting.EXPECT().IncrementCounter("job_failures_total", gomock.Any()).Times(3)
	s.alerting.EXPECT().IncrementCounter("job_completions_total", gomock.Any()).Times(1)
	s.dlq.EXPECT().Close().Return(nil)

	events := created[models.QueueEnrichmentOperations]
	for i := 0; i < 3; i++ {
		events.emit(s.ctx, models.JobEvent{Type: models.JobEventFailed, JobID: gofakeit.UUID()})
	}
	events.emit(s.ctx, models.JobEvent{Type: models.JobEventCompleted, JobID: gofakeit.UUID()})

	s.Require().NoError(s.service.Shutdown(s.ctx))

	s.Equal(3, s.service.GetRecentFailureCount(models.QueueEnrichmentOperations))
	s.Equal(1, events.closed)
	s.Empty(s.service.MonitoredQueues())

	// Events arriving after shutdown are dropped.
	events.emit(s.ctx, models.JobEvent{Type: models.JobEventFailed, JobID: "late"})
	s.Equal(3, s.service.GetRecentFailureCount(models.QueueEnrichmentOperations))
}

func (s *DeadLetterQueueServiceTestSuite) TestEvents_HandlerPanicIsContained() {
	created := map[string]*fakeEvents{}
	s.service = s.newService(fakeFactory(created))
	s.Require().NoError(s.service.MonitorQueue(s.ctx, models.QueueWalletOperations))

	s.dlq.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, interface{}, models.JobOptions) (*models.Job, error) {
			panic("unexpected nil")
		})
	s.dlq.EXPECT().Close().Return(nil)

	s.NotPanics(func() {
		created[models.QueueWalletOperations].emit(s.ctx, models.JobEvent{Type: models.JobEventFailed, JobID: "a"})
		s.Require().NoError(s.service.Shutdown(s.ctx))
	})
	s.Len(s.logs.withEventType("dead_letter_handler_panic"), 1)
}

func (s *DeadLetterQueueServiceTestSuite) TestShutdown_Idempotent() {
	s.dlq.EXPECT().Close().Return(nil).Times(1)

	s.NoError(s.service.Shutdown(s.ctx))
	s.NoError(s.service.Shutdown(s.ctx))
	s.ErrorIs(s.service.MonitorQueue(s.ctx, models.QueueWalletOperations), ErrDeadLetterShuttingDown)
}

func (s *DeadLetterQueueServiceTestSuite) TestShutdown_ReportsCloseErrors() {
	s.dlq.EXPECT().Close().Return(errors.New("close failed"))

	err := s.service.Shutdown(s.ctx)

	s.Require().Error(err)
	s.Contains(err.Error(), "close failed")
}

func TestDeadLetterQueueService_ShutdownPartiallyInitialised(t *testing.T) {
	var nilService *DeadLetterQueueService
	assert.NoError(t, nilService.Shutdown(context.Background()))

	bare := NewDeadLetterQueueService(nil, nil, nil, config.DeadLetterConfig{}, WithDeadLetterLogger(slogDiscard()))
	assert.NoError(t, bare.Shutdown(context.Background()))
	assert.NoError(t, bare.Shutdown(context.Background()))
	assert.Equal(t, 10, bare.FailureThreshold())
	assert.Equal(t, 5*time.Minute, bare.FailureWindow())
}

func (s *DeadLetterQueueServiceTestSuite) TestStart_PeriodicCleanup() {
	s.cfg.CleanupInterval = 5 * time.Millisecond
	s.service = s.newService(nil)
	s.expectRecordWrites()
	s.dlq.EXPECT().Close().Return(nil)

	s.service.handleFailure(s.ctx, "q", models.JobEvent{JobID: "a"})
	s.clock.Advance(10 * time.Minute)

	s.service.Start(s.ctx)
	s.service.Start(s.ctx)

	s.Eventually(func() bool { return s.service.trackedQueues() == 0 }, time.Second, 5*time.Millisecond)
	s.NoError(s.service.Shutdown(s.ctx))
}

func (s *DeadLetterQueueServiceTestSuite) TestGetStats() {
	created := map[string]*fakeEvents{}
	s.service = s.newService(fakeFactory(created))
	s.Require().NoError(s.service.MonitorQueue(s.ctx, models.QueueAnalysisOperations))

	counts := models.JobCounts{Waiting: 4, Active: 1, Completed: 10, Failed: 2, Delayed: 3}
	s.dlq.EXPECT().GetJobCounts(gomock.Any()).Return(counts, nil)
	s.alerting.EXPECT().SetGauge("queue.depth", gomock.Any(), gomock.Any()).Times(len(models.AllJobStates))

	stats, err := s.service.GetStats(s.ctx)

	s.Require().NoError(err)
	s.Equal(counts, stats.JobCounts)
	s.Equal(int64(20), stats.Total())
	s.Equal([]string{models.QueueAnalysisOperations}, stats.MonitoredQueues)
}

func (s *DeadLetterQueueServiceTestSuite) TestGetStats_Error() {
	s.dlq.EXPECT().GetJobCounts(gomock.Any()).Return(models.JobCounts{}, errors.New("down"))

	_, err := s.service.GetStats(s.ctx)

	s.Error(err)
}

func (s *DeadLetterQueueServiceTestSuite) TestGetRecentFailures_SkipsUnreadableRecords() {
	good, _ := json.Marshal(models.FailedJobMetrics{QueueName: "q", JobID: "a", JobName: "n", Error: "e"})
	s.dlq.EXPECT().GetJobs(gomock.Any(), deadLetterListStates, 0, 50).Return([]*models.Job{
		{ID: "1", Data: good},
		{ID: "2", Data: json.RawMessage(`[1,2`)},
	}, nil)

	records, err := s.service.GetRecentFailures(s.ctx, 0)

	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("a", records[0].JobID)
	s.Len(s.logs.withEventType("dead_letter_decode_failed"), 1)
}

func (s *DeadLetterQueueServiceTestSuite) TestCleanupOldFailures() {
	s.dlq.EXPECT().Clean(gomock.Any(), time.Hour, 0, models.JobStateCompleted).Return([]string{"a", "b"}, nil)

	removed, err := s.service.CleanupOldFailures(s.ctx, time.Hour)

	s.Require().NoError(err)
	s.Equal(2, removed)
}

// TestDeadLetterQueueService_EndToEnd runs the service against the gorm queue
// runtime: failure events become records, the archiver completes them and
// cleanup removes them by age.
func TestDeadLetterQueueService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewJobRepository(database.SetupTestDB(t).DB)
	bus := queue.NewLocalEventBus(slogDiscard())
	dlq := queue.New(models.DeadLetterQueueName, repo, bus, queue.WithLogger(slogDiscard()))

	factory := func(ctx context.Context, name string) (QueueEventsInterface, error) {
		return queue.NewEvents(ctx, bus, name, slogDiscard())
	}
	alerting := NewAlertingService(config.AlertingConfig{}, nil, slogDiscard())
	service := NewDeadLetterQueueService(dlq, factory, alerting, config.DeadLetterConfig{}, WithDeadLetterLogger(slogDiscard()))
	require.NoError(t, service.MonitorKnownQueues(ctx))

	for i := 0; i < 3; i++ {
		job := &models.Job{ID: gofakeit.UUID(), Name: models.JobNameSyncWallet, AttemptsMade: 3, MaxAttempts: 3}
		require.NoError(t, bus.Publish(ctx, failedEvent(models.QueueWalletOperations, job, "rpc error")))
	}

	require.Eventually(t, func() bool {
		stats, err := service.GetStats(ctx)
		return err == nil && stats.Waiting == 3
	}, 2*time.Second, 10*time.Millisecond)

	stats, err := service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total())
	assert.Len(t, stats.MonitoredQueues, len(models.KnownQueues))

	records, err := service.GetRecentFailures(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, models.JobNameSyncWallet, records[0].JobName)
	assert.Equal(t, 3, service.GetRecentFailureCount(models.QueueWalletOperations))

	archiver := queue.NewWorker(dlq, NewDeadLetterArchiver(slogDiscard()), queue.WorkerOptions{
		Concurrency:  2,
		PollInterval: 5 * time.Millisecond,
		Logger:       slogDiscard(),
	})
	archiver.Start(ctx)
	require.Eventually(t, func() bool {
		counts, err := dlq.GetJobCounts(ctx)
		return err == nil && counts.Completed == 3
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, archiver.Close(ctx))

	removed, err := service.CleanupOldFailures(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	time.Sleep(5 * time.Millisecond)
	removed, err = service.CleanupOldFailures(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	require.NoError(t, service.Shutdown(ctx))
}

func TestDeadLetterArchiver(t *testing.T) {
	archiver := NewDeadLetterArchiver(slogDiscard())
	data, _ := json.Marshal(models.FailedJobMetrics{QueueName: "q", JobID: "a"})

	result, err := archiver.Process(context.Background(), &models.Job{ID: "r", Name: models.DeadLetterJobName, Data: data})
	require.NoError(t, err)
	assert.JSONEq(t, `{"archived":true,"queueName":"q","jobId":"a"}`, string(result))

	_, err = archiver.Process(context.Background(), &models.Job{ID: "r", Name: "other", Data: data})
	assert.Error(t, err)

	_, err = archiver.Process(context.Background(), &models.Job{ID: "r", Name: models.DeadLetterJobName, Data: json.RawMessage(`"x"`)})
	assert.Error(t, err)
}

// slowDeadLetterQueue delays every write so Shutdown starts while records are
// still being stored.
type slowDeadLetterQueue struct {
	JobQueueInterface
	delay   time.Duration
	started chan struct{}
}

func (q *slowDeadLetterQueue) Add(ctx context.Context, name string, data interface{}, opts models.JobOptions) (*models.Job, error) {
	select {
	case q.started <- struct{}{}:
	default:
	}

	select {
	case <-time.After(q.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return q.JobQueueInterface.Add(ctx, name, data, opts)
}

func TestDeadLetterQueueService_ShutdownFinishesInFlightWrites(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewJobRepository(database.SetupTestDB(t).DB)
	bus := queue.NewLocalEventBus(slogDiscard())
	dlq := &slowDeadLetterQueue{
		JobQueueInterface: queue.New(models.DeadLetterQueueName, repo, bus, queue.WithLogger(slogDiscard())),
		delay:             50 * time.Millisecond,
		started:           make(chan struct{}, 1),
	}

	factory := func(ctx context.Context, name string) (QueueEventsInterface, error) {
		return queue.NewEvents(ctx, bus, name, slogDiscard())
	}
	logger, logs := newCapturedLogger()
	alerting := NewAlertingService(config.AlertingConfig{}, nil, slogDiscard())
	service := NewDeadLetterQueueService(dlq, factory, alerting,
		config.DeadLetterConfig{EventConcurrency: 1},
		WithDeadLetterLogger(logger),
	)
	require.NoError(t, service.MonitorQueue(ctx, models.QueueAnalysisOperations))

	for i := 0; i < 3; i++ {
		job := &models.Job{ID: gofakeit.UUID(), Name: models.JobNameCalculatePnl, AttemptsMade: 3, MaxAttempts: 3}
		require.NoError(t, bus.Publish(ctx, failedEvent(models.QueueAnalysisOperations, job, "analyzer timeout")))
	}

	select {
	case <-dlq.started:
	case <-time.After(2 * time.Second):
		t.Fatal("dead-letter write never started")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, service.Shutdown(shutdownCtx))

	counts, err := repo.Counts(ctx, models.DeadLetterQueueName)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Waiting)
	assert.Empty(t, logs.withEventType("dead_letter_write_failed"))
	assert.Equal(t, 3, service.GetRecentFailureCount(models.QueueAnalysisOperations))
}

func TestDeadLetterQueueService_ShutdownDeadlineCancelsHandlers(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewJobRepository(database.SetupTestDB(t).DB)
	bus := queue.NewLocalEventBus(slogDiscard())
	dlq := &slowDeadLetterQueue{
		JobQueueInterface: queue.New(models.DeadLetterQueueName, repo, bus, queue.WithLogger(slogDiscard())),
		delay:             time.Minute,
		started:           make(chan struct{}, 1),
	}

	factory := func(ctx context.Context, name string) (QueueEventsInterface, error) {
		return queue.NewEvents(ctx, bus, name, slogDiscard())
	}
	logger, logs := newCapturedLogger()
	service := NewDeadLetterQueueService(dlq, factory, NewAlertingService(config.AlertingConfig{}, nil, slogDiscard()),
		config.DeadLetterConfig{}, WithDeadLetterLogger(logger))
	require.NoError(t, service.MonitorQueue(ctx, models.QueueWalletOperations))

	job := &models.Job{ID: gofakeit.UUID(), Name: models.JobNameSyncWallet}
	require.NoError(t, bus.Publish(ctx, failedEvent(models.QueueWalletOperations, job, "rpc error")))
	<-dlq.started

	shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := service.Shutdown(shutdownCtx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Eventually(t, func() bool {
		return len(logs.withEventType("dead_letter_write_failed")) == 1
	}, time.Second, 5*time.Millisecond)
}
