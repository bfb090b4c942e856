package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	apierrors "github.com/nydiokar/analyzer-sub009/internal/errors"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/queue"
	"github.com/nydiokar/analyzer-sub009/internal/services/service_mocks"
)

func TestQueueHandler(t *testing.T) {
	suite.Run(t, new(QueueHandlerSuite))
}

type QueueHandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	producer *service_mocks.MockJobProducerServiceInterface
	handler  *QueueHandler
	e        *echo.Echo
}

func (s *QueueHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.producer = service_mocks.NewMockJobProducerServiceInterface(s.ctrl)
	s.handler = NewQueueHandler(s.producer, nil)
	s.e = newTestEcho()
}

func (s *QueueHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *QueueHandlerSuite) get(h echo.HandlerFunc, names []string, values []string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/queues", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	s.Require().NoError(h(c))
	return rec
}

func (s *QueueHandlerSuite) TestGetCounts() {
	s.Run("known queue", func() {
		counts := &dto.QueueCountsResponse{
			Queue:  models.QueueWalletOperations,
			Counts: models.JobCounts{Waiting: 4, Failed: 1},
			Total:  5,
		}
		s.producer.EXPECT().GetQueueCounts(gomock.Any(), models.QueueWalletOperations).Return(counts, nil)

		rec := s.get(s.handler.GetCounts, []string{"queue"}, []string{models.QueueWalletOperations})

		s.Equal(http.StatusOK, rec.Code)
		var resp dto.QueueCountsResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(int64(5), resp.Total)
		s.Equal(int64(4), resp.Counts.Waiting)
	})

	s.Run("dead-letter queue is readable", func() {
		s.producer.EXPECT().GetQueueCounts(gomock.Any(), models.DeadLetterQueueName).
			Return(&dto.QueueCountsResponse{Queue: models.DeadLetterQueueName}, nil)

		rec := s.get(s.handler.GetCounts, []string{"queue"}, []string{models.DeadLetterQueueName})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown queue", func() {
		rec := s.get(s.handler.GetCounts, []string{"queue"}, []string{"email-operations"})

		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.QueueNotFound), decodeErrorCode(rec))
	})

	s.Run("broker error", func() {
		s.producer.EXPECT().GetQueueCounts(gomock.Any(), gomock.Any()).Return(nil, errors.New("i/o timeout"))

		rec := s.get(s.handler.GetCounts, []string{"queue"}, []string{models.QueueAnalysisOperations})
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.Equal(string(apierrors.SystemBrokerError), decodeErrorCode(rec))
		s.NotContains(rec.Body.String(), "i/o timeout")
	})
}

func (s *QueueHandlerSuite) TestGetJob() {
	params := []string{"queue", "id"}

	s.Run("found", func() {
		job := jobResponse(models.QueueAnalysisOperations, "analyze-pnl")
		job.State = models.JobStateCompleted
		s.producer.EXPECT().GetJobStatus(gomock.Any(), models.QueueAnalysisOperations, job.ID).Return(job, nil)

		rec := s.get(s.handler.GetJob, params, []string{models.QueueAnalysisOperations, job.ID})

		s.Equal(http.StatusOK, rec.Code)
		var resp dto.JobResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(models.JobStateCompleted, resp.State)
	})

	s.Run("not found", func() {
		s.producer.EXPECT().GetJobStatus(gomock.Any(), gomock.Any(), "missing").Return(nil, queue.ErrJobNotFound)

		rec := s.get(s.handler.GetJob, params, []string{models.QueueWalletOperations, "missing"})

		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.JobNotFound), decodeErrorCode(rec))
	})

	s.Run("unknown queue", func() {
		rec := s.get(s.handler.GetJob, params, []string{"nope", "job-1"})

		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.QueueNotFound), decodeErrorCode(rec))
	})

	s.Run("queue closed", func() {
		s.producer.EXPECT().GetJobStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, queue.ErrQueueClosed)

		rec := s.get(s.handler.GetJob, params, []string{models.QueueWalletOperations, "job-1"})
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})
}
