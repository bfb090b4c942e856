package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	apierrors "github.com/nydiokar/analyzer-sub009/internal/errors"
)

type PanicRecoveryTestSuite struct {
	suite.Suite
	echo *echo.Echo
	logs *bytes.Buffer
}

func (s *PanicRecoveryTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(s.logs, nil))

	s.echo = echo.New()
	s.echo.HTTPErrorHandler = NewHTTPErrorHandler(logger)
	s.echo.Use(RequestID(), PanicRecovery(logger))
}

func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) get(path string) (*httptest.ResponseRecorder, apierrors.ErrorResponse) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(TraceIDHeader, "trace-panic")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var body apierrors.ErrorResponse
	if rec.Code >= http.StatusBadRequest {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func (s *PanicRecoveryTestSuite) TestPanicBecomesSystemError() {
	s.echo.GET("/api/v1/queues/:queue/counts", func(echo.Context) error {
		panic("nil repository for wallet-operations")
	})

	rec, body := s.get("/api/v1/queues/wallet-operations/counts")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(string(apierrors.SystemInternalError), body.Error.Code)
	s.Equal("trace-panic", body.Error.TraceID)
	s.NotContains(rec.Body.String(), "nil repository")

	s.Contains(s.logs.String(), `"event_type":"api_panic"`)
	s.Contains(s.logs.String(), `"panic":"nil repository for wallet-operations"`)
	s.Contains(s.logs.String(), `"trace_id":"trace-panic"`)
	s.Contains(s.logs.String(), "stack_trace")
}

func (s *PanicRecoveryTestSuite) TestPanicValues() {
	cases := map[string]any{
		"error":  errors.New("boom"),
		"int":    42,
		"struct": struct{ Queue string }{"pnl-analysis"},
	}

	for name, value := range cases {
		s.Run(name, func() {
			s.echo.GET("/panic/"+name, func(echo.Context) error {
				panic(value)
			})

			rec, body := s.get("/panic/" + name)

			s.Equal(http.StatusInternalServerError, rec.Code)
			s.Equal(string(apierrors.SystemInternalError), body.Error.Code)
		})
	}
}

func (s *PanicRecoveryTestSuite) TestNormalFlowUntouched() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	rec, _ := s.get("/health")

	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(s.logs.String(), "api_panic")
}

func (s *PanicRecoveryTestSuite) TestAbortHandlerRepanics() {
	handler := PanicRecovery(nil)(func(echo.Context) error {
		panic(http.ErrAbortHandler)
	})
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	s.PanicsWithValue(http.ErrAbortHandler, func() {
		_ = handler(c)
	})
}
