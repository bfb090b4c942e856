package handlers

import (
	"encoding/json"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/nydiokar/analyzer-sub009/internal/errors"
)

const (
	testWallet      = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	testOtherWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func decodeErrorCode(rec *httptest.ResponseRecorder) string {
	var resp errors.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		return ""
	}
	return resp.Error.Code
}
