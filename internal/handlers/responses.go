package handlers

import (
	"net/http"

	"github.com/nydiokar/analyzer-sub009/internal/errors"
	"github.com/nydiokar/analyzer-sub009/internal/validation"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For client errors and business logic errors (4xx and 503 responses)
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Not found errors: SendError(c, errors.JobNotFound)
//    - Broker outages: SendError(c, errors.QueueUnavailable)
//
// 2. SendValidationError - For validator.ValidationErrors returned by c.Validate
//
// 3. SendBrokerError - For unexpected queue broker failures (500 responses);
//    the underlying error is never written to the client
//
// DO NOT USE:
//    - echo.NewHTTPError() - Use SendError instead
//    - Direct c.JSON() for errors - Use the helper functions

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// Helper functions for creating standardized error responses in handlers
// These wrap the internal/errors package for convenience

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendBrokerError reports a queue broker failure without exposing its details
func SendBrokerError(c echo.Context, err error) error {
	errorResponse, _ := errors.WrapBrokerError(err, getTraceID(c))
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// SendValidationError reports request validation failures as VALIDATION_001 with one detail per field
func SendValidationError(c echo.Context, err error) error {
	return SendError(c, errors.ValidationGeneral, errors.WithDetails(validation.FormatErrors(err)...))
}
