package errors

import "net/http"

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthMissingToken           ErrorCode = "AUTH_001"
	AuthExpiredToken           ErrorCode = "AUTH_002"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_003"
	AuthInsufficientPermission ErrorCode = "AUTH_004"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral              ErrorCode = "VALIDATION_001"
	ValidationRequiredField        ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat        ErrorCode = "VALIDATION_003"
	ValidationOutOfRange           ErrorCode = "VALIDATION_004"
	ValidationInvalidWalletAddress ErrorCode = "VALIDATION_005"
	ValidationInvalidDuration      ErrorCode = "VALIDATION_006"
)

// Queue error codes (QUEUE_*)
const (
	QueueNotFound              ErrorCode = "QUEUE_001"
	QueueUnavailable           ErrorCode = "QUEUE_002"
	QueueDeadLetterUnavailable ErrorCode = "QUEUE_003"
)

// Job error codes (JOB_*)
const (
	JobNotFound      ErrorCode = "JOB_001"
	JobEnqueueFailed ErrorCode = "JOB_002"
	JobInvalidID     ErrorCode = "JOB_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemBrokerError        ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

type codeSpec struct {
	status  int
	message string
}

// catalogue holds the HTTP status and default message of every registered code.
var catalogue = map[ErrorCode]codeSpec{
	AuthMissingToken:           {http.StatusUnauthorized, "Authorization token is required"},
	AuthExpiredToken:           {http.StatusUnauthorized, "Authorization token has expired"},
	AuthInvalidTokenFormat:     {http.StatusUnauthorized, "Invalid authorization token format"},
	AuthInsufficientPermission: {http.StatusForbidden, "Insufficient permissions to access this resource"},

	ValidationGeneral:              {http.StatusBadRequest, "Validation failed"},
	ValidationRequiredField:        {http.StatusBadRequest, "Required field is missing"},
	ValidationInvalidFormat:        {http.StatusBadRequest, "Invalid field format"},
	ValidationOutOfRange:           {http.StatusBadRequest, "Field value is out of allowed range"},
	ValidationInvalidWalletAddress: {http.StatusBadRequest, "Invalid wallet address"},
	ValidationInvalidDuration:      {http.StatusBadRequest, "Invalid duration, expected a value such as 24h or 30m"},

	QueueNotFound:              {http.StatusNotFound, "Queue not found"},
	QueueUnavailable:           {http.StatusServiceUnavailable, "Queue broker is unavailable"},
	QueueDeadLetterUnavailable: {http.StatusServiceUnavailable, "Dead-letter queue is unavailable"},

	JobNotFound:      {http.StatusNotFound, "Job not found"},
	JobEnqueueFailed: {http.StatusUnprocessableEntity, "Job could not be enqueued"},
	JobInvalidID:     {http.StatusBadRequest, "Invalid job ID format"},

	SystemInternalError:      {http.StatusInternalServerError, "An unexpected error occurred. Please contact support with trace ID"},
	SystemBrokerError:        {http.StatusInternalServerError, "Queue broker error"},
	SystemServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
	SystemConfigurationError: {http.StatusInternalServerError, "System configuration error"},
	SystemUnexpectedError:    {http.StatusInternalServerError, "An unexpected error occurred"},
	SystemRateLimitExceeded:  {http.StatusTooManyRequests, "Rate limit exceeded. Please try again later"},
	SystemRouteNotFound:      {http.StatusNotFound, "Resource not found"},
}

// GetErrorMessage returns the default message for code, or a generic one
// for unregistered codes.
func GetErrorMessage(code ErrorCode) string {
	if spec, ok := catalogue[code]; ok {
		return spec.message
	}
	return "An error occurred"
}

// GetHTTPStatus returns the status a code is served with. Unregistered codes
// are served as 500.
func GetHTTPStatus(code ErrorCode) int {
	if spec, ok := catalogue[code]; ok {
		return spec.status
	}
	return http.StatusInternalServerError
}

func IsValidErrorCode(code ErrorCode) bool {
	_, ok := catalogue[code]
	return ok
}
