package response

import (
	"net/http"
)

// Response is the standard API envelope. Status is "success" or "error".
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

const (
	// StatusSuccess marks a successful response
	StatusSuccess = "success"
	// StatusError marks an error response
	StatusError = "error"
)

// --- Error Code Constants ---

const (
	// Client errors (4xx)
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrCodeResourceLocked   = "RESOURCE_LOCKED"

	// Server errors (5xx)
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeStorageError  = "STORAGE_ERROR"
)

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes.
// Conflicts surface as 422 to match the public API contract.
var ErrorCodeToHTTPStatus = map[string]int{
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeConflict:         http.StatusUnprocessableEntity,
	ErrCodeValidationFailed: http.StatusUnprocessableEntity,
	ErrCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeResourceLocked:   http.StatusLocked,
	ErrCodeInternalError:    http.StatusInternalServerError,
	ErrCodeStorageError:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// --- Response Builders ---

// Success creates a success response with data
func Success(data interface{}) *Response {
	return &Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

// SuccessWithMessage creates a success response with data and a message
func SuccessWithMessage(data interface{}, message string) *Response {
	return &Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// Error creates an error response
func Error(message string) *Response {
	return &Response{
		Status:  StatusError,
		Message: message,
	}
}

// ValidationFailed creates an error response with a field-keyed error map
func ValidationFailed(errors map[string]string) *Response {
	return &Response{
		Status:  StatusError,
		Message: "Validation error",
		Errors:  errors,
	}
}

// --- Common Error Responses ---

// BadRequest creates a bad request error response
func BadRequest(message string) *Response {
	if message == "" {
		message = "Bad request"
	}
	return Error(message)
}

// Unauthorized creates an unauthorized error response
func Unauthorized(message string) *Response {
	if message == "" {
		message = "Authentication required"
	}
	return Error(message)
}

// Forbidden creates a forbidden error response
func Forbidden(message string) *Response {
	if message == "" {
		message = "Access denied"
	}
	return Error(message)
}

// NotFound creates a not found error response
func NotFound(message string) *Response {
	if message == "" {
		message = "Resource not found"
	}
	return Error(message)
}

// Conflict creates a uniqueness conflict error response
func Conflict(message string) *Response {
	if message == "" {
		message = "Resource already exists"
	}
	return Error(message)
}

// InternalError creates an internal server error response
func InternalError(message string) *Response {
	if message == "" {
		message = "An internal error occurred"
	}
	return Error(message)
}
