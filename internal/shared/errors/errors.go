package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/uniedit/gridify"
)

// Common error sentinels.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnprocessable = errors.New("unprocessable entity")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse represents the JSON error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToResponse converts an AppError to ErrorResponse.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: e.Code, Message: e.Message}}
}

// NewAppError creates a new application error.
func NewAppError(code, message string, statusCode int, err error) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode, Err: err}
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s not found", resource), StatusCode: http.StatusNotFound, Err: ErrNotFound}
}

// BadRequest creates a bad request error.
func BadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, StatusCode: http.StatusBadRequest, Err: ErrBadRequest}
}

// Unprocessable creates a 422 error, used for operators the target field's value type cannot support.
func Unprocessable(message string) *AppError {
	return &AppError{Code: "UNPROCESSABLE_ENTITY", Message: message, StatusCode: http.StatusUnprocessableEntity, Err: ErrUnprocessable}
}

// RateLimited creates a rate limited error.
func RateLimited(message string) *AppError {
	if message == "" {
		message = "too many requests"
	}
	return &AppError{Code: "RATE_LIMITED", Message: message, StatusCode: http.StatusTooManyRequests, Err: ErrRateLimited}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, StatusCode: http.StatusInternalServerError, Err: err}
}

// FromGridify maps an error returned by the query compiler to an AppError.
// ParseError and UnknownField are client mistakes (400); UnsupportedOperator
// means the field exists but the operator can never apply to it (422).
func FromGridify(err error) *AppError {
	if err == nil {
		return nil
	}
	var parseErr *gridify.ParseError
	if errors.As(err, &parseErr) {
		return BadRequest(parseErr.Error())
	}
	var unknownField *gridify.UnknownFieldError
	if errors.As(err, &unknownField) {
		return BadRequest(unknownField.Error())
	}
	var unsupported *gridify.UnsupportedOperatorError
	if errors.As(err, &unsupported) {
		return Unprocessable(unsupported.Error())
	}
	return Internal("failed to apply query", err)
}

// GetStatusCode returns the appropriate HTTP status code for an error.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
