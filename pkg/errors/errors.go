package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"

	// Application errors
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
	ErrorTypeRateLimited ErrorType = "RATE_LIMITED"
	ErrorTypeMethod      ErrorType = "METHOD_NOT_ALLOWED"

	// Catalog transport errors
	ErrorTypeHTTP    ErrorType = "HTTP"
	ErrorTypeNetwork ErrorType = "NETWORK"
	ErrorTypeParse   ErrorType = "PARSE"
)

// DefaultErrorMessage is shown when a failure carries no message of its own.
const DefaultErrorMessage = "Unknown error"

// AppError represents an application-specific error
type AppError struct {
	Type           ErrorType              `json:"type"`
	Message        string                 `json:"message"`
	Code           string                 `json:"code,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Cause          error                  `json:"-"`
	StackTrace     string                 `json:"-"`
	HTTPStatus     int                    `json:"-"`
	UpstreamStatus int                    `json:"upstream_status,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var stack strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&stack, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack.String()
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(service string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    fmt.Sprintf("service '%s' is unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		StackTrace: captureStackTrace(),
	}
}

// NewHTTPError creates an error for a catalog response outside the 2xx range.
// A 404 upstream is reported as 404 to our own callers; anything else is a bad gateway.
func NewHTTPError(status int) *AppError {
	httpStatus := http.StatusBadGateway
	if status == http.StatusNotFound {
		httpStatus = http.StatusNotFound
	}
	return &AppError{
		Type:           ErrorTypeHTTP,
		Message:        fmt.Sprintf("HTTP error! status: %d", status),
		HTTPStatus:     httpStatus,
		UpstreamStatus: status,
		StackTrace:     captureStackTrace(),
	}
}

// NewNetworkError creates a network error
func NewNetworkError(message string, err error) *AppError {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// NewParseError creates an error for a response body that is not valid JSON
func NewParseError(err error) *AppError {
	message := "invalid JSON response"
	if err != nil {
		message = err.Error()
	}
	return &AppError{
		Type:       ErrorTypeParse,
		Message:    message,
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsHTTPError checks if an error is a non-2xx catalog response
func IsHTTPError(err error) bool {
	return IsType(err, ErrorTypeHTTP)
}

// IsNetwork checks if an error is a transport failure
func IsNetwork(err error) bool {
	return IsType(err, ErrorTypeNetwork)
}

// IsParse checks if an error is a response decoding failure
func IsParse(err error) bool {
	return IsType(err, ErrorTypeParse)
}

// UpstreamStatus returns the catalog status code carried by an HTTP error.
func UpstreamStatus(err error) (int, bool) {
	appErr := GetAppError(err)
	if appErr == nil || appErr.Type != ErrorTypeHTTP {
		return 0, false
	}
	return appErr.UpstreamStatus, true
}

// ErrorMessage returns the human-readable message of err, or fallback when
// err carries none. An empty fallback means DefaultErrorMessage.
func ErrorMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultErrorMessage
	}
	if err == nil {
		return fallback
	}
	if appErr := GetAppError(err); appErr != nil {
		if appErr.Message != "" {
			return appErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
