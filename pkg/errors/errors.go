// Package errors provides structured error handling for the planner service.
// Every failure that crosses the HTTP boundary is an *AppError carrying a code
// that maps onto a response status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes exposed in API responses
const (
	// Client errors (4xx)
	CodeBadRequest           ErrorCode = "BAD_REQUEST"
	CodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeMethodNotAllowed     ErrorCode = "METHOD_NOT_ALLOWED"
	CodePayloadTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests      ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Planner specific
	CodeRecipeNotFound ErrorCode = "RECIPE_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the error code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeRecipeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorizedError creates an unauthenticated caller error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a store failure error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError() *AppError {
	return NewAppError(CodeTooManyRequests, "Rate limit exceeded", "")
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error carries a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value,omitempty"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates a validation AppError from field errors
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}

// ErrorResponse is the JSON body written for failed requests
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      ErrorCode              `json:"code"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     err.Message,
		Code:      err.Code,
		Details:   err.Details,
		Metadata:  err.Metadata,
		RequestID: requestID,
		Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
	}
}
