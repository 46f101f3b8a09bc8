package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies an error class across the API surface.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	ErrorCode_INTERNAL ErrorCode = 1000 + iota
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_UNAUTHENTICATED
	ErrorCode_PERMISSION_DENIED
	ErrorCode_INVALID_PAYLOAD
)

const (
	ErrorCode_UPSTREAM_UNAVAILABLE ErrorCode = 2000 + iota
	ErrorCode_PARSE_FAILURE
	ErrorCode_TRANSCRIPT_MISSING
	ErrorCode_SESSION_NOT_FOUND
	ErrorCode_SESSION_CLOSED
	ErrorCode_REMEDIATION_FAILED
)

// String returns a stable name for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_HTTP_OK:
		return "OK"
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_NOT_FOUND:
		return "NOT_FOUND"
	case ErrorCode_ALREADY_EXISTS:
		return "ALREADY_EXISTS"
	case ErrorCode_UNAUTHENTICATED:
		return "UNAUTHENTICATED"
	case ErrorCode_PERMISSION_DENIED:
		return "PERMISSION_DENIED"
	case ErrorCode_INVALID_PAYLOAD:
		return "INVALID_PAYLOAD"
	case ErrorCode_UPSTREAM_UNAVAILABLE:
		return "UPSTREAM_UNAVAILABLE"
	case ErrorCode_PARSE_FAILURE:
		return "PARSE_FAILURE"
	case ErrorCode_TRANSCRIPT_MISSING:
		return "TRANSCRIPT_MISSING"
	case ErrorCode_SESSION_NOT_FOUND:
		return "SESSION_NOT_FOUND"
	case ErrorCode_SESSION_CLOSED:
		return "SESSION_CLOSED"
	case ErrorCode_REMEDIATION_FAILED:
		return "REMEDIATION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// AppError is the custom error type for the application.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements the error interface.
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error.
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

func ErrPermissionDenied(action string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_PERMISSION_DENIED,
		Message:  fmt.Sprintf("Permission denied: %s", action),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Upstream service errors

// ErrUpstreamUnavailable marks a generation/search/transcription service that was
// unreachable or returned a non-success response.
func ErrUpstreamUnavailable(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_UPSTREAM_UNAVAILABLE,
		Message:  fmt.Sprintf("%s service unavailable", service),
	}.WithDetail("service", service)
}

// ErrParseFailure marks a model response that was not valid JSON or was missing
// required keys. Retry policy treats it the same as UPSTREAM_UNAVAILABLE.
func ErrParseFailure(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_PARSE_FAILURE,
		Message:  fmt.Sprintf("%s returned an unparseable response", service),
	}.WithDetail("service", service)
}

// Tutoring engine errors

func ErrTranscriptMissing(chapterID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_TRANSCRIPT_MISSING,
		Message:  "Chapter has no stored transcript",
	}.WithDetail("chapter_id", chapterID)
}

func ErrSessionNotFound(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_SESSION_NOT_FOUND,
		Message:  "Tutoring session not found or expired",
	}.WithDetail("session_id", sessionID)
}

func ErrSessionClosed(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_SESSION_CLOSED,
		Message:  "Tutoring session already reached READY",
	}.WithDetail("session_id", sessionID)
}

func ErrRemediationFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_REMEDIATION_FAILED,
		Message:  "Failed to generate remediation",
	}
}
