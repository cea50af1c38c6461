package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the failure classes of the wall and its ingestion path
type ErrorType string

const (
	ErrorTypePrecondition ErrorType = "precondition"
	ErrorTypeIngestion    ErrorType = "ingestion"
	ErrorTypeMeasurement  ErrorType = "measurement"
	ErrorTypeRateLimit    ErrorType = "rate_limit"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Ingestion failure codes
const (
	CodeNetwork    = "network"
	CodeNavigation = "navigation"
	CodeTimeout    = "timeout"
	CodeSelector   = "selector"
	CodeDecode     = "decode"
	CodeStatus     = "status"
	CodeCanceled   = "canceled"
)

// Error represents a typed failure with an optional cause
type Error struct {
	Type    ErrorType
	Message string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != "" {
		msg += fmt.Sprintf(" (%s)", e.Code)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same type, so errors.Is(err, &Error{Type: ...}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Code == "" || t.Code == e.Code)
}

// Sentinels for errors.Is checks
var (
	ErrPrecondition = &Error{Type: ErrorTypePrecondition}
	ErrIngestion    = &Error{Type: ErrorTypeIngestion}
	ErrMeasurement  = &Error{Type: ErrorTypeMeasurement}
)

// NewPrecondition reports a request rejected before any work started
func NewPrecondition(message string) *Error {
	return &Error{Type: ErrorTypePrecondition, Message: message}
}

// NewIngestion wraps a scrape or fetch failure into the single coarse ingestion error
func NewIngestion(code, message string, err error) *Error {
	return &Error{Type: ErrorTypeIngestion, Code: code, Message: message, Err: err}
}

// NewMeasurement reports a column whose content height could not be measured
func NewMeasurement(column int, height float64) *Error {
	return &Error{
		Type:    ErrorTypeMeasurement,
		Message: fmt.Sprintf("column %d has unusable content height %.1f", column, height),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRetryable checks if an error type is worth re-issuing by a caller
func IsRetryable(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrorTypeRateLimit:
		return true
	case ErrorTypeIngestion:
		return e.Code == CodeNetwork || e.Code == CodeTimeout
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429:
		return true
	case 400, 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
