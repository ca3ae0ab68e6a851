package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidMode       ErrorCode = "INVALID_MODE"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeNoVectorAvailable ErrorCode = "NO_VECTOR_AVAILABLE"

	ErrCodeShortlistFailed         ErrorCode = "SHORTLIST_FAILED"
	ErrCodeDictionaryLookupFailed  ErrorCode = "DICTIONARY_LOOKUP_FAILED"
	ErrCodeStatisticsQueryFailed   ErrorCode = "STATISTICS_QUERY_FAILED"
	ErrCodeCategoriesLookupFailed  ErrorCode = "CATEGORIES_LOOKUP_FAILED"
	ErrCodeQueryTimeout            ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseConnectionLost  ErrorCode = "DATABASE_CONNECTION_LOST"
	ErrCodeSearchBackendUnavailable ErrorCode = "SEARCH_BACKEND_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable(code),
		Timestamp: time.Now().UTC(),
	}
}

// Wrap attaches a code and message to an underlying cause. The cause ends up
// in Details so it survives JSON serialization at the API boundary.
func Wrap(code ErrorCode, message string, cause error) *StandardError {
	e := New(code, message)
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// Normalize converts any error into a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return Wrap(ErrCodeInternal, "unexpected error", err)
}

func retryable(code ErrorCode) bool {
	switch code {
	case ErrCodeQueryTimeout, ErrCodeDatabaseConnectionLost, ErrCodeSearchBackendUnavailable:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error code to the status the API layer should respond with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidMode, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeShortlistFailed, ErrCodeDictionaryLookupFailed, ErrCodeStatisticsQueryFailed,
		ErrCodeCategoriesLookupFailed, ErrCodeDatabaseConnectionLost, ErrCodeSearchBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
