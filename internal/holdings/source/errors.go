package source

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy.
type ErrorCategory string

const (
	// ErrorTimeout indicates the backend took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the backend returned malformed data
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the backend is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorNotFound indicates the collection itself does not exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// SourceError wraps backend failures with normalized categorization.
type SourceError struct {
	Category   ErrorCategory
	Source     string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *SourceError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Underlying
}

// NewSourceError creates a categorized error. Timeouts, outages and rate
// limiting are retryable.
func NewSourceError(category ErrorCategory, source, message string, underlying error) *SourceError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited

	return &SourceError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) ErrorCategory {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Category
	}
	return ErrorInternal
}

// Classify wraps a decode failure: an invalid collection stays detectable
// with errors.Is, anything else is bad data.
func Classify(source string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidCollection) {
		return NewSourceError(ErrorBadData, source, "invalid collection", err)
	}
	return NewSourceError(ErrorBadData, source, "malformed payload", err)
}
