package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSpec is returned when a report request is malformed or names no query source
	ErrInvalidSpec = errors.New("invalid report spec")
	// ErrInvalidRule is returned when a filter, function or sort rule cannot be applied to the table
	ErrInvalidRule = errors.New("invalid rule")
	// ErrBackendUnavailable is returned when the search backend cannot be reached
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrBackendError is returned when the search backend answers with a non-success status
	ErrBackendError = errors.New("search backend error")
	// ErrMalformedResponse is returned when a backend response does not have the expected shape
	ErrMalformedResponse = errors.New("malformed backend response")
	// ErrSavedQueryNotFound is returned when a saved query carries no resolvable query string
	ErrSavedQueryNotFound = errors.New("saved query not resolvable")
	// ErrLimitExceeded is returned when pagination exceeds the configured page or row limits
	ErrLimitExceeded = errors.New("pagination limit exceeded")
	// ErrCanceled is returned when the operation is canceled by the client
	ErrCanceled = errors.New("operation canceled")
)

// BackendError carries the status and body of a non-success backend response.
type BackendError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("search backend returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Is reports BackendError as ErrBackendError.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendError
}

// WrapError converts context.Canceled and context.DeadlineExceeded to ErrCanceled.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return ErrCanceled
	}
	return err
}

// IsCanceled returns true if the error is due to context cancellation or deadline exceeded.
// It checks both direct context errors and wrapped errors (e.g., from the HTTP transport).
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrCanceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "context deadline exceeded")
}
