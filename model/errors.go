package model

import (
	"context"
	"errors"
	"fmt"
)

// TransportError reports that the model backend was unreachable or rejected
// the request. StatusCode is zero when no HTTP response was received.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s transport error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err for provider. A nil err yields nil.
func NewTransportError(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Provider: provider, StatusCode: statusCode, Err: err}
}

// IsContextError reports whether err stems from context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
