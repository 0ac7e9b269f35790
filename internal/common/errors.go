// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Voice extraction errors. The three user-visible outcomes of a voice
	// session are distinct: capability denial, transport failure, and a
	// successful round trip that understood nothing.
	ErrPermissionDenied  = errors.New("recording permission denied")
	ErrTransportFailure  = errors.New("extraction request failed")
	ErrEmptyExtraction   = errors.New("no transactions understood")
	ErrExtractionTimeout = errors.New("extraction timed out")
	ErrSessionBusy       = errors.New("an extraction is already in flight")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
