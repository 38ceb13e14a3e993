// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	// A missing record is a valid outcome, never an infrastructure failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a required backend is unreachable or not
	// configured. Operations on that path must fail fast.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransientStore indicates a timeout or connection blip on a single
	// store operation. Safe for the caller to retry.
	ErrTransientStore = errors.New("transient store error")

	// ErrDispatchFailed indicates a reminder dispatch attempt failed. The
	// affected record is left unchanged for retry on the next sweep.
	ErrDispatchFailed = errors.New("dispatch failed")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
