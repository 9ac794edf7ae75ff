// Package errors provides domain-specific error types and sentinel errors
// for the feedback and translation flows.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates no feedback record exists for the requested message.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyVoted indicates the user already voted on the feedback.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTranslationFailed indicates the translation backend could not produce a result.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrPersistence indicates the backing store rejected or failed a write.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Is reports ValidationError as ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// TranslationError normalizes every translation backend failure.
// StatusCode is zero when no HTTP response was received.
type TranslationError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TranslationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("translation error (provider=%s, status=%d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("translation error (provider=%s): %v", e.Provider, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Is reports TranslationError as ErrTranslationFailed.
func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslationFailed
}

// NewTranslationError creates a new translation error.
func NewTranslationError(provider string, statusCode int, err error) *TranslationError {
	return &TranslationError{
		Provider:   provider,
		StatusCode: statusCode,
		Err:        err,
	}
}

// PersistenceError wraps a storage failure with the operation that caused it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error (op=%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports PersistenceError as ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError creates a new persistence error.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{
		Op:  op,
		Err: err,
	}
}

// IsUserFacing reports whether err is an expected outcome rather than a system fault.
// User-facing outcomes are shown to the user but not reported to error tracking.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrInvalidInput)
}
