package store

import (
	"errors"
	"fmt"
)

// Sentinel errors let callers map business failures onto HTTP statuses.
var (
	// ErrValidation covers missing/invalid required fields and business
	// rule violations (PO cap, duplicate document number).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound signals that no invoice matched the given identity.
	ErrNotFound = errors.New("invoice not found")

	// ErrPersistence covers storage-layer faults. Never retried.
	ErrPersistence = errors.New("storage operation failed")

	// ErrPDFGeneration is fatal to the operation that triggered it.
	ErrPDFGeneration = errors.New("pdf generation failed")
)

// Error wraps a sentinel with human-readable details.
type Error struct {
	Err     error
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(sentinel error, format string, args ...any) error {
	return &Error{Err: sentinel, Details: fmt.Sprintf(format, args...)}
}
