package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every TaskStore implementation. Driver errors are
// translated into these by the platform adapters.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("already exists")
	ErrInvalidEntity       = errors.New("rejected by store constraints")
	ErrConcurrencyConflict = errors.New("version changed since read")
	ErrTransactionFailed   = errors.New("transaction failed")

	// ErrTaskNotFound wraps ErrNotFound for missing task ids.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
)

// IsNotFoundError reports whether err means the requested row is absent.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which store operation failed on which entity.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError returns a StoreError wrapping err, which may be nil.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
