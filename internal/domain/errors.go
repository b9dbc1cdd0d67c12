// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every ValidationError matches it through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTaskName is returned when a task name is blank.
	ErrEmptyTaskName = errors.New("task name cannot be empty")

	// ErrTaskNameLength is returned when a task name is shorter than
	// NameMinLength or longer than NameMaxLength characters.
	ErrTaskNameLength = errors.New("task name has invalid length")

	// ErrTaskNameCharset is returned when a task name contains characters other
	// than letters, digits, spaces, hyphens and underscores.
	ErrTaskNameCharset = errors.New("task name contains invalid characters")

	// ErrInvalidTaskStatus is returned when a status value is not recognized.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidOwner is returned when a task has no positive owner ID.
	ErrInvalidOwner = errors.New("invalid task owner")

	// ErrInvalidTransition is returned when the transition policy forbids a
	// status change, such as completing an already cancelled task.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError describes a rejected field value. It matches both
// ErrValidation and its specific cause through errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap exposes ErrValidation and the specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
