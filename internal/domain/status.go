package domain

import (
	"fmt"
	"strings"
)

// TaskStatus is the lifecycle state of a task, stored in lowercase canonical form.
type TaskStatus string

// Possible task status values
const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// ActiveStatuses lists the statuses of tasks that still need work.
var ActiveStatuses = []TaskStatus{StatusPending, StatusInProgress}

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// statusAliases maps every accepted lowercase spelling to its canonical value.
// The Spanish spellings are the values used by the first deployment of the tracker.
var statusAliases = map[string]TaskStatus{
	"pending":     StatusPending,
	"pendiente":   StatusPending,
	"in_progress": StatusInProgress,
	"in progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"en curso":    StatusInProgress,
	"completed":   StatusCompleted,
	"finalizado":  StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"cancelado":   StatusCancelled,
}

// ParseStatus normalizes s (case-insensitive, surrounding space ignored) into
// a canonical TaskStatus. Unknown values yield a ValidationError.
func ParseStatus(s string) (TaskStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", NewValidationError("status",
		fmt.Sprintf("%q is not one of pending, in_progress, completed, cancelled", s),
		ErrInvalidTaskStatus)
}

// IsValid reports whether s is a canonical status value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status still needs work.
func (s TaskStatus) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// IsTerminal reports whether the status ends the task lifecycle.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label returns the human-readable form of the status.
func (s TaskStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

func (s TaskStatus) String() string {
	return string(s)
}

// TransitionPolicy decides which status changes are allowed.
type TransitionPolicy string

const (
	// PolicyLastWriteWins accepts every change to a valid status.
	PolicyLastWriteWins TransitionPolicy = "last-write-wins"
	// PolicyStrict rejects leaving a terminal status for a different one.
	// Re-applying the current status is always accepted.
	PolicyStrict TransitionPolicy = "strict"
)

// ParseTransitionPolicy converts a configured policy name.
func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch p := TransitionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyLastWriteWins, PolicyStrict:
		return p, nil
	case "":
		return PolicyLastWriteWins, nil
	default:
		return "", fmt.Errorf("unknown transition policy %q", s)
	}
}

// Check returns an error wrapping ErrInvalidTransition when moving from one
// status to another is not allowed under p.
func (p TransitionPolicy) Check(from, to TaskStatus) error {
	if !to.IsValid() {
		return NewValidationError("status", fmt.Sprintf("%q is not a valid status", to), ErrInvalidTaskStatus)
	}
	if p == PolicyStrict && from.IsTerminal() && from != to {
		return fmt.Errorf("%w: task is already %s and cannot become %s", ErrInvalidTransition, from, to)
	}
	return nil
}
