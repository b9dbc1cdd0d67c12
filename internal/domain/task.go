package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Name length limits, counted in characters.
const (
	NameMinLength = 3
	NameMaxLength = 100
)

// namePattern admits letters and digits of any script, whitespace, '_' and '-'.
var namePattern = regexp.MustCompile(`^[\p{L}\p{N}\s_-]+$`)

// Task is a unit of work with a due date and a lifecycle status.
type Task struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	DueDate   time.Time  `json:"due_date"`
	Status    TaskStatus `json:"status"`
	OwnerID   int64      `json:"owner_id"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TaskInput carries caller-supplied task fields. Zero values select defaults:
// today for DueDate, pending for Status (on creation) and the default owner
// for a non-positive OwnerID.
type TaskInput struct {
	Name    string
	DueDate time.Time
	Status  string
	OwnerID int64
}

// NewTask builds a validated task from in. A due date before today is moved
// to today; the status is normalized to its canonical form.
func NewTask(in TaskInput, now time.Time, defaultOwnerID int64) (*Task, error) {
	today := DateOf(now)

	due := today
	if !in.DueDate.IsZero() {
		due = DateOf(in.DueDate)
		if due.Before(today) {
			due = today
		}
	}

	status := StatusPending
	if strings.TrimSpace(in.Status) != "" {
		parsed, err := ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	task := &Task{
		Name:      strings.TrimSpace(in.Name),
		DueDate:   due,
		Status:    status,
		OwnerID:   ownerOrDefault(in.OwnerID, defaultOwnerID),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Apply overwrites the editable fields of t with in. The due date is not
// clamped. An empty status or zero due date leaves the current value. The
// status change is checked against policy.
func (t *Task) Apply(in TaskInput, policy TransitionPolicy, now time.Time, defaultOwnerID int64) error {
	status := t.Status
	if strings.TrimSpace(in.Status) != "" {
		parsed, err := ParseStatus(in.Status)
		if err != nil {
			return err
		}
		if err := policy.Check(t.Status, parsed); err != nil {
			return err
		}
		status = parsed
	}

	updated := *t
	updated.Name = strings.TrimSpace(in.Name)
	if !in.DueDate.IsZero() {
		updated.DueDate = DateOf(in.DueDate)
	}
	updated.Status = status
	updated.OwnerID = ownerOrDefault(in.OwnerID, defaultOwnerID)
	updated.UpdatedAt = now.UTC()

	if err := updated.Validate(); err != nil {
		return err
	}
	*t = updated
	return nil
}

// TransitionTo moves t to status if policy allows it.
func (t *Task) TransitionTo(status TaskStatus, policy TransitionPolicy, now time.Time) error {
	if err := policy.Check(t.Status, status); err != nil {
		return err
	}
	t.Status = status
	t.UpdatedAt = now.UTC()
	return nil
}

// Complete marks the task completed.
func (t *Task) Complete(policy TransitionPolicy, now time.Time) error {
	return t.TransitionTo(StatusCompleted, policy, now)
}

// Cancel marks the task cancelled.
func (t *Task) Cancel(policy TransitionPolicy, now time.Time) error {
	return t.TransitionTo(StatusCancelled, policy, now)
}

// Validate checks the persisted-task invariants: a well-formed name, a
// canonical status and a positive owner.
func (t *Task) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("%q is not a valid status", t.Status), ErrInvalidTaskStatus)
	}
	if t.OwnerID <= 0 {
		return NewValidationError("owner_id", "must be a positive integer", ErrInvalidOwner)
	}
	return nil
}

// ValidateName checks length and character set of a task name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "is required", ErrEmptyTaskName)
	}
	if n := utf8.RuneCountInString(name); n < NameMinLength || n > NameMaxLength {
		return NewValidationError("name",
			fmt.Sprintf("must be between %d and %d characters", NameMinLength, NameMaxLength),
			ErrTaskNameLength)
	}
	if !namePattern.MatchString(name) {
		return NewValidationError("name",
			"may only contain letters, digits, spaces, hyphens and underscores",
			ErrTaskNameCharset)
	}
	return nil
}

// IsActive reports whether the task is pending or in progress.
func (t *Task) IsActive() bool {
	return t.Status.IsActive()
}

// IsOverdue reports whether an active task's due date lies before today.
func (t *Task) IsOverdue(today time.Time) bool {
	return t.IsActive() && DateOf(t.DueDate).Before(DateOf(today))
}

func ownerOrDefault(ownerID, defaultOwnerID int64) int64 {
	if ownerID > 0 {
		return ownerID
	}
	return defaultOwnerID
}
