package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskProjectIDEmpty is returned when a task's project ID is empty or nil.
	ErrTaskProjectIDEmpty = errors.New("task project ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrInvalidTaskStatus is returned when a status value is outside the closed set.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskStatus is the closed set of workflow states a task can be stored in.
// Archiving is deliberately NOT a status: it is the orthogonal IsArchived
// flag, toggled by the status gate when a caller requests StatusArchive.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusTesting    TaskStatus = "Testing"
	TaskStatusDone       TaskStatus = "Done"

	// StatusArchive is accepted as a *requested* status on the status-change
	// API, but never stored. The gate translates it to IsArchived = true and
	// leaves Status untouched.
	StatusArchive TaskStatus = "Archive"
)

// IsValid reports whether s is a storable task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusTesting, TaskStatusDone:
		return true
	default:
		return false
	}
}

// IsRequestable reports whether s may appear as the requested status in a
// status-change attempt. This is the storable set plus StatusArchive.
func (s TaskStatus) IsRequestable() bool {
	return s.IsValid() || s == StatusArchive
}

// Task is the unit of work being tracked. Only the fields touched by the
// verification workflow are modeled here; the wider CRUD surface (subtasks,
// attachments, time tracking) lives outside this subsystem.
//
// Invariant: RequiresVerification is true if and only if
// PendingVerificationID references a VerificationRequest whose status is
// pending. Both fields are mutated together, inside the same transaction
// that creates or decides the request.
type Task struct {
	ID                    uuid.UUID  `json:"id"`
	ProjectID             uuid.UUID  `json:"project_id"`
	WorkspaceID           uuid.UUID  `json:"workspace_id"`
	Title                 string     `json:"title"`
	Status                TaskStatus `json:"status"`
	Assignees             uuid.UUIDs `json:"assignees"`
	IsArchived            bool       `json:"is_archived"`
	RequiresVerification  bool       `json:"requires_verification"`
	PendingVerificationID *uuid.UUID `json:"pending_verification_id,omitempty"`
	CreatedBy             uuid.UUID  `json:"created_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.ProjectID == uuid.Nil {
		return ErrTaskProjectIDEmpty
	}
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	return nil
}

// IsAssignedTo reports whether userID is one of the task's assignees.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	for _, a := range t.Assignees {
		if a == userID {
			return true
		}
	}
	return false
}

// ApplyStatus applies a requested status directly, translating the Archive
// pseudo-status into the IsArchived flag. Setting a real status on an
// archived task un-archives it.
func (t *Task) ApplyStatus(requested TaskStatus) error {
	if !requested.IsRequestable() {
		return ErrInvalidTaskStatus
	}

	if requested == StatusArchive {
		t.IsArchived = true
	} else {
		t.Status = requested
		if t.IsArchived {
			t.IsArchived = false
		}
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

// FlagPendingVerification marks the task as gated on the given request.
// Must be persisted in the same transaction that creates the request.
func (t *Task) FlagPendingVerification(requestID uuid.UUID) {
	t.RequiresVerification = true
	t.PendingVerificationID = &requestID
	t.UpdatedAt = time.Now().UTC()
}

// ClearPendingVerification removes the verification gate from the task.
// Must be persisted in the same transaction that decides the request.
func (t *Task) ClearPendingVerification() {
	t.RequiresVerification = false
	t.PendingVerificationID = nil
	t.UpdatedAt = time.Now().UTC()
}
