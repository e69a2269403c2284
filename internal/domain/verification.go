package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VerificationRequest-specific validation errors
var (
	// ErrVerificationIDEmpty is returned when a request ID is empty or nil.
	ErrVerificationIDEmpty = errors.New("verification request ID cannot be empty")

	// ErrVerificationTaskIDEmpty is returned when the task reference is missing.
	ErrVerificationTaskIDEmpty = errors.New("verification request task ID cannot be empty")

	// ErrVerificationPartiesEmpty is returned when either party reference is missing.
	ErrVerificationPartiesEmpty = errors.New("verification request requires both requestedBy and requestedFor")

	// ErrInvalidVerificationStatus is returned when a status value is outside the closed set.
	ErrInvalidVerificationStatus = errors.New("invalid verification status")

	// ErrInvalidDecision is returned when Decide is called with an outcome
	// other than approved or rejected.
	ErrInvalidDecision = errors.New("decision outcome must be approved or rejected")

	// ErrVerificationNotPending is returned when a terminal request is decided again.
	ErrVerificationNotPending = errors.New("verification request is not pending")
)

// VerificationStatus is the state of a verification request.
// pending is the only non-terminal state; the only legal transitions are
// pending -> approved and pending -> rejected, both effected by Decide.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// IsValid reports whether s is a member of the closed status set.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s admits no further transitions.
func (s VerificationStatus) IsTerminal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// VerificationRequest is an approval record proposing a specific status
// transition on a specific task. It is written exactly twice: once at
// creation and once at decision time, after which it is immutable history.
// A pending request never expires; it stays actionable until decided.
type VerificationRequest struct {
	ID                uuid.UUID          `json:"id"`
	TaskID            uuid.UUID          `json:"task_id"`
	ProjectID         uuid.UUID          `json:"project_id"`
	WorkspaceID       uuid.UUID          `json:"workspace_id"`
	RequestedBy       uuid.UUID          `json:"requested_by"`
	RequestedFor      uuid.UUID          `json:"requested_for"`
	CurrentStatus     TaskStatus         `json:"current_status"`
	RequestedStatus   TaskStatus         `json:"requested_status"`
	Status            VerificationStatus `json:"status"`
	Reason            string             `json:"reason,omitempty"`
	VerifiedAt        *time.Time         `json:"verified_at,omitempty"`
	VerifiedBy        *uuid.UUID         `json:"verified_by,omitempty"`
	VerificationNotes string             `json:"verification_notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewVerificationRequest creates a pending request for the given task and
// parties. The approver (requestedFor) is resolved by the caller at creation
// time and fixed for the life of the request.
func NewVerificationRequest(
	task *Task,
	requestedBy, requestedFor uuid.UUID,
	requestedStatus TaskStatus,
	reason string,
) (*VerificationRequest, error) {
	now := time.Now().UTC()
	req := &VerificationRequest{
		ID:              uuid.New(),
		TaskID:          task.ID,
		ProjectID:       task.ProjectID,
		WorkspaceID:     task.WorkspaceID,
		RequestedBy:     requestedBy,
		RequestedFor:    requestedFor,
		CurrentStatus:   task.Status,
		RequestedStatus: requestedStatus,
		Status:          VerificationPending,
		Reason:          reason,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks if the VerificationRequest has valid data.
func (r *VerificationRequest) Validate() error {
	if r.ID == uuid.Nil {
		return ErrVerificationIDEmpty
	}
	if r.TaskID == uuid.Nil {
		return ErrVerificationTaskIDEmpty
	}
	if r.RequestedBy == uuid.Nil || r.RequestedFor == uuid.Nil {
		return ErrVerificationPartiesEmpty
	}
	if !r.Status.IsValid() {
		return ErrInvalidVerificationStatus
	}
	if !r.RequestedStatus.IsRequestable() {
		return ErrInvalidTaskStatus
	}
	return nil
}

// Decide moves a pending request to a terminal outcome, stamping the
// decision fields. It is the only mutation a request admits after creation.
// Returns ErrVerificationNotPending when the request is already terminal.
func (r *VerificationRequest) Decide(decidedBy uuid.UUID, outcome VerificationStatus, notes string) error {
	if outcome != VerificationApproved && outcome != VerificationRejected {
		return ErrInvalidDecision
	}
	if r.Status != VerificationPending {
		return ErrVerificationNotPending
	}

	now := time.Now().UTC()
	r.Status = outcome
	r.VerifiedAt = &now
	r.VerifiedBy = &decidedBy
	r.VerificationNotes = notes
	r.UpdatedAt = now
	return nil
}
