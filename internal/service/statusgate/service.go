// Package statusgate decides, per attempt, whether a task status change is
// applied immediately or routed through the verification workflow.
package statusgate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// Gate errors.
var (
	// ErrNotAMember is returned when the requester holds no role in the
	// task's project.
	ErrNotAMember = errors.New("user is not a member of the task's project")

	// ErrForbidden is returned when the requester is a member but may
	// neither apply the change nor request verification for it.
	ErrForbidden = errors.New("user may not change this task's status")
)

// Outcome is what happened to a status change attempt.
type Outcome string

const (
	// OutcomeApplied means the status change was written directly.
	OutcomeApplied Outcome = "applied"

	// OutcomePendingVerification means a verification request was opened and
	// the task is unchanged until it is decided.
	OutcomePendingVerification Outcome = "pending_verification"
)

// Result describes the effect of an AttemptStatusChange call. Task is
// populated when the change was applied; VerificationID when it was routed
// to verification.
type Result struct {
	Outcome        Outcome
	Task           *domain.Task
	VerificationID *uuid.UUID
}

// Service is the single entry point for task status changes.
type Service interface {
	// AttemptStatusChange applies or delegates a status change. Owners and
	// managers apply directly, with StatusArchive translated to the archive
	// flag. Assignees without those roles get a verification request opened
	// on their behalf, but only for an actual transition; resubmitting the
	// current status is an idempotent apply. Everyone else is refused.
	AttemptStatusChange(ctx context.Context, taskID, requesterID uuid.UUID, newStatus domain.TaskStatus) (*Result, error)
}
