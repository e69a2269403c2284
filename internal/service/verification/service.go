// Package verification implements the approval workflow for gated task
// status changes: opening requests, routing them to an approver, and
// applying decisions.
package verification

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// ListRole selects which side of a request a listing is scoped to.
type ListRole string

const (
	// ListRoleApprover lists requests routed to the user for decision.
	ListRoleApprover ListRole = "approver"

	// ListRoleRequester lists requests the user opened.
	ListRoleRequester ListRole = "requester"
)

// Stats summarizes the verification requests a user is party to, on either
// side.
type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// DecisionResult carries the outcome of Decide: the terminal request and the
// task as it stands after the decision was applied.
type DecisionResult struct {
	Request *domain.VerificationRequest
	Task    *domain.Task
}

// Service defines the verification workflow operations.
type Service interface {
	// OpenRequest creates a pending verification request for a status change
	// on the task, flags the task as gated, and notifies the resolved
	// approver. The requester must be a project member and, unless they hold
	// owner or manager, an assignee of the task. At most one pending request
	// can exist per task; a second attempt returns
	// store.ErrPendingVerificationExists.
	OpenRequest(ctx context.Context, taskID, requesterID uuid.UUID, requestedStatus domain.TaskStatus, reason string) (*domain.VerificationRequest, error)

	// Decide applies a terminal outcome to a pending request. Approval also
	// applies the requested status to the task; both outcomes clear the
	// task's gate. Only the member the request was routed to may decide.
	// Deciding a terminal request returns ErrAlreadyDecided.
	Decide(ctx context.Context, requestID, deciderID uuid.UUID, outcome domain.VerificationStatus, notes string) (*DecisionResult, error)

	// GetByID returns a single request. The caller must be a party to it or
	// hold owner or manager in its project.
	GetByID(ctx context.Context, requestID, userID uuid.UUID) (*domain.VerificationRequest, error)

	// ListForUser returns the user's requests on the given side, newest
	// first, optionally narrowed to one status.
	ListForUser(ctx context.Context, userID uuid.UUID, role ListRole, status domain.VerificationStatus) ([]*domain.VerificationRequest, error)

	// StatsForUser returns per-status counts over all requests the user is a
	// party to.
	StatsForUser(ctx context.Context, userID uuid.UUID) (*Stats, error)
}
