package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// VerificationStore defines the interface for verification request persistence.
type VerificationStore interface {
	// Create inserts a new pending verification request.
	//
	// The single-pending-per-task invariant is enforced here, not in
	// application code: the backing table has a unique index scoped to
	// (task_id) WHERE status = 'pending', and a conflicting insert returns
	// ErrPendingVerificationExists. Callers treat any prior existence check
	// as a fast path only.
	//
	// Must run in the same transaction that flags the task; use WithTx.
	Create(ctx context.Context, req *domain.VerificationRequest) error

	// GetByID retrieves a verification request by its unique ID.
	// Returns ErrVerificationNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error)

	// FindPendingByTask returns the task's pending request, if any.
	// Returns ErrVerificationNotFound when the task has no pending request.
	FindPendingByTask(ctx context.Context, taskID uuid.UUID) (*domain.VerificationRequest, error)

	// UpdateDecision persists a decided request's terminal fields (status,
	// verified_at, verified_by, verification_notes). The update is guarded
	// by status = 'pending' in the WHERE clause, so a request is decided at
	// most once; if the guard matches no row, ErrVerificationNotPending is
	// returned and nothing is written.
	//
	// Must run in the same transaction that clears the task's gate fields;
	// use WithTx.
	UpdateDecision(ctx context.Context, req *domain.VerificationRequest) error

	// ListByApprover returns requests routed to the given approver, newest
	// first. A non-empty status narrows the result.
	ListByApprover(ctx context.Context, approverID uuid.UUID, status domain.VerificationStatus) ([]*domain.VerificationRequest, error)

	// ListByRequester returns requests opened by the given user, newest
	// first. A non-empty status narrows the result.
	ListByRequester(ctx context.Context, requesterID uuid.UUID, status domain.VerificationStatus) ([]*domain.VerificationRequest, error)

	// CountByStatus returns per-status counts over all requests where the
	// user is either the requester or the approver.
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.VerificationStatus]int, error)

	// WithTx returns a VerificationStore bound to the given transaction.
	WithTx(tx *sql.Tx) VerificationStore
}
