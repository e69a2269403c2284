package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// This subsystem never creates or deletes tasks; it only reads them and
// mutates the status / archive / verification-gate fields.
type TaskStore interface {
	// GetByID retrieves a task by its unique ID, including its assignees.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists the task's mutable workflow fields: status, archive
	// flag, and the verification-gate pair (requires_verification,
	// pending_verification_id). Returns ErrTaskNotFound if the task does
	// not exist.
	//
	// The gate fields must be written in the same transaction that creates
	// or decides the corresponding verification request; use WithTx.
	Update(ctx context.Context, task *domain.Task) error

	// WithTx returns a TaskStore bound to the given transaction, so task
	// mutations can participate in multi-store transactions managed with
	// store.RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore
}
