package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrTaskNotFound, ErrVerificationNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrProjectNotFound indicates that the requested project does not exist in the store.
	ErrProjectNotFound = fmt.Errorf("%w: project", ErrNotFound)

	// ErrVerificationNotFound indicates that the requested verification request
	// does not exist in the store.
	ErrVerificationNotFound = fmt.Errorf("%w: verification request", ErrNotFound)

	// ErrNotificationNotFound indicates that the requested notification does not
	// exist in the store, or does not belong to the querying recipient.
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrPendingVerificationExists indicates that a task already has a pending
	// verification request. This is the storage-level enforcement of the
	// single-pending-per-task invariant: the verifications table carries a
	// unique index scoped to (task_id) WHERE status = 'pending', and a unique
	// violation on insert is translated to this error.
	ErrPendingVerificationExists = fmt.Errorf("%w: pending verification for task", ErrDuplicate)

	// ErrVerificationNotPending is returned by UpdateDecision when the guarded
	// update matches no row: the request is gone or was already decided by a
	// concurrent caller. The decision is persisted at most once.
	ErrVerificationNotPending = errors.New("verification request is not pending")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
