package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.VerificationStore = (*PostgresVerificationStore)(nil)

// PostgresVerificationStore implements the store.VerificationStore interface
// using PostgreSQL.
//
// The single-pending-per-task invariant is enforced by the partial unique
// index verifications_task_pending_uniq (task_id WHERE status = 'pending'),
// so two concurrent Create calls for the same task cannot both succeed no
// matter how the application-level checks interleave.
type PostgresVerificationStore struct {
	db store.DBTX
}

// NewPostgresVerificationStore creates a new PostgresVerificationStore.
func NewPostgresVerificationStore(db store.DBTX) *PostgresVerificationStore {
	return &PostgresVerificationStore{db: db}
}

// WithTx implements store.VerificationStore.WithTx.
func (s *PostgresVerificationStore) WithTx(tx *sql.Tx) store.VerificationStore {
	return &PostgresVerificationStore{db: tx}
}

const verificationColumns = `
	id, task_id, project_id, workspace_id, requested_by, requested_for,
	current_status, requested_status, status, reason,
	verified_at, verified_by, verification_notes, created_at, updated_at
`

// Create implements store.VerificationStore.Create.
func (s *PostgresVerificationStore) Create(ctx context.Context, req *domain.VerificationRequest) error {
	log := logger.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO verifications (
			id, task_id, project_id, workspace_id, requested_by, requested_for,
			current_status, requested_status, status, reason, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.db.ExecContext(ctx, query,
		req.ID,
		req.TaskID,
		req.ProjectID,
		req.WorkspaceID,
		req.RequestedBy,
		req.RequestedFor,
		req.CurrentStatus,
		req.RequestedStatus,
		req.Status,
		req.Reason,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrPendingVerificationExists) {
			log.Debug("pending verification already exists", "task_id", req.TaskID)
			return mapped
		}
		log.Error("failed to create verification request",
			"task_id", req.TaskID, "error", err)
		return fmt.Errorf("failed to create verification request: %w", mapped)
	}

	return nil
}

// GetByID implements store.VerificationStore.GetByID.
func (s *PostgresVerificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`

	req, err := scanVerification(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVerificationNotFound
		}
		return nil, MapError(err)
	}
	return req, nil
}

// FindPendingByTask implements store.VerificationStore.FindPendingByTask.
func (s *PostgresVerificationStore) FindPendingByTask(ctx context.Context, taskID uuid.UUID) (*domain.VerificationRequest, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE task_id = $1 AND status = 'pending'`

	req, err := scanVerification(s.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVerificationNotFound
		}
		return nil, MapError(err)
	}
	return req, nil
}

// UpdateDecision implements store.VerificationStore.UpdateDecision.
// The status = 'pending' guard makes the decision a single-shot write: the
// losing side of a decide race affects zero rows and gets
// store.ErrVerificationNotPending.
func (s *PostgresVerificationStore) UpdateDecision(ctx context.Context, req *domain.VerificationRequest) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE verifications
		SET status = $1,
		    verified_at = $2,
		    verified_by = $3,
		    verification_notes = $4,
		    updated_at = $5
		WHERE id = $6 AND status = 'pending'
	`

	result, err := s.db.ExecContext(ctx, query,
		req.Status,
		req.VerifiedAt,
		req.VerifiedBy,
		req.VerificationNotes,
		req.UpdatedAt,
		req.ID,
	)
	if err != nil {
		log.Error("failed to update verification decision",
			"verification_id", req.ID, "error", err)
		return fmt.Errorf("failed to update verification decision: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrVerificationNotPending)
}

// ListByApprover implements store.VerificationStore.ListByApprover.
func (s *PostgresVerificationStore) ListByApprover(
	ctx context.Context,
	approverID uuid.UUID,
	status domain.VerificationStatus,
) ([]*domain.VerificationRequest, error) {
	return s.listByParty(ctx, "requested_for", approverID, status)
}

// ListByRequester implements store.VerificationStore.ListByRequester.
func (s *PostgresVerificationStore) ListByRequester(
	ctx context.Context,
	requesterID uuid.UUID,
	status domain.VerificationStatus,
) ([]*domain.VerificationRequest, error) {
	return s.listByParty(ctx, "requested_by", requesterID, status)
}

// listByParty is the shared projection behind both list methods. column is
// one of the two fixed party columns, never caller input.
func (s *PostgresVerificationStore) listByParty(
	ctx context.Context,
	column string,
	userID uuid.UUID,
	status domain.VerificationStatus,
) ([]*domain.VerificationRequest, error) {
	log := logger.FromContext(ctx)

	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE ` + column + ` = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list verification requests",
			"party_column", column, "user_id", userID, "error", err)
		return nil, MapError(err)
	}
	defer rows.Close()

	var reqs []*domain.VerificationRequest
	for rows.Next() {
		req, err := scanVerification(rows)
		if err != nil {
			return nil, MapError(err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// CountByStatus implements store.VerificationStore.CountByStatus.
func (s *PostgresVerificationStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.VerificationStatus]int, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT status, COUNT(*)
		FROM verifications
		WHERE requested_by = $1 OR requested_for = $1
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to count verifications", "user_id", userID, "error", err)
		return nil, MapError(err)
	}
	defer rows.Close()

	counts := make(map[domain.VerificationStatus]int)
	for rows.Next() {
		var status domain.VerificationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, MapError(err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanVerification reads one row. reason and verification_notes are NOT NULL
// with an empty-string default, so they bind and scan as plain strings; only
// the decision columns are nullable.
func scanVerification(row rowScanner) (*domain.VerificationRequest, error) {
	var req domain.VerificationRequest
	var verifiedAt sql.NullTime
	var verifiedBy uuid.NullUUID

	err := row.Scan(
		&req.ID,
		&req.TaskID,
		&req.ProjectID,
		&req.WorkspaceID,
		&req.RequestedBy,
		&req.RequestedFor,
		&req.CurrentStatus,
		&req.RequestedStatus,
		&req.Status,
		&req.Reason,
		&verifiedAt,
		&verifiedBy,
		&req.VerificationNotes,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if verifiedAt.Valid {
		req.VerifiedAt = &verifiedAt.Time
	}
	if verifiedBy.Valid {
		req.VerifiedBy = &verifiedBy.UUID
	}
	return &req, nil
}
