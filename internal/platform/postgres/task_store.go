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
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, project_id, workspace_id, title, status, is_archived,
		       requires_verification, pending_verification_id,
		       created_by, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	var pendingID uuid.NullUUID
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.ProjectID,
		&task.WorkspaceID,
		&task.Title,
		&task.Status,
		&task.IsArchived,
		&task.RequiresVerification,
		&pendingID,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", "task_id", id, "error", err)
		return nil, MapError(err)
	}
	if pendingID.Valid {
		task.PendingVerificationID = &pendingID.UUID
	}

	assignees, err := s.loadAssignees(ctx, id)
	if err != nil {
		log.Error("failed to load task assignees", "task_id", id, "error", err)
		return nil, MapError(err)
	}
	task.Assignees = assignees

	return &task, nil
}

// Update implements store.TaskStore.Update. Only the workflow fields this
// subsystem owns are written.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1,
		    is_archived = $2,
		    requires_verification = $3,
		    pending_verification_id = $4,
		    updated_at = $5
		WHERE id = $6
	`

	var pendingID uuid.NullUUID
	if task.PendingVerificationID != nil {
		pendingID = uuid.NullUUID{UUID: *task.PendingVerificationID, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, query,
		task.Status,
		task.IsArchived,
		task.RequiresVerification,
		pendingID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", "task_id", task.ID, "error", err)
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

func (s *PostgresTaskStore) loadAssignees(ctx context.Context, taskID uuid.UUID) (uuid.UUIDs, error) {
	query := `
		SELECT user_id
		FROM task_assignees
		WHERE task_id = $1
		ORDER BY user_id
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignees uuid.UUIDs
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		assignees = append(assignees, userID)
	}
	return assignees, rows.Err()
}
