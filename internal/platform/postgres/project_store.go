package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.ProjectStore = (*PostgresProjectStore)(nil)

// PostgresProjectStore implements the store.ProjectStore interface using
// PostgreSQL. Read-only: project CRUD lives outside this subsystem.
type PostgresProjectStore struct {
	db store.DBTX
}

// NewPostgresProjectStore creates a new PostgresProjectStore.
func NewPostgresProjectStore(db store.DBTX) *PostgresProjectStore {
	return &PostgresProjectStore{db: db}
}

// GetByID implements store.ProjectStore.GetByID.
func (s *PostgresProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, workspace_id, name, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.WorkspaceID,
		&project.Name,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project", "project_id", id, "error", err)
		return nil, MapError(err)
	}

	members, err := s.loadMembers(ctx, id)
	if err != nil {
		log.Error("failed to load project members", "project_id", id, "error", err)
		return nil, MapError(err)
	}
	project.Members = members

	return &project, nil
}

func (s *PostgresProjectStore) loadMembers(ctx context.Context, projectID uuid.UUID) ([]domain.Membership, error) {
	// joined_at ordering keeps approver resolution deterministic.
	query := `
		SELECT user_id, role
		FROM project_members
		WHERE project_id = $1
		ORDER BY joined_at, user_id
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.UserID, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
