package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// PostgresActivityStore implements the store.ActivityStore interface using
// PostgreSQL. The table is append-only; there are no update or delete paths.
type PostgresActivityStore struct {
	db store.DBTX
}

// NewPostgresActivityStore creates a new PostgresActivityStore.
func NewPostgresActivityStore(db store.DBTX) *PostgresActivityStore {
	return &PostgresActivityStore{db: db}
}

// Create implements store.ActivityStore.Create.
func (s *PostgresActivityStore) Create(ctx context.Context, entry *domain.ActivityLogEntry) error {
	log := logger.FromContext(ctx)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	metadata := entry.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO activity_log (
			id, user_id, action, resource_type, resource_id,
			description, metadata, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Description,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to record activity",
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
			"error", err)
		return fmt.Errorf("failed to record activity: %w", MapError(err))
	}

	return nil
}

// ListByResource implements store.ActivityStore.ListByResource.
func (s *PostgresActivityStore) ListByResource(
	ctx context.Context,
	resourceType string,
	resourceID uuid.UUID,
	limit int,
) ([]*domain.ActivityLogEntry, error) {
	log := logger.FromContext(ctx)

	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, user_id, action, resource_type, resource_id,
		       description, metadata, created_at
		FROM activity_log
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, resourceType, resourceID, limit)
	if err != nil {
		log.Error("failed to list activity",
			"resource_type", resourceType, "resource_id", resourceID, "error", err)
		return nil, MapError(err)
	}
	defer rows.Close()

	var entries []*domain.ActivityLogEntry
	for rows.Next() {
		var e domain.ActivityLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Action,
			&e.ResourceType,
			&e.ResourceID,
			&e.Description,
			&e.Metadata,
			&e.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
