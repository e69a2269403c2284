package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// ActivityStore defines the interface for the append-only activity log.
// Entries are never updated or deleted.
type ActivityStore interface {
	// Create appends an activity entry.
	Create(ctx context.Context, entry *domain.ActivityLogEntry) error

	// ListByResource returns the newest entries for a resource, up to limit.
	ListByResource(ctx context.Context, resourceType string, resourceID uuid.UUID, limit int) ([]*domain.ActivityLogEntry, error)
}
