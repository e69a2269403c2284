package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// ProjectStore defines the read-only project access this subsystem needs.
// Project CRUD belongs to the excluded collaborator surface; the gate and
// the ledger only resolve membership roles from it.
type ProjectStore interface {
	// GetByID retrieves a project by its unique ID, with its full
	// membership list populated. Returns ErrProjectNotFound if the project
	// does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
}
