// Package activity implements the append-only audit trail of domain actions.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Recorder appends audit entries for domain actions. It is a leaf
// dependency: the gate and the ledger both record through it.
//
// Callers that have already committed their core mutation must treat a
// Record failure as non-fatal — log it, do not roll back or surface it.
type Recorder struct {
	activityStore store.ActivityStore
	logger        *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(activityStore store.ActivityStore, logger *slog.Logger) *Recorder {
	if activityStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("activityStore cannot be nil for Recorder")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		activityStore: activityStore,
		logger:        logger.With(slog.String("component", "activity_recorder")),
	}
}

// Record appends one audit entry. metadata may be nil.
func (r *Recorder) Record(
	ctx context.Context,
	userID uuid.UUID,
	action, resourceType string,
	resourceID uuid.UUID,
	description string,
	metadata map[string]any,
) (*domain.ActivityLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	var raw json.RawMessage
	if metadata != nil {
		var err error
		raw, err = json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal activity metadata: %w", err)
		}
	}

	entry, err := domain.NewActivityLogEntry(userID, action, resourceType, resourceID, description, raw)
	if err != nil {
		return nil, err
	}

	if err := r.activityStore.Create(ctx, entry); err != nil {
		log.Error("failed to record activity",
			slog.String("action", action),
			slog.String("resource_type", resourceType),
			slog.String("resource_id", resourceID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	return entry, nil
}

// RecordTask is a convenience wrapper for the common case of task-scoped
// entries.
func (r *Recorder) RecordTask(ctx context.Context, userID uuid.UUID, action string, taskID uuid.UUID, description string) {
	// Post-commit audit: failures are operational noise, not caller errors.
	if _, err := r.Record(ctx, userID, action, "Task", taskID, description, nil); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Warn("task activity entry lost",
			slog.String("action", action),
			slog.String("task_id", taskID.String()))
	}
}
