package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityLogEntry-specific validation errors
var (
	// ErrActivityUserEmpty is returned when the acting user is missing.
	ErrActivityUserEmpty = errors.New("activity user cannot be empty")

	// ErrActivityActionEmpty is returned when the action verb is missing.
	ErrActivityActionEmpty = errors.New("activity action cannot be empty")

	// ErrActivityResourceEmpty is returned when the resource reference is incomplete.
	ErrActivityResourceEmpty = errors.New("activity resource type and ID are required")
)

// ActivityLogEntry is an immutable audit record of a domain action.
// Entries are append-only: never mutated or deleted by this subsystem.
type ActivityLogEntry struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   uuid.UUID       `json:"resource_id"`
	Description  string          `json:"description"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewActivityLogEntry creates an audit entry. When description is empty it
// falls back to "<action> <resourceType>".
func NewActivityLogEntry(
	userID uuid.UUID,
	action, resourceType string,
	resourceID uuid.UUID,
	description string,
	metadata json.RawMessage,
) (*ActivityLogEntry, error) {
	if description == "" {
		description = action + " " + resourceType
	}

	entry := &ActivityLogEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks if the ActivityLogEntry has valid data.
func (e *ActivityLogEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrActivityUserEmpty
	}
	if e.Action == "" {
		return ErrActivityActionEmpty
	}
	if e.ResourceType == "" || e.ResourceID == uuid.Nil {
		return ErrActivityResourceEmpty
	}
	return nil
}
