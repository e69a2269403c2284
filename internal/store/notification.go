package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// NotificationPage is one page of a recipient's notifications together with
// the totals a client needs to render pagination and an unread badge.
type NotificationPage struct {
	Notifications []*domain.Notification
	Total         int
	UnreadCount   int
}

// NotificationStore defines the interface for notification persistence.
// The persisted record is the durable delivery path: clients that miss a
// live push recover by querying here.
type NotificationStore interface {
	// Create inserts a new notification record.
	Create(ctx context.Context, n *domain.Notification) error

	// List returns a page of the recipient's notifications, newest first,
	// optionally scoped to a workspace. page is 1-based.
	List(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID, page, limit int) (*NotificationPage, error)

	// CountUnread returns the recipient's unread count, optionally scoped
	// to a workspace.
	CountUnread(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) (int, error)

	// MarkRead flags a single notification as read and returns the updated
	// record. Returns ErrNotificationNotFound when the notification does
	// not exist or belongs to a different recipient.
	MarkRead(ctx context.Context, id, recipient uuid.UUID) (*domain.Notification, error)

	// MarkAllRead flags all of the recipient's unread notifications as
	// read, optionally scoped to a workspace.
	MarkAllRead(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) error

	// Delete removes a notification. Returns ErrNotificationNotFound when
	// the notification does not exist or belongs to a different recipient.
	Delete(ctx context.Context, id, recipient uuid.UUID) error
}
