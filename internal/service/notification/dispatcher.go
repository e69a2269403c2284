// Package notification persists notifications and pushes them to live
// subscribers. The database row is the source of truth; the push is
// best-effort on top of it.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/realtime"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Dispatcher creates notifications and fans them out over the real-time
// layer. Reads and state changes on existing notifications pass through to
// the store with the recipient guard applied.
type Dispatcher struct {
	notificationStore store.NotificationStore
	publisher         realtime.Publisher
	logger            *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(notificationStore store.NotificationStore, publisher realtime.Publisher, logger *slog.Logger) *Dispatcher {
	if notificationStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("notificationStore cannot be nil for Dispatcher")
	}
	if publisher == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("publisher cannot be nil for Dispatcher")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		notificationStore: notificationStore,
		publisher:         publisher,
		logger:            logger.With(slog.String("component", "notification_dispatcher")),
	}
}

// CreateAndDispatch persists a notification and then pushes it to the
// recipient's personal channel and the workspace channel. A persistence
// failure is returned to the caller; a push failure is logged and absorbed,
// the recipient will see the notification on their next fetch.
func (d *Dispatcher) CreateAndDispatch(
	ctx context.Context,
	recipient, sender uuid.UUID,
	typ domain.NotificationType,
	title, message string,
	data domain.NotificationData,
	workspaceID uuid.UUID,
) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	n, err := domain.NewNotification(recipient, sender, typ, title, message, data, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid notification: %w", err)
	}

	if err := d.notificationStore.Create(ctx, n); err != nil {
		log.Error("failed to persist notification",
			slog.String("recipient", recipient.String()),
			slog.String("type", string(typ)),
			slog.String("error", err.Error()))
		return nil, err
	}

	d.push(ctx, realtime.UserChannel(recipient), realtime.EventNewNotification, n)
	d.push(ctx, realtime.WorkspaceChannel(workspaceID), realtime.EventWorkspaceNotification, n)

	return n, nil
}

// push delivers one event, swallowing transport errors. An empty channel is
// normal, not a failure.
func (d *Dispatcher) push(ctx context.Context, channel, event string, n *domain.Notification) {
	if err := d.publisher.Publish(channel, event, n); err != nil {
		if errors.Is(err, realtime.ErrNoSubscribers) {
			return
		}
		logger.FromContextOrDefault(ctx, d.logger).Warn("failed to push notification",
			slog.String("channel", channel),
			slog.String("event", event),
			slog.String("notification_id", n.ID.String()),
			slog.String("error", err.Error()))
	}
}

// List returns a page of the recipient's notifications, newest first,
// optionally scoped to one workspace.
func (d *Dispatcher) List(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID, page, limit int) (*store.NotificationPage, error) {
	return d.notificationStore.List(ctx, recipient, workspaceID, page, limit)
}

// UnreadCount returns how many of the recipient's notifications are unread.
func (d *Dispatcher) UnreadCount(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) (int, error) {
	return d.notificationStore.CountUnread(ctx, recipient, workspaceID)
}

// MarkRead marks one of the recipient's notifications read and returns the
// updated record. Acting on another user's notification yields
// store.ErrNotificationNotFound.
func (d *Dispatcher) MarkRead(ctx context.Context, id, recipient uuid.UUID) (*domain.Notification, error) {
	return d.notificationStore.MarkRead(ctx, id, recipient)
}

// MarkAllRead marks every unread notification of the recipient read,
// optionally scoped to one workspace.
func (d *Dispatcher) MarkAllRead(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) error {
	return d.notificationStore.MarkAllRead(ctx, recipient, workspaceID)
}

// Delete removes one of the recipient's notifications.
func (d *Dispatcher) Delete(ctx context.Context, id, recipient uuid.UUID) error {
	return d.notificationStore.Delete(ctx, id, recipient)
}
