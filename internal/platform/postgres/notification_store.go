package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// PostgresNotificationStore implements the store.NotificationStore interface
// using PostgreSQL. The data payload is stored as JSONB.
type PostgresNotificationStore struct {
	db store.DBTX
}

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db store.DBTX) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db}
}

// Create implements store.NotificationStore.Create.
func (s *PostgresNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.FromContext(ctx)

	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (
			id, recipient, sender, type, title, message, data,
			is_read, read_at, workspace_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.db.ExecContext(ctx, query,
		n.ID,
		n.Recipient,
		n.Sender,
		n.Type,
		n.Title,
		n.Message,
		data,
		n.IsRead,
		n.ReadAt,
		n.WorkspaceID,
		n.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create notification",
			"recipient", n.Recipient, "type", n.Type, "error", err)
		return fmt.Errorf("failed to create notification: %w", MapError(err))
	}

	return nil
}

const notificationColumns = `
	id, recipient, sender, type, title, message, data,
	is_read, read_at, workspace_id, created_at
`

// List implements store.NotificationStore.List.
func (s *PostgresNotificationStore) List(
	ctx context.Context,
	recipient uuid.UUID,
	workspaceID *uuid.UUID,
	page, limit int,
) (*store.NotificationPage, error) {
	log := logger.FromContext(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	where := ` WHERE recipient = $1`
	args := []any{recipient}
	if workspaceID != nil {
		where += ` AND workspace_id = $2`
		args = append(args, *workspaceID)
	}

	var total, unread int
	countQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read)
		FROM notifications` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total, &unread); err != nil {
		log.Error("failed to count notifications", "recipient", recipient, "error", err)
		return nil, MapError(err)
	}

	pageArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf(
		`SELECT %s FROM notifications%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		notificationColumns, where, len(args)+1, len(args)+2,
	)

	rows, err := s.db.QueryContext(ctx, listQuery, pageArgs...)
	if err != nil {
		log.Error("failed to list notifications", "recipient", recipient, "error", err)
		return nil, MapError(err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, MapError(err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return &store.NotificationPage{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

// CountUnread implements store.NotificationStore.CountUnread.
func (s *PostgresNotificationStore) CountUnread(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient = $1 AND NOT is_read`
	args := []any{recipient}
	if workspaceID != nil {
		query += ` AND workspace_id = $2`
		args = append(args, *workspaceID)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// MarkRead implements store.NotificationStore.MarkRead. The recipient guard
// keeps one user from touching another's notifications.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id, recipient uuid.UUID) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE id = $2 AND recipient = $3
		RETURNING ` + notificationColumns

	n, err := scanNotification(s.db.QueryRowContext(ctx, query, time.Now().UTC(), id, recipient))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, MapError(err)
	}
	return n, nil
}

// MarkAllRead implements store.NotificationStore.MarkAllRead.
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE recipient = $2 AND NOT is_read
	`
	args := []any{time.Now().UTC(), recipient}
	if workspaceID != nil {
		query += ` AND workspace_id = $3`
		args = append(args, *workspaceID)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", MapError(err))
	}
	return nil
}

// Delete implements store.NotificationStore.Delete.
func (s *PostgresNotificationStore) Delete(ctx context.Context, id, recipient uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1 AND recipient = $2`

	result, err := s.db.ExecContext(ctx, query, id, recipient)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrNotificationNotFound)
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var data []byte
	var readAt sql.NullTime

	err := row.Scan(
		&n.ID,
		&n.Recipient,
		&n.Sender,
		&n.Type,
		&n.Title,
		&n.Message,
		&data,
		&n.IsRead,
		&readAt,
		&n.WorkspaceID,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	return &n, nil
}
