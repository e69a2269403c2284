package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notification-specific validation errors
var (
	// ErrNotificationIDEmpty is returned when a notification ID is empty or nil.
	ErrNotificationIDEmpty = errors.New("notification ID cannot be empty")

	// ErrNotificationRecipientEmpty is returned when the recipient is missing.
	ErrNotificationRecipientEmpty = errors.New("notification recipient cannot be empty")

	// ErrNotificationTitleEmpty is returned when title or message is empty.
	ErrNotificationTitleEmpty = errors.New("notification title and message cannot be empty")

	// ErrInvalidNotificationType is returned for a type outside the closed set.
	ErrInvalidNotificationType = errors.New("invalid notification type")

	// ErrNotificationDataEmpty is returned when the deep-link payload carries
	// no reference at all. Every producing event populates at least one ID.
	ErrNotificationDataEmpty = errors.New("notification data must reference at least one resource")
)

// NotificationType is the closed set of domain events a notification can
// describe.
type NotificationType string

const (
	NotificationTaskAssigned          NotificationType = "task_assigned"
	NotificationTaskUpdated           NotificationType = "task_updated"
	NotificationTaskCommented         NotificationType = "task_commented"
	NotificationTaskStatusChanged     NotificationType = "task_status_changed"
	NotificationProjectCreated        NotificationType = "project_created"
	NotificationWorkspaceInvite       NotificationType = "workspace_invite"
	NotificationMention               NotificationType = "mention"
	NotificationVerificationRequested NotificationType = "verification_requested"
	NotificationVerificationApproved  NotificationType = "verification_approved"
	NotificationVerificationRejected  NotificationType = "verification_rejected"
)

// IsValid reports whether t is a member of the closed type set.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTaskAssigned, NotificationTaskUpdated,
		NotificationTaskCommented, NotificationTaskStatusChanged,
		NotificationProjectCreated, NotificationWorkspaceInvite,
		NotificationMention, NotificationVerificationRequested,
		NotificationVerificationApproved, NotificationVerificationRejected:
		return true
	default:
		return false
	}
}

// NotificationData carries the identifiers a client needs to deep-link from
// a notification to the resource it describes. All fields are optional but
// at least one is populated by every producing event.
type NotificationData struct {
	TaskID         *uuid.UUID `json:"task_id,omitempty"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	WorkspaceID    *uuid.UUID `json:"workspace_id,omitempty"`
	CommentID      *uuid.UUID `json:"comment_id,omitempty"`
	VerificationID *uuid.UUID `json:"verification_id,omitempty"`
}

// IsEmpty reports whether no reference is populated.
func (d NotificationData) IsEmpty() bool {
	return d.TaskID == nil && d.ProjectID == nil && d.WorkspaceID == nil &&
		d.CommentID == nil && d.VerificationID == nil
}

// Notification is a durable, user-addressed record of a domain event. The
// persisted record is the source of truth; live push on top of it is
// best-effort.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	Recipient   uuid.UUID        `json:"recipient"`
	Sender      uuid.UUID        `json:"sender"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        NotificationData `json:"data"`
	IsRead      bool             `json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	WorkspaceID uuid.UUID        `json:"workspace_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewNotification creates an unread notification for the given recipient.
func NewNotification(
	recipient, sender uuid.UUID,
	typ NotificationType,
	title, message string,
	data NotificationData,
	workspaceID uuid.UUID,
) (*Notification, error) {
	n := &Notification{
		ID:          uuid.New(),
		Recipient:   recipient,
		Sender:      sender,
		Type:        typ,
		Title:       title,
		Message:     message,
		Data:        data,
		WorkspaceID: workspaceID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNotificationIDEmpty
	}
	if n.Recipient == uuid.Nil {
		return ErrNotificationRecipientEmpty
	}
	if !n.Type.IsValid() {
		return ErrInvalidNotificationType
	}
	if n.Title == "" || n.Message == "" {
		return ErrNotificationTitleEmpty
	}
	if n.Data.IsEmpty() {
		return ErrNotificationDataEmpty
	}
	return nil
}

// MarkRead flags the notification as read, stamping ReadAt once.
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now().UTC()
	n.IsRead = true
	n.ReadAt = &now
}
