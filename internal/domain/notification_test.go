package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewNotification(t *testing.T) {
	recipient := uuid.New()
	sender := uuid.New()
	workspaceID := uuid.New()
	taskID := uuid.New()
	data := NotificationData{TaskID: &taskID}

	n, err := NewNotification(recipient, sender, NotificationVerificationRequested,
		"Verification requested", "A status change needs your approval", data, workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if n.ID == uuid.Nil {
		t.Error("Expected non-nil notification ID")
	}
	if n.IsRead {
		t.Error("Expected new notification to be unread")
	}
	if n.ReadAt != nil {
		t.Error("Expected ReadAt to be unset")
	}
	if n.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Invalid type
	_, err = NewNotification(recipient, sender, NotificationType("spam"), "t", "m", data, workspaceID)
	if err != ErrInvalidNotificationType {
		t.Errorf("Expected error %v, got %v", ErrInvalidNotificationType, err)
	}

	// Missing recipient
	_, err = NewNotification(uuid.Nil, sender, NotificationTaskUpdated, "t", "m", data, workspaceID)
	if err != ErrNotificationRecipientEmpty {
		t.Errorf("Expected error %v, got %v", ErrNotificationRecipientEmpty, err)
	}

	// Empty title
	_, err = NewNotification(recipient, sender, NotificationTaskUpdated, "", "m", data, workspaceID)
	if err != ErrNotificationTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrNotificationTitleEmpty, err)
	}

	// Empty deep-link payload
	_, err = NewNotification(recipient, sender, NotificationTaskUpdated, "t", "m", NotificationData{}, workspaceID)
	if err != ErrNotificationDataEmpty {
		t.Errorf("Expected error %v, got %v", ErrNotificationDataEmpty, err)
	}
}

func TestNotificationMarkRead(t *testing.T) {
	taskID := uuid.New()
	n, err := NewNotification(uuid.New(), uuid.New(), NotificationTaskStatusChanged,
		"Task status changed", "Task moved to Done", NotificationData{TaskID: &taskID}, uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	n.MarkRead()
	if !n.IsRead {
		t.Error("Expected notification to be read")
	}
	if n.ReadAt == nil {
		t.Fatal("Expected ReadAt to be stamped")
	}

	// ReadAt is stamped once
	first := *n.ReadAt
	n.MarkRead()
	if !n.ReadAt.Equal(first) {
		t.Error("Expected ReadAt to be unchanged on repeated MarkRead")
	}
}
