package domain

import (
	"testing"

	"github.com/google/uuid"
)

func newTestTask() *Task {
	return &Task{
		ID:          uuid.New(),
		ProjectID:   uuid.New(),
		WorkspaceID: uuid.New(),
		Title:       "Implement login page",
		Status:      TaskStatusInProgress,
		CreatedBy:   uuid.New(),
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	valid := []TaskStatus{TaskStatusToDo, TaskStatusInProgress, TaskStatusTesting, TaskStatusDone}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Expected status %q to be valid", s)
		}
	}

	if StatusArchive.IsValid() {
		t.Error("Expected Archive to not be a storable status")
	}
	if !StatusArchive.IsRequestable() {
		t.Error("Expected Archive to be requestable")
	}
	if TaskStatus("Blocked").IsRequestable() {
		t.Error("Expected unknown status to not be requestable")
	}
}

func TestTaskValidate(t *testing.T) {
	task := newTestTask()
	if err := task.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	task.ID = uuid.Nil
	if err := task.Validate(); err != ErrTaskIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskIDEmpty, err)
	}

	task = newTestTask()
	task.ProjectID = uuid.Nil
	if err := task.Validate(); err != ErrTaskProjectIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskProjectIDEmpty, err)
	}

	task = newTestTask()
	task.Title = ""
	if err := task.Validate(); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	task = newTestTask()
	task.Status = StatusArchive
	if err := task.Validate(); err != ErrInvalidTaskStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskStatus, err)
	}
}

func TestTaskApplyStatus(t *testing.T) {
	task := newTestTask()

	if err := task.ApplyStatus(TaskStatusDone); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != TaskStatusDone {
		t.Errorf("Expected status %q, got %q", TaskStatusDone, task.Status)
	}
	if task.IsArchived {
		t.Error("Expected task to not be archived")
	}

	// Archiving keeps the stored status untouched
	if err := task.ApplyStatus(StatusArchive); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !task.IsArchived {
		t.Error("Expected task to be archived")
	}
	if task.Status != TaskStatusDone {
		t.Errorf("Expected status to remain %q, got %q", TaskStatusDone, task.Status)
	}

	// Applying a real status un-archives
	if err := task.ApplyStatus(TaskStatusInProgress); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.IsArchived {
		t.Error("Expected task to be un-archived after a real status change")
	}
	if task.Status != TaskStatusInProgress {
		t.Errorf("Expected status %q, got %q", TaskStatusInProgress, task.Status)
	}

	if err := task.ApplyStatus(TaskStatus("Bogus")); err != ErrInvalidTaskStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskStatus, err)
	}
}

func TestTaskVerificationGate(t *testing.T) {
	task := newTestTask()
	requestID := uuid.New()

	task.FlagPendingVerification(requestID)
	if !task.RequiresVerification {
		t.Error("Expected RequiresVerification to be true")
	}
	if task.PendingVerificationID == nil || *task.PendingVerificationID != requestID {
		t.Errorf("Expected pending verification ID %v, got %v", requestID, task.PendingVerificationID)
	}

	task.ClearPendingVerification()
	if task.RequiresVerification {
		t.Error("Expected RequiresVerification to be false")
	}
	if task.PendingVerificationID != nil {
		t.Errorf("Expected nil pending verification ID, got %v", task.PendingVerificationID)
	}
}

func TestTaskIsAssignedTo(t *testing.T) {
	task := newTestTask()
	assignee := uuid.New()
	task.Assignees = uuid.UUIDs{uuid.New(), assignee}

	if !task.IsAssignedTo(assignee) {
		t.Error("Expected user to be assigned")
	}
	if task.IsAssignedTo(uuid.New()) {
		t.Error("Expected unknown user to not be assigned")
	}
}
