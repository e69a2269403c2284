package statusgate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/activity"
	"github.com/taskhive/taskhive-api/internal/service/notification"
	"github.com/taskhive/taskhive-api/internal/service/verification"
	"github.com/taskhive/taskhive-api/internal/store"
)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	taskStore     store.TaskStore
	projectStore  store.ProjectStore
	verifications verification.Service
	dispatcher    *notification.Dispatcher
	recorder      *activity.Recorder
	logger        *slog.Logger
}

// Ensure serviceImpl implements the Service interface
var _ Service = (*serviceImpl)(nil)

// NewService creates a new status gate service.
func NewService(
	taskStore store.TaskStore,
	projectStore store.ProjectStore,
	verifications verification.Service,
	dispatcher *notification.Dispatcher,
	recorder *activity.Recorder,
	logger *slog.Logger,
) Service {
	if taskStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskStore cannot be nil for status gate service")
	}
	if projectStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("projectStore cannot be nil for status gate service")
	}
	if verifications == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("verifications cannot be nil for status gate service")
	}
	if dispatcher == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dispatcher cannot be nil for status gate service")
	}
	if recorder == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("recorder cannot be nil for status gate service")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		taskStore:     taskStore,
		projectStore:  projectStore,
		verifications: verifications,
		dispatcher:    dispatcher,
		recorder:      recorder,
		logger:        logger.With(slog.String("component", "status_gate")),
	}
}

// AttemptStatusChange implements Service.AttemptStatusChange.
func (s *serviceImpl) AttemptStatusChange(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	newStatus domain.TaskStatus,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !newStatus.IsRequestable() {
		return nil, domain.ErrInvalidTaskStatus
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectStore.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	role := project.RoleOf(requesterID)
	if role == domain.RoleNone {
		return nil, ErrNotAMember
	}

	if role.CanBypassVerification() {
		return s.applyDirectly(ctx, task, requesterID, newStatus)
	}

	if !task.IsAssignedTo(requesterID) {
		log.Info("status change refused",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", requesterID.String()),
			slog.String("role", string(role)))
		return nil, ErrForbidden
	}

	// Resubmitting the current status is not a transition; no approval
	// round trip for a no-op.
	if newStatus == task.Status {
		return s.applyDirectly(ctx, task, requesterID, newStatus)
	}

	req, err := s.verifications.OpenRequest(ctx, taskID, requesterID, newStatus, "")
	if err != nil {
		return nil, err
	}

	return &Result{
		Outcome:        OutcomePendingVerification,
		VerificationID: &req.ID,
	}, nil
}

// applyDirectly writes the change without a verification round trip. Setting
// the current status again is an idempotent apply, not an error.
func (s *serviceImpl) applyDirectly(
	ctx context.Context,
	task *domain.Task,
	requesterID uuid.UUID,
	newStatus domain.TaskStatus,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	previous := task.Status
	if err := task.ApplyStatus(newStatus); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		log.Error("failed to apply status change",
			slog.String("task_id", task.ID.String()),
			slog.String("new_status", string(newStatus)),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("status change applied",
		slog.String("task_id", task.ID.String()),
		slog.String("previous_status", string(previous)),
		slog.String("new_status", string(newStatus)),
		slog.String("user_id", requesterID.String()))

	action := "changed_status"
	description := fmt.Sprintf("changed task status from %q to %q", previous, newStatus)
	if newStatus == domain.StatusArchive {
		action = "archived_task"
		description = "archived task"
	}
	s.recorder.RecordTask(ctx, requesterID, action, task.ID, description)

	s.notifyAssignees(ctx, task, requesterID, previous)

	return &Result{Outcome: OutcomeApplied, Task: task}, nil
}

// notifyAssignees tells everyone assigned to the task, except the actor,
// that its status moved. Post-commit, best-effort.
func (s *serviceImpl) notifyAssignees(ctx context.Context, task *domain.Task, actorID uuid.UUID, previous domain.TaskStatus) {
	data := domain.NotificationData{
		TaskID:    &task.ID,
		ProjectID: &task.ProjectID,
	}
	message := fmt.Sprintf("Task %q moved from %q to %q", task.Title, previous, task.Status)
	if task.IsArchived {
		message = fmt.Sprintf("Task %q was archived", task.Title)
	}

	for _, assignee := range task.Assignees {
		if assignee == actorID {
			continue
		}
		_, err := s.dispatcher.CreateAndDispatch(ctx,
			assignee,
			actorID,
			domain.NotificationTaskStatusChanged,
			"Task status changed",
			message,
			data,
			task.WorkspaceID,
		)
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Warn("assignee notification lost",
				slog.String("task_id", task.ID.String()),
				slog.String("assignee", assignee.String()),
				slog.String("error", err.Error()))
		}
	}
}
