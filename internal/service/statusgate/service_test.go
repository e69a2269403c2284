package statusgate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/activity"
	"github.com/taskhive/taskhive-api/internal/service/notification"
	"github.com/taskhive/taskhive-api/internal/store"
)

type gateEnv struct {
	gate       Service
	tasks      *fakeTaskStore
	verifs     *fakeVerificationService
	notifs     *fakeNotificationStore
	activities *fakeActivityStore

	owner       uuid.UUID
	manager     uuid.UUID
	contributor uuid.UUID
	viewer      uuid.UUID
	task        *domain.Task
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &gateEnv{
		owner:       uuid.New(),
		manager:     uuid.New(),
		contributor: uuid.New(),
		viewer:      uuid.New(),
		verifs:      &fakeVerificationService{},
		notifs:      &fakeNotificationStore{},
		activities:  &fakeActivityStore{},
	}

	project := &domain.Project{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		Name:        "Website Redesign",
		Members: []domain.Membership{
			{UserID: env.owner, Role: domain.RoleOwner},
			{UserID: env.manager, Role: domain.RoleManager},
			{UserID: env.contributor, Role: domain.RoleContributor},
			{UserID: env.viewer, Role: domain.RoleViewer},
		},
	}
	env.task = &domain.Task{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		WorkspaceID: project.WorkspaceID,
		Title:       "Implement login page",
		Status:      domain.TaskStatusInProgress,
		Assignees:   uuid.UUIDs{env.contributor, env.manager},
		CreatedBy:   env.owner,
	}
	env.tasks = newFakeTaskStore(env.task)

	env.gate = NewService(
		env.tasks,
		newFakeProjectStore(project),
		env.verifs,
		notification.NewDispatcher(env.notifs, &fakePublisher{}, logger),
		activity.NewRecorder(env.activities, logger),
		logger,
	)
	return env
}

func TestAttemptStatusChange(t *testing.T) {
	ctx := context.Background()

	t.Run("owner applies directly", func(t *testing.T) {
		env := newGateEnv(t)

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.owner, domain.TaskStatusDone)
		require.NoError(t, err)

		assert.Equal(t, OutcomeApplied, result.Outcome)
		require.NotNil(t, result.Task)
		assert.Equal(t, domain.TaskStatusDone, result.Task.Status)
		assert.Nil(t, result.VerificationID)
		assert.Empty(t, env.verifs.opened)

		// Activity entry and assignee notifications follow the apply
		require.Len(t, env.activities.entries, 1)
		assert.Equal(t, "changed_status", env.activities.entries[0].Action)
		assert.Len(t, env.notifs.byRecipient(env.contributor), 1)
		assert.Len(t, env.notifs.byRecipient(env.manager), 1)
		// The actor is not notified about their own change
		assert.Empty(t, env.notifs.byRecipient(env.owner))
	})

	t.Run("manager applies directly", func(t *testing.T) {
		env := newGateEnv(t)

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.manager, domain.TaskStatusTesting)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, result.Outcome)
	})

	t.Run("archive request sets the flag and keeps the status", func(t *testing.T) {
		env := newGateEnv(t)

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.owner, domain.StatusArchive)
		require.NoError(t, err)

		assert.Equal(t, OutcomeApplied, result.Outcome)
		assert.True(t, result.Task.IsArchived)
		assert.Equal(t, domain.TaskStatusInProgress, result.Task.Status)

		require.Len(t, env.activities.entries, 1)
		assert.Equal(t, "archived_task", env.activities.entries[0].Action)
	})

	t.Run("applying a real status un-archives", func(t *testing.T) {
		env := newGateEnv(t)
		env.task.IsArchived = true

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.owner, domain.TaskStatusToDo)
		require.NoError(t, err)
		assert.False(t, result.Task.IsArchived)
		assert.Equal(t, domain.TaskStatusToDo, result.Task.Status)
	})

	t.Run("setting the current status again is an idempotent apply", func(t *testing.T) {
		env := newGateEnv(t)

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.owner, env.task.Status)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, result.Outcome)
		assert.Equal(t, 1, env.tasks.updates)
	})

	t.Run("assignee resubmitting the current status applies without a request", func(t *testing.T) {
		env := newGateEnv(t)

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.contributor, domain.TaskStatusInProgress)
		require.NoError(t, err)

		assert.Equal(t, OutcomeApplied, result.Outcome)
		assert.Equal(t, domain.TaskStatusInProgress, result.Task.Status)
		assert.Empty(t, env.verifs.opened)
	})

	t.Run("assigned contributor is routed to verification", func(t *testing.T) {
		env := newGateEnv(t)

		result, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.contributor, domain.TaskStatusDone)
		require.NoError(t, err)

		assert.Equal(t, OutcomePendingVerification, result.Outcome)
		assert.Nil(t, result.Task)
		require.NotNil(t, result.VerificationID)

		require.Len(t, env.verifs.opened, 1)
		call := env.verifs.opened[0]
		assert.Equal(t, env.task.ID, call.TaskID)
		assert.Equal(t, env.contributor, call.RequesterID)
		assert.Equal(t, domain.TaskStatusDone, call.RequestedStatus)

		// The task itself was not written by the gate
		assert.Equal(t, 0, env.tasks.updates)
	})

	t.Run("pending conflict from the ledger passes through", func(t *testing.T) {
		env := newGateEnv(t)
		env.verifs.openErr = store.ErrPendingVerificationExists

		_, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.contributor, domain.TaskStatusDone)
		assert.ErrorIs(t, err, store.ErrPendingVerificationExists)
	})

	t.Run("unassigned viewer is refused", func(t *testing.T) {
		env := newGateEnv(t)

		_, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.viewer, domain.TaskStatusDone)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("non-member is refused", func(t *testing.T) {
		env := newGateEnv(t)

		_, err := env.gate.AttemptStatusChange(ctx, env.task.ID, uuid.New(), domain.TaskStatusDone)
		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("unknown task", func(t *testing.T) {
		env := newGateEnv(t)

		_, err := env.gate.AttemptStatusChange(ctx, uuid.New(), env.owner, domain.TaskStatusDone)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		env := newGateEnv(t)

		_, err := env.gate.AttemptStatusChange(ctx, env.task.ID, env.owner, domain.TaskStatus("Bogus"))
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})
}
