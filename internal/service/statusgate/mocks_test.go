package statusgate

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/verification"
	"github.com/taskhive/taskhive-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore for tests.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	updateErr error
	updates   int
}

func newFakeTaskStore(tasks ...*domain.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = task
	s.updates++
	return nil
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

// fakeProjectStore is an in-memory store.ProjectStore for tests.
type fakeProjectStore struct {
	projects map[uuid.UUID]*domain.Project
}

func newFakeProjectStore(projects ...*domain.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[uuid.UUID]*domain.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *fakeProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrProjectNotFound
	}
	return p, nil
}

// fakeVerificationService records delegations from the gate.
type fakeVerificationService struct {
	verification.Service

	openErr error
	opened  []openCall
}

type openCall struct {
	TaskID          uuid.UUID
	RequesterID     uuid.UUID
	RequestedStatus domain.TaskStatus
	Reason          string
}

func (f *fakeVerificationService) OpenRequest(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	requestedStatus domain.TaskStatus,
	reason string,
) (*domain.VerificationRequest, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened = append(f.opened, openCall{
		TaskID:          taskID,
		RequesterID:     requesterID,
		RequestedStatus: requestedStatus,
		Reason:          reason,
	})
	return &domain.VerificationRequest{
		ID:              uuid.New(),
		TaskID:          taskID,
		RequestedBy:     requesterID,
		RequestedStatus: requestedStatus,
		Status:          domain.VerificationPending,
	}, nil
}

// fakeNotificationStore records created notifications.
type fakeNotificationStore struct {
	mu      sync.Mutex
	created []*domain.Notification
}

func (s *fakeNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, n)
	return nil
}

func (s *fakeNotificationStore) List(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID, page, limit int) (*store.NotificationPage, error) {
	return &store.NotificationPage{}, nil
}

func (s *fakeNotificationStore) CountUnread(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) (int, error) {
	return 0, nil
}

func (s *fakeNotificationStore) MarkRead(ctx context.Context, id, recipient uuid.UUID) (*domain.Notification, error) {
	return nil, store.ErrNotificationNotFound
}

func (s *fakeNotificationStore) MarkAllRead(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) error {
	return nil
}

func (s *fakeNotificationStore) Delete(ctx context.Context, id, recipient uuid.UUID) error {
	return store.ErrNotificationNotFound
}

func (s *fakeNotificationStore) byRecipient(recipient uuid.UUID) []*domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Notification
	for _, n := range s.created {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	return out
}

// fakeActivityStore records audit entries.
type fakeActivityStore struct {
	mu      sync.Mutex
	entries []*domain.ActivityLogEntry
}

func (s *fakeActivityStore) Create(ctx context.Context, entry *domain.ActivityLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeActivityStore) ListByResource(ctx context.Context, resourceType string, resourceID uuid.UUID, limit int) ([]*domain.ActivityLogEntry, error) {
	return nil, nil
}

// fakePublisher swallows events.
type fakePublisher struct{}

func (p *fakePublisher) Publish(channel, event string, payload any) error { return nil }
