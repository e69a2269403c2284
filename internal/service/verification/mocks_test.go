package verification

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore for tests.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	updateErr error
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

// fakeVerificationStore is an in-memory store.VerificationStore that mirrors
// the storage-level guarantees: the single-pending index and the guarded
// decision update.
type fakeVerificationStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*domain.VerificationRequest

	createErr error
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{requests: make(map[uuid.UUID]*domain.VerificationRequest)}
}

func (s *fakeVerificationStore) Create(ctx context.Context, req *domain.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.requests {
		if existing.TaskID == req.TaskID && existing.Status == domain.VerificationPending {
			return store.ErrPendingVerificationExists
		}
	}
	clone := *req
	s.requests[req.ID] = &clone
	return nil
}

func (s *fakeVerificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, store.ErrVerificationNotFound
	}
	clone := *req
	return &clone, nil
}

func (s *fakeVerificationStore) FindPendingByTask(ctx context.Context, taskID uuid.UUID) (*domain.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req.TaskID == taskID && req.Status == domain.VerificationPending {
			clone := *req
			return &clone, nil
		}
	}
	return nil, store.ErrVerificationNotFound
}

func (s *fakeVerificationStore) UpdateDecision(ctx context.Context, req *domain.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.requests[req.ID]
	if !ok || existing.Status != domain.VerificationPending {
		return store.ErrVerificationNotPending
	}
	clone := *req
	s.requests[req.ID] = &clone
	return nil
}

func (s *fakeVerificationStore) ListByApprover(ctx context.Context, approverID uuid.UUID, status domain.VerificationStatus) ([]*domain.VerificationRequest, error) {
	return s.list(func(r *domain.VerificationRequest) bool {
		return r.RequestedFor == approverID && (status == "" || r.Status == status)
	}), nil
}

func (s *fakeVerificationStore) ListByRequester(ctx context.Context, requesterID uuid.UUID, status domain.VerificationStatus) ([]*domain.VerificationRequest, error) {
	return s.list(func(r *domain.VerificationRequest) bool {
		return r.RequestedBy == requesterID && (status == "" || r.Status == status)
	}), nil
}

func (s *fakeVerificationStore) list(match func(*domain.VerificationRequest) bool) []*domain.VerificationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.VerificationRequest
	for _, req := range s.requests {
		if match(req) {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out
}

func (s *fakeVerificationStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.VerificationStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[domain.VerificationStatus]int)
	for _, req := range s.requests {
		if req.RequestedBy == userID || req.RequestedFor == userID {
			counts[req.Status]++
		}
	}
	return counts, nil
}

func (s *fakeVerificationStore) WithTx(tx *sql.Tx) store.VerificationStore { return s }

// fakeNotificationStore records created notifications.
type fakeNotificationStore struct {
	mu      sync.Mutex
	created []*domain.Notification

	createErr error
}

func (s *fakeNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, n)
	return nil
}

func (s *fakeNotificationStore) List(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID, page, limit int) (*store.NotificationPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Notification
	unread := 0
	for _, n := range s.created {
		if n.Recipient != recipient {
			continue
		}
		if workspaceID != nil && n.WorkspaceID != *workspaceID {
			continue
		}
		out = append(out, n)
		if !n.IsRead {
			unread++
		}
	}
	return &store.NotificationPage{Notifications: out, Total: len(out), UnreadCount: unread}, nil
}

func (s *fakeNotificationStore) CountUnread(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) (int, error) {
	page, _ := s.List(ctx, recipient, workspaceID, 1, 100)
	return page.UnreadCount, nil
}

func (s *fakeNotificationStore) MarkRead(ctx context.Context, id, recipient uuid.UUID) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.created {
		if n.ID == id && n.Recipient == recipient {
			n.MarkRead()
			return n, nil
		}
	}
	return nil, store.ErrNotificationNotFound
}

func (s *fakeNotificationStore) MarkAllRead(ctx context.Context, recipient uuid.UUID, workspaceID *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.created {
		if n.Recipient == recipient && (workspaceID == nil || n.WorkspaceID == *workspaceID) {
			n.MarkRead()
		}
	}
	return nil
}

func (s *fakeNotificationStore) Delete(ctx context.Context, id, recipient uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.created {
		if n.ID == id && n.Recipient == recipient {
			s.created = append(s.created[:i], s.created[i+1:]...)
			return nil
		}
	}
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
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ActivityLogEntry
	for _, e := range s.entries {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEvent

	err error
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload any
}

func (p *fakePublisher) Publish(channel, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}
