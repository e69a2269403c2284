package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/activity"
	"github.com/taskhive/taskhive-api/internal/service/notification"
	"github.com/taskhive/taskhive-api/internal/store"
)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	// runTx wraps store.RunInTransaction over the application database.
	// Injectable so tests can run the transactional body against fakes.
	runTx             func(ctx context.Context, fn store.TxFn) error
	taskStore         store.TaskStore
	projectStore      store.ProjectStore
	verificationStore store.VerificationStore
	dispatcher        *notification.Dispatcher
	recorder          *activity.Recorder
	logger            *slog.Logger
}

// Ensure serviceImpl implements the Service interface
var _ Service = (*serviceImpl)(nil)

// NewService creates a new verification service.
func NewService(
	db *sql.DB,
	taskStore store.TaskStore,
	projectStore store.ProjectStore,
	verificationStore store.VerificationStore,
	dispatcher *notification.Dispatcher,
	recorder *activity.Recorder,
	logger *slog.Logger,
) Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil for verification service")
	}
	if taskStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskStore cannot be nil for verification service")
	}
	if projectStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("projectStore cannot be nil for verification service")
	}
	if verificationStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("verificationStore cannot be nil for verification service")
	}
	if dispatcher == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dispatcher cannot be nil for verification service")
	}
	if recorder == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("recorder cannot be nil for verification service")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		taskStore:         taskStore,
		projectStore:      projectStore,
		verificationStore: verificationStore,
		dispatcher:        dispatcher,
		recorder:          recorder,
		logger:            logger.With(slog.String("component", "verification_service")),
	}
}

// OpenRequest implements Service.OpenRequest.
func (s *serviceImpl) OpenRequest(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	requestedStatus domain.TaskStatus,
	reason string,
) (*domain.VerificationRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !requestedStatus.IsRequestable() {
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
		return nil, ErrNotProjectMember
	}
	if !task.IsAssignedTo(requesterID) && !role.CanBypassVerification() {
		return nil, ErrNotAuthorized
	}

	approverID, ok := project.ResolveApprover()
	if !ok {
		log.Warn("cannot open verification request, project has no approver",
			slog.String("task_id", taskID.String()),
			slog.String("project_id", project.ID.String()))
		return nil, ErrNoApprover
	}

	// Fast path only; the unique index is the real guard against a
	// concurrent open.
	if _, err := s.verificationStore.FindPendingByTask(ctx, taskID); err == nil {
		return nil, store.ErrPendingVerificationExists
	} else if !store.IsNotFoundError(err) {
		return nil, err
	}

	if reason == "" {
		reason = fmt.Sprintf("Status change request from %q to %q", task.Status, requestedStatus)
	}

	req, err := domain.NewVerificationRequest(task, requesterID, approverID, requestedStatus, reason)
	if err != nil {
		return nil, fmt.Errorf("invalid verification request: %w", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.verificationStore.WithTx(tx).Create(ctx, req); err != nil {
			return err
		}
		task.FlagPendingVerification(req.ID)
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrPendingVerificationExists) {
			log.Info("lost race opening verification request",
				slog.String("task_id", taskID.String()))
			return nil, err
		}
		log.Error("failed to open verification request",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("verification request opened",
		slog.String("request_id", req.ID.String()),
		slog.String("task_id", taskID.String()),
		slog.String("requested_status", string(requestedStatus)),
		slog.String("approver_id", approverID.String()))

	s.recorder.RecordTask(ctx, requesterID, "verification_requested", taskID,
		fmt.Sprintf("requested verification to move task to %q", requestedStatus))

	s.notifyApprover(ctx, req)

	return req, nil
}

// Decide implements Service.Decide.
func (s *serviceImpl) Decide(
	ctx context.Context,
	requestID, deciderID uuid.UUID,
	outcome domain.VerificationStatus,
	notes string,
) (*DecisionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	req, err := s.verificationStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, ErrAlreadyDecided
	}

	// Only the member the request was routed to may decide it.
	if deciderID != req.RequestedFor {
		return nil, ErrNotAuthorized
	}

	if err := req.Decide(deciderID, outcome, notes); err != nil {
		if errors.Is(err, domain.ErrVerificationNotPending) {
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}

	var task *domain.Task
	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.verificationStore.WithTx(tx).UpdateDecision(ctx, req); err != nil {
			return err
		}

		txTasks := s.taskStore.WithTx(tx)
		task, err = txTasks.GetByID(ctx, req.TaskID)
		if err != nil {
			return err
		}

		if outcome == domain.VerificationApproved {
			if err := task.ApplyStatus(req.RequestedStatus); err != nil {
				return err
			}
		}
		task.ClearPendingVerification()
		return txTasks.Update(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrVerificationNotPending) {
			// A concurrent decision won the guarded update.
			return nil, ErrAlreadyDecided
		}
		log.Error("failed to apply verification decision",
			slog.String("request_id", requestID.String()),
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("verification request decided",
		slog.String("request_id", requestID.String()),
		slog.String("task_id", req.TaskID.String()),
		slog.String("outcome", string(outcome)),
		slog.String("decided_by", deciderID.String()))

	action := "verification_approved"
	if outcome == domain.VerificationRejected {
		action = "verification_rejected"
	}
	s.recorder.RecordTask(ctx, deciderID, action, req.TaskID,
		fmt.Sprintf("%s status change to %q", outcome, req.RequestedStatus))

	s.notifyRequester(ctx, req, outcome)

	return &DecisionResult{Request: req, Task: task}, nil
}

// GetByID implements Service.GetByID.
func (s *serviceImpl) GetByID(ctx context.Context, requestID, userID uuid.UUID) (*domain.VerificationRequest, error) {
	req, err := s.verificationStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if userID == req.RequestedBy || userID == req.RequestedFor {
		return req, nil
	}

	project, err := s.projectStore.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.RoleOf(userID).CanBypassVerification() {
		return nil, ErrNotAuthorized
	}
	return req, nil
}

// ListForUser implements Service.ListForUser.
func (s *serviceImpl) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	role ListRole,
	status domain.VerificationStatus,
) ([]*domain.VerificationRequest, error) {
	if status != "" && !status.IsValid() {
		return nil, domain.ErrInvalidVerificationStatus
	}

	switch role {
	case ListRoleApprover:
		return s.verificationStore.ListByApprover(ctx, userID, status)
	case ListRoleRequester:
		return s.verificationStore.ListByRequester(ctx, userID, status)
	default:
		return nil, ErrInvalidListRole
	}
}

// StatsForUser implements Service.StatsForUser.
func (s *serviceImpl) StatsForUser(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	counts, err := s.verificationStore.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Pending:  counts[domain.VerificationPending],
		Approved: counts[domain.VerificationApproved],
		Rejected: counts[domain.VerificationRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// notifyApprover is the post-commit notification for a newly opened request.
// Failures are logged by the dispatcher and never unwind the commit.
func (s *serviceImpl) notifyApprover(ctx context.Context, req *domain.VerificationRequest) {
	data := domain.NotificationData{
		TaskID:         &req.TaskID,
		ProjectID:      &req.ProjectID,
		VerificationID: &req.ID,
	}
	_, err := s.dispatcher.CreateAndDispatch(ctx,
		req.RequestedFor,
		req.RequestedBy,
		domain.NotificationVerificationRequested,
		"Verification requested",
		fmt.Sprintf("A task status change to %q is waiting for your approval", req.RequestedStatus),
		data,
		req.WorkspaceID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("approver notification lost",
			slog.String("request_id", req.ID.String()),
			slog.String("error", err.Error()))
	}
}

// notifyRequester is the post-commit notification for a decided request.
func (s *serviceImpl) notifyRequester(ctx context.Context, req *domain.VerificationRequest, outcome domain.VerificationStatus) {
	typ := domain.NotificationVerificationApproved
	title := "Verification approved"
	message := fmt.Sprintf("Your status change to %q was approved", req.RequestedStatus)
	if outcome == domain.VerificationRejected {
		typ = domain.NotificationVerificationRejected
		title = "Verification rejected"
		message = fmt.Sprintf("Your status change to %q was rejected", req.RequestedStatus)
	}

	data := domain.NotificationData{
		TaskID:         &req.TaskID,
		ProjectID:      &req.ProjectID,
		VerificationID: &req.ID,
	}

	var sender uuid.UUID
	if req.VerifiedBy != nil {
		sender = *req.VerifiedBy
	}

	_, err := s.dispatcher.CreateAndDispatch(ctx,
		req.RequestedBy,
		sender,
		typ,
		title,
		message,
		data,
		req.WorkspaceID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("requester notification lost",
			slog.String("request_id", req.ID.String()),
			slog.String("error", err.Error()))
	}
}
