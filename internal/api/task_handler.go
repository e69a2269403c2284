// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/statusgate"
)

// TaskHandler handles task status change requests
type TaskHandler struct {
	gate   statusgate.Service
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(gate statusgate.Service, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		gate:   gate,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// StatusChangeResponse represents the outcome of a status change attempt.
// Task is present when the change was applied; VerificationID when it was
// routed to verification.
type StatusChangeResponse struct {
	Status         string       `json:"status"`
	Task           *domain.Task `json:"task,omitempty"`
	VerificationID *uuid.UUID   `json:"verificationId,omitempty"`
}

// UpdateStatus handles PUT /tasks/{id}/status requests.
// Depending on the caller's project role the change is either applied
// directly or converted into a verification request.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("invalid task ID format", slog.String("task_id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	// Extract user ID from context (set by auth middleware)
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.gate.AttemptStatusChange(r.Context(), taskID, userID, domain.TaskStatus(req.Status))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := StatusChangeResponse{
		Status:         string(result.Outcome),
		Task:           result.Task,
		VerificationID: result.VerificationID,
	}

	log.Debug("status change attempt handled",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()),
		slog.String("outcome", string(result.Outcome)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
