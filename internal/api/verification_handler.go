package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/verification"
)

// VerificationHandler handles verification workflow requests
type VerificationHandler struct {
	verifications verification.Service
	logger        *slog.Logger
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(verifications verification.Service, logger *slog.Logger) *VerificationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for VerificationHandler")
	}

	return &VerificationHandler{
		verifications: verifications,
		logger:        logger.With(slog.String("component", "verification_handler")),
	}
}

// CreateRequest represents the request body for explicitly requesting
// verification of a status change
type CreateRequest struct {
	RequestedStatus string `json:"requestedStatus" validate:"required"`
	Reason          string `json:"reason" validate:"max=1000"`
}

// DecisionRequest represents the request body for deciding a request
type DecisionRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=approved rejected"`
	Notes   string `json:"notes" validate:"max=1000"`
}

// Create handles POST /tasks/{id}/verifications requests.
func (h *VerificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	created, err := h.verifications.OpenRequest(
		r.Context(), taskID, userID, domain.TaskStatus(req.RequestedStatus), req.Reason)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// Get handles GET /verifications/{id} requests.
func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid verification ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	req, err := h.verifications.GetByID(r.Context(), requestID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, req)
}

// List handles GET /verifications requests.
// Query parameters: role=approver|requester (default approver), status=.
func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	role := verification.ListRole(r.URL.Query().Get("role"))
	if role == "" {
		role = verification.ListRoleApprover
	}
	status := domain.VerificationStatus(r.URL.Query().Get("status"))

	requests, err := h.verifications.ListForUser(r.Context(), userID, role, status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if requests == nil {
		requests = []*domain.VerificationRequest{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, requests)
}

// Decide handles PUT /verifications/{id}/decision requests.
func (h *VerificationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid verification ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req DecisionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.verifications.Decide(
		r.Context(), requestID, userID, domain.VerificationStatus(req.Outcome), req.Notes)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("verification decided",
		slog.String("request_id", requestID.String()),
		slog.String("outcome", req.Outcome))
	shared.RespondWithJSON(w, r, http.StatusOK, result.Request)
}

// Stats handles GET /verifications/stats requests.
func (h *VerificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.verifications.StatsForUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
