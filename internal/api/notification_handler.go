package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/notification"
)

// NotificationHandler handles notification queries and state changes
type NotificationHandler struct {
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(dispatcher *notification.Dispatcher, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NotificationHandler")
	}

	return &NotificationHandler{
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "notification_handler")),
	}
}

// NotificationPageResponse is the paginated notification listing.
type NotificationPageResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unreadCount"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// List handles GET /notifications requests.
// Query parameters: workspaceId=, page= (default 1), limit= (default 20).
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	workspaceID, ok := parseWorkspaceID(w, r)
	if !ok {
		return
	}
	page := parseIntQuery(r, "page", 1)
	limit := parseIntQuery(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	result, err := h.dispatcher.List(r.Context(), userID, workspaceID, page, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if result.Notifications == nil {
		result.Notifications = []*domain.Notification{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NotificationPageResponse{
		Notifications: result.Notifications,
		Total:         result.Total,
		UnreadCount:   result.UnreadCount,
		Page:          page,
		Limit:         limit,
	})
}

// UnreadCount handles GET /notifications/unread-count requests.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	workspaceID, ok := parseWorkspaceID(w, r)
	if !ok {
		return
	}

	count, err := h.dispatcher.UnreadCount(r.Context(), userID, workspaceID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"unreadCount": count})
}

// MarkRead handles PATCH /notifications/{id}/read requests.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	n, err := h.dispatcher.MarkRead(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("notification marked read", slog.String("notification_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, n)
}

// MarkAllRead handles PATCH /notifications/read-all requests.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	workspaceID, ok := parseWorkspaceID(w, r)
	if !ok {
		return
	}

	if err := h.dispatcher.MarkAllRead(r.Context(), userID, workspaceID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /notifications/{id} requests.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.dispatcher.Delete(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseWorkspaceID reads the optional workspaceId query parameter. On a
// malformed value it writes a 400 and returns false.
func parseWorkspaceID(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("workspaceId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid workspace ID format")
		return nil, false
	}
	return &id, true
}

func parseIntQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
