package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/realtime"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 25 * time.Second

// RealtimeHandler serves the server-sent events stream that carries live
// notifications.
type RealtimeHandler struct {
	hub              *realtime.Hub
	subscriberBuffer int
	logger           *slog.Logger
}

// NewRealtimeHandler creates a new RealtimeHandler.
func NewRealtimeHandler(hub *realtime.Hub, subscriberBuffer int, logger *slog.Logger) *RealtimeHandler {
	if hub == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("hub cannot be nil for RealtimeHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RealtimeHandler")
	}

	return &RealtimeHandler{
		hub:              hub,
		subscriberBuffer: subscriberBuffer,
		logger:           logger.With(slog.String("component", "realtime_handler")),
	}
}

// Stream handles GET /events requests. The connection joins the caller's
// personal channel and, when workspaceId is given, that workspace's channel,
// and stays open until the client disconnects.
func (h *RealtimeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	workspaceID, ok := parseWorkspaceID(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sub := realtime.NewSubscriber(h.subscriberBuffer)
	h.hub.Join(sub, realtime.UserChannel(userID))
	if workspaceID != nil {
		h.hub.Join(sub, realtime.WorkspaceChannel(*workspaceID))
	}
	defer h.hub.LeaveAll(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Initial comment so the client sees the stream open immediately.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	log.Debug("event stream opened", slog.String("user_id", userID.String()))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("event stream closed", slog.String("user_id", userID.String()))
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case msg := <-sub.C:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Payload)
			flusher.Flush()
		}
	}
}
