package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskhive/taskhive-api/internal/api"
	apiMiddleware "github.com/taskhive/taskhive-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	taskHandler := api.NewTaskHandler(app.gateService, app.logger)
	verificationHandler := api.NewVerificationHandler(app.verificationService, app.logger)
	notificationHandler := api.NewNotificationHandler(app.dispatcher, app.logger)
	realtimeHandler := api.NewRealtimeHandler(app.hub, app.config.Realtime.SubscriberBuffer, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task status endpoints
			r.Put("/tasks/{id}/status", taskHandler.UpdateStatus)
			r.Post("/tasks/{id}/verifications", verificationHandler.Create)

			// Verification endpoints
			r.Get("/verifications", verificationHandler.List)
			r.Get("/verifications/stats", verificationHandler.Stats)
			r.Get("/verifications/{id}", verificationHandler.Get)
			r.Put("/verifications/{id}/decision", verificationHandler.Decide)

			// Notification endpoints
			r.Get("/notifications", notificationHandler.List)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Patch("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Patch("/notifications/{id}/read", notificationHandler.MarkRead)
			r.Delete("/notifications/{id}", notificationHandler.Delete)

			// Live event stream
			r.Get("/events", realtimeHandler.Stream)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
