package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/platform/postgres"
	"github.com/taskhive/taskhive-api/internal/realtime"
	"github.com/taskhive/taskhive-api/internal/service/activity"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/service/notification"
	"github.com/taskhive/taskhive-api/internal/service/statusgate"
	"github.com/taskhive/taskhive-api/internal/service/verification"
	"github.com/taskhive/taskhive-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore         store.TaskStore
	projectStore      store.ProjectStore
	verificationStore store.VerificationStore
	notificationStore store.NotificationStore
	activityStore     store.ActivityStore

	// Real-time fan-out
	hub *realtime.Hub

	// Service interfaces
	jwtService          auth.JWTService
	recorder            *activity.Recorder
	dispatcher          *notification.Dispatcher
	verificationService verification.Service
	gateService         statusgate.Service
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized")

	// Initialize stores
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.projectStore = postgres.NewPostgresProjectStore(db)
	app.verificationStore = postgres.NewPostgresVerificationStore(db)
	app.notificationStore = postgres.NewPostgresNotificationStore(db)
	app.activityStore = postgres.NewPostgresActivityStore(db)

	// Initialize the real-time hub
	app.hub = realtime.NewHub(logger)

	// Initialize services
	app.recorder = activity.NewRecorder(app.activityStore, logger)
	app.dispatcher = notification.NewDispatcher(app.notificationStore, app.hub, logger)
	app.verificationService = verification.NewService(
		db,
		app.taskStore,
		app.projectStore,
		app.verificationStore,
		app.dispatcher,
		app.recorder,
		logger,
	)
	app.gateService = statusgate.NewService(
		app.taskStore,
		app.projectStore,
		app.verificationService,
		app.dispatcher,
		app.recorder,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
