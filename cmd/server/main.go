package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/studio-dashboard/backend/internal/middleware"
	"github.com/anonto42/studio-dashboard/backend/internal/push"
	"github.com/anonto42/studio-dashboard/backend/internal/router"
	"github.com/anonto42/studio-dashboard/backend/pkg/config"
	"github.com/anonto42/studio-dashboard/backend/pkg/firebase"
	"github.com/anonto42/studio-dashboard/backend/pkg/logging"
	"github.com/anonto42/studio-dashboard/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		JSON:       cfg.IsProduction(),
		ReportFile: cfg.LogReportCaller,
	})

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	if err := router.Migrate(db.Postgres); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	if cfg.AuthProvider == "firebase" {
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		auth = middleware.FirebaseAuthMiddleware(authClient)
		log.Info("Using Firebase ID token authentication")
	}

	var sender push.Sender
	webPush, err := push.NewWebPushSender(cfg.Push, nil)
	switch {
	case err == nil:
		sender = webPush
	case errors.Is(err, push.ErrConfigurationMissing):
		log.Warn("VAPID keys not set, browser push is disabled")
	default:
		log.Fatalf("Failed to initialize push sender: %v", err)
	}
	pool := push.NewPool(cfg.Push.Workers, cfg.Push.QueueSize, cfg.Push.Timeout, log)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, log)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		Postgres:       db.Postgres,
		Mongo:          db.Mongo.Database(cfg.MongoDatabase),
		Auth:           auth,
		PushSender:     sender,
		PushPool:       pool,
		VAPIDPublicKey: cfg.Push.VAPIDPublicKey,
		Log:            log,
	})

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Push.Timeout+5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	// Let queued push batches finish before the databases close.
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Push pool did not drain before shutdown deadline")
	}
	log.Info("Server stopped")
}
