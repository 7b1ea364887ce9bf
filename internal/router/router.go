package router

import (
	"fmt"

	"github.com/anonto42/studio-dashboard/backend/internal/handlers"
	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/notify"
	"github.com/anonto42/studio-dashboard/backend/internal/push"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the routes are built from.
type Dependencies struct {
	Postgres       *gorm.DB
	Mongo          *mongo.Database
	Auth           echo.MiddlewareFunc
	PushSender     push.Sender // nil when VAPID keys are missing
	PushPool       *push.Pool
	VAPIDPublicKey string
	Log            logrus.FieldLogger
}

// Migrate creates or updates the PostgreSQL tables owned by this service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Comment{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.PushSubscription{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Log

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	preferenceRepo := repositories.NewPostgresPreferenceRepository(deps.Postgres)
	subscriptionRepo := repositories.NewPostgresPushSubscriptionRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	contentItemRepo := repositories.NewMongoContentItemRepository(deps.Mongo)

	// --- Notification pipeline ---
	dispatcher := push.NewDispatcher(subscriptionRepo, deps.PushSender, log)
	resolver := notify.NewResolver(preferenceRepo, log.WithField("component", "preferences"))
	writer := notify.NewWriter(notificationRepo, resolver, dispatcher, deps.PushPool, log.WithField("component", "notify"))
	notifier := notify.NewNotifier(contentItemRepo, writer, log.WithField("component", "notify"))

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(deps.Auth)

	handlers.NewNotificationHandler(notificationRepo, log).RegisterNotificationRoutes(api)
	handlers.NewPreferenceHandler(preferenceRepo, log).RegisterPreferenceRoutes(api)
	handlers.NewPushHandler(subscriptionRepo, deps.VAPIDPublicKey, log).RegisterPushRoutes(api)
	handlers.NewCommentHandler(commentRepo, contentItemRepo, notifier, log).RegisterCommentRoutes(api)
	handlers.NewAssignmentHandler(contentItemRepo, notifier, log).RegisterAssignmentRoutes(api)

	log.Info("All routes configured")
}
