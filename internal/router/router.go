package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/linkup-app/backend/internal/handlers"
	"github.com/linkup-app/backend/internal/mailer"
	"github.com/linkup-app/backend/internal/middleware"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/internal/services"
	"github.com/linkup-app/backend/pkg/config"
	"github.com/linkup-app/backend/pkg/logger"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, mail mailer.Mailer, cfg *config.Config) {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Message{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Notification{},
	)
	if err != nil {
		logger.Fatal("Failed to auto migrate models", err)
	}
	logger.Info("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	// --- Initialize services ---
	authService := services.NewAuthService(userRepo, mail, cfg)
	friendService := services.NewFriendService(friendshipRepo, userRepo, notificationRepo)
	messageService := services.NewMessageService(messageRepo, friendshipRepo, userRepo)
	feedService := services.NewFeedService(postRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterAuthRoutes(authGroup)
	logger.Info("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, authService)
	userHandler.RegisterProfileRoutes(api)

	friendshipHandler := handlers.NewFriendshipHandler(friendService)
	friendshipHandler.RegisterFriendshipRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageService)
	messageHandler.RegisterMessageRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Info("API routes configured.")
}
