package main

import (
	"github.com/labstack/echo/v4"
	"github.com/linkup-app/backend/internal/mailer"
	"github.com/linkup-app/backend/internal/router"
	"github.com/linkup-app/backend/pkg/config"
	"github.com/linkup-app/backend/pkg/logger"
	"github.com/linkup-app/backend/validators"
)

func main() {
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.CloseDB()

	// Outbound mail (SMTP when configured, log-only otherwise)
	mail := mailer.FromConfig(cfg)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, mail, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
