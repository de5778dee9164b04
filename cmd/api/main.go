package main

import (
	"fmt"
	"net/http"
	"os"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/graphql"
	"fintrack/internal/logger"
	"fintrack/internal/server"
)

// @title           fintrack API
// @version         1.0
// @description     fintrack tracks income, expenses and savings goals on top of a hosted data and auth service.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if appConfig.AuthJWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is not set; session tokens are not signature-checked locally")
	}

	// Audit database
	dbManager, err := database.NewManager(appConfig.AuditDBDriver, appConfig.AuditDBDSN)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("closing audit database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(appConfig.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Hosted services
	httpClient := &http.Client{Timeout: appConfig.RequestTimeout}
	router := server.NewRouter(appConfig, server.Dependencies{
		GraphQL: graphql.NewClient(appConfig.GraphQLURL, appConfig.GraphQLAPIKey, httpClient),
		Auth:    auth.NewClient(appConfig.AuthURL, appConfig.GraphQLAPIKey, httpClient),
		AuditDB: dbManager.DB(),
	})

	log.Infof("Starting fintrack server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
