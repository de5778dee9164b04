// Package server assembles the HTTP router from its services.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fintrack/internal/config"
	_ "fintrack/internal/docs" // Import swagger docs
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/session"
	"fintrack/internal/validator"
)

// Dependencies are the outside systems the router talks to.
type Dependencies struct {
	GraphQL services.GraphQLDoer
	Auth    services.AuthGateway
	AuditDB *gorm.DB
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires services, handlers and middleware into a gin engine.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	validator.Register()
	sessions := session.NewStore(cfg.SessionMaxEntries, cfg.SessionTTL, now)

	// Initialize services
	auditService := services.NewAuditService(deps.AuditDB)
	authService := services.NewAuthService(deps.Auth, sessions)
	categoryService := services.NewCategoryService(deps.GraphQL, cfg.CategoryCacheTTL)
	transactionService := services.NewTransactionService(deps.GraphQL, sessions, categoryService, now)
	goalService := services.NewSavingsGoalService(deps.GraphQL, sessions)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, auditService, cfg.CookieSecure)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	goalHandler := handlers.NewSavingsGoalHandler(goalService, auditService)
	activityHandler := handlers.NewActivityHandler(auditService)
	pageHandler := handlers.NewPageHandler(transactionService, goalService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", handlers.Health)

	// Session-gated pages
	pages := router.Group("", middleware.SessionGate(cfg.AuthJWTSecret))
	pages.GET(middleware.HomePath, pageHandler.Home)
	pages.GET("/savings", pageHandler.Savings)
	pages.GET(middleware.LoginPath, pageHandler.Login)
	pages.GET(middleware.SignupPath, pageHandler.Signup)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	authLimit := middleware.RateLimit(cfg.LoginRatePerMinute)
	v1.POST("/auth/login", authLimit, authHandler.Login)
	v1.POST("/auth/signup", authLimit, authHandler.Signup)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.SessionAuth(cfg.AuthJWTSecret))

	protected.POST("/auth/logout", authHandler.Logout)

	protected.GET("/dashboard", transactionHandler.LoadDashboard)
	protected.GET("/dashboard/summary", transactionHandler.GetSummary)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/categories", transactionHandler.ListCategoryNames)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.GET("/breakdown/:kind", transactionHandler.GetBreakdown)
	protected.GET("/categories", categoryHandler.ListCategories)

	// Savings goal routes
	goals := protected.Group("/savings-goals")
	goals.GET("", goalHandler.ListGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.POST("/:id/top-up", goalHandler.TopUpGoal)
	goals.GET("/:id/progress", goalHandler.GetProgress)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	protected.GET("/activity", activityHandler.ListActivity)

	return router
}
