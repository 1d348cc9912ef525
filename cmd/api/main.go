package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ledger/internal/config"
	"ledger/internal/database"
	"ledger/internal/handlers"
	"ledger/internal/logger"
	"ledger/internal/middleware"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/summary"
	"ledger/internal/validator"

	_ "ledger/internal/docs" // Import swagger docs
)

// @title           Ledger API
// @version         1.0
// @description     Ledger records incomes and expenses and serves summaries, trends and an activity feed over them.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Stores
	db := dbManager.DB()
	incomeStore := store.NewRecordStore(db, summary.KindIncome)
	expenseStore := store.NewRecordStore(db, summary.KindExpense)

	// Initialize services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	incomeService := services.NewRecordService(incomeStore, time.Now, appConfig.Location)
	expenseService := services.NewRecordService(expenseStore, time.Now, appConfig.Location)
	summaryService := services.NewSummaryService(incomeStore, expenseStore, time.Now, appConfig.Location, appConfig.FeedSize)
	exportService := services.NewExportService(incomeStore, expenseStore, appConfig.Location)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	incomeHandler := handlers.NewRecordHandler(incomeService, summaryService, auditService, appConfig.Location)
	expenseHandler := handlers.NewRecordHandler(expenseService, summaryService, auditService, appConfig.Location)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	exportHandler := handlers.NewExportHandler(exportService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Record routes, one group per kind
	for path, h := range map[string]*handlers.RecordHandler{"/incomes": incomeHandler, "/expenses": expenseHandler} {
		records := protected.Group(path)
		records.GET("", h.List)
		records.POST("", h.Create)
		records.GET("/summary", h.Summary)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}

	// Combined views
	protected.GET("/summary", summaryHandler.GetSummary)
	protected.GET("/feed", summaryHandler.GetFeed)
	protected.GET("/export/:scope", exportHandler.Export)

	log.Infow("Starting Ledger server",
		"port", appConfig.Port,
		"db_driver", appConfig.DBDriver,
		"timezone", appConfig.Location.String(),
	)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
