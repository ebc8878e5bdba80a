package main

import (
	"fmt"
	"net/http"
	"os"

	"cryptofolio/internal/config"
	"cryptofolio/internal/database"
	"cryptofolio/internal/handlers"
	"cryptofolio/internal/logger"
	"cryptofolio/internal/mailer"
	"cryptofolio/internal/middleware"
	"cryptofolio/internal/prices"
	"cryptofolio/internal/scheduler"
	"cryptofolio/internal/services"
	"cryptofolio/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cryptofolio/internal/docs" // Import swagger docs
)

// @title           Cryptofolio API
// @version         1.0
// @description     Cryptofolio tracks crypto and NFT portfolios, refreshes market prices on a schedule, and emails price alerts and portfolio reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared secret for the pipeline trigger endpoint.

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize the price sources and the mail transport
	httpClient := &http.Client{Timeout: appConfig.HTTPTimeout}
	priceSource := prices.NewAPISource(httpClient, appConfig.CoinMarketCapAPIKey, appConfig.OpenSeaAPIKey)
	sender := mailer.New(mailer.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUser,
		Password: appConfig.SMTPPassword,
		From:     appConfig.SMTPFrom,
	})

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db)
	notificationService := services.NewNotificationService(db)
	dispatcher := services.NewNotificationDispatcher(db, sender)
	assetUpdateService := services.NewAssetUpdateService(db, priceSource)
	alertService := services.NewAlertService(db, dispatcher)
	reportService := services.NewReportService(db, dispatcher)

	// Initialize the pipeline scheduler
	sched, err := scheduler.New(assetUpdateService, alertService, reportService)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, reportService, sched)
	pipelineHandler := handlers.NewPipelineHandler(sched)

	// Register custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

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

	// Pipeline trigger, protected by the shared API key
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/refresh", pipelineHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Asset routes
	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.GET("/:id/history", assetHandler.GetAssetHistory)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.POST("/settings", notificationHandler.CreateSetting)
	notifications.GET("/settings", notificationHandler.ListSettings)
	notifications.PUT("/settings/:id", notificationHandler.UpdateSetting)
	notifications.DELETE("/settings/:id", notificationHandler.DeleteSetting)
	notifications.GET("/logs", notificationHandler.ListLogs)
	notifications.POST("/reports/generate", notificationHandler.GenerateReports)
	notifications.POST("/assets/update", notificationHandler.TriggerAssetUpdate)

	log.Infof("Starting Cryptofolio backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
