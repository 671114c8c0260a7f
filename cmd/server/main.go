package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cardhub/internal/adapters/http/handlers"
	"cardhub/internal/adapters/http/middleware"
	"cardhub/internal/adapters/http/routes"
	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/config"
	"cardhub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "cardhub/docs" // Swagger docs
)

// @title CardHub API
// @version 1.0
// @description Test card issuance admin console API

// @contact.name API Support
// @contact.email support@cardhub.local

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed users and master data
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed users: %v", err)
	}
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Lookup cache (nil client disables caching)
	redisClient := config.ConnectRedis(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	cardRequestRepo := repositories.NewCardRequestRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	partnerRepo := repositories.NewPartnerRepository(db)
	issuerRepo := repositories.NewIssuerRepository(db)
	productRepo := repositories.NewCardProductRepository(db)
	testCaseRepo := repositories.NewTestCaseRepository(db)
	testerUserRepo := repositories.NewTesterUserRepository(db)
	vaultRepo := repositories.NewVaultRepository(db)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, cfg.Notify.WebhookURL)
	authService := services.NewAuthService(userRepo, tokenRepo, services.AuthConfig{
		AccessSecret:        cfg.JWT.Secret,
		RefreshSecret:       cfg.JWT.RefreshSecret,
		AccessExpiryMinutes: cfg.JWT.AccessTokenMins,
		RefreshExpiryDays:   cfg.JWT.RefreshTokenDays,
	})
	cardRequestService := services.NewCardRequestService(cardRequestRepo, transactionRepo, vaultRepo, notificationService)
	lookupService := services.NewLookupService(partnerRepo, issuerRepo, productRepo, testCaseRepo, testerUserRepo, vaultRepo, redisClient)
	dashboardService := services.NewDashboardService(cardRequestRepo)

	// Scheduled reminders and token cleanup
	reminderService := services.NewReminderService(cardRequestRepo, tokenRepo, notificationService)
	if err := reminderService.Start(); err != nil {
		log.Fatalf("❌ Failed to start reminder scheduler: %v", err)
	}
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "CardHub API v1.0",
	})

	// Setup middlewares
	middleware.Setup(app, cfg.GetAllowedOrigins())

	// Setup routes
	routes.Setup(app, &routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		CardRequest: handlers.NewCardRequestHandler(cardRequestService),
		Lookup:      handlers.NewLookupHandler(lookupService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
	}, cfg.JWT.Secret)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
