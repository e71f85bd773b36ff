package main

import (
	"context"
	"fmt"
	"log"

	_ "github.com/strukly/strukly-backend/docs"
	"github.com/strukly/strukly-backend/internal/config"
	"github.com/strukly/strukly-backend/internal/database"
	"github.com/strukly/strukly-backend/internal/gemini"
	"github.com/strukly/strukly-backend/internal/handler"
	"github.com/strukly/strukly-backend/internal/middleware"
	"github.com/strukly/strukly-backend/internal/repository"
	"github.com/strukly/strukly-backend/internal/server"
	"github.com/strukly/strukly-backend/internal/service"
	"github.com/strukly/strukly-backend/internal/storage"
)

// @title Strukly API
// @version 1.0
// @description Receipt documentation backend. Scans receipt photos into editable drafts, persists saved receipts, and aggregates revenue.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to PostgreSQL
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize the Gemini client used for receipt extraction and the assistant
	geminiClient, err := gemini.NewClient(context.Background(), &gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		ModelID: cfg.GeminiModelID,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	// Receipt images are only uploaded when storage is configured
	var uploader service.ImageUploader
	if cfg.StorageConfigured() {
		s3Uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.StorageEndpoint,
			AccessKeyID:     cfg.StorageAccessKeyID,
			AccessKeySecret: cfg.StorageAccessKeySecret,
			Bucket:          cfg.StorageBucket,
			Region:          cfg.StorageRegion,
		})
		if err != nil {
			log.Fatalf("Failed to initialize storage uploader: %v", err)
		}
		uploader = s3Uploader
	}

	// Initialize repositories
	receiptRepo := repository.NewPostgresReceiptRepository(db.GetPool())
	userRepo := repository.NewPostgresUserRepository(db.GetPool())

	// Initialize services
	receiptService := service.NewReceiptService(receiptRepo, geminiClient, uploader, cfg.MaxWorkers)
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:             userRepo,
		JWTSecret:            cfg.JWTSecret,
		JWTAccessExpiration:  cfg.JWTAccessExpiration,
		JWTRefreshExpiration: cfg.JWTRefreshExpiration,
	})
	assistantService := service.NewAssistantService(geminiClient)

	// Create server and register routes
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)
	authMiddleware := middleware.AuthMiddleware(authService)

	handler.NewAuthHandler(authService).RegisterRoutes(appServer.GetRouter(), authMiddleware)
	handler.NewReceiptHandler(receiptService).RegisterRoutes(appServer.GetRouter(), authMiddleware)
	handler.NewAssistantHandler(assistantService).RegisterRoutes(appServer.GetRouter(), authMiddleware)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
