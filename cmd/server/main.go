package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MSamoilovic/FormForge-API/config"
	"github.com/MSamoilovic/FormForge-API/internal/api"
	"github.com/MSamoilovic/FormForge-API/internal/api/handlers"
	"github.com/MSamoilovic/FormForge-API/internal/core/ai"
	"github.com/MSamoilovic/FormForge-API/internal/core/auth"
	"github.com/MSamoilovic/FormForge-API/internal/core/form"
	"github.com/MSamoilovic/FormForge-API/internal/core/importer"
	"github.com/MSamoilovic/FormForge-API/internal/core/submission"
	"github.com/MSamoilovic/FormForge-API/internal/core/validation"
	"github.com/MSamoilovic/FormForge-API/internal/storage/postgres"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Validate critical configuration
	if cfg.JWT.Secret == "" {
		log.Fatalf("JWT_SECRET environment variable is required")
	}

	// Connect to database
	db, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database")

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	formRepo := form.NewRepository(db)
	submissionRepo := submission.NewRepository(db)

	// Initialize services
	authService := auth.NewService(authRepo, &cfg.JWT)
	formService := form.NewService(formRepo)
	validator := validation.NewValidator()
	submissionService := submission.NewService(submissionRepo, formService, validator)
	importService := importer.NewService()
	aiService := ai.NewService(&cfg.AI)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	formHandler := handlers.NewFormHandler(formService)
	importHandler := handlers.NewImportHandler(importService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	aiHandler := handlers.NewAIHandler(aiService)

	// Setup router
	router := api.NewRouter(
		authService,
		authHandler,
		formHandler,
		importHandler,
		submissionHandler,
		aiHandler,
	)

	engine := router.Setup(cfg.Server.Mode, cfg.Server.CORSOrigins)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		db.Close()
		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
