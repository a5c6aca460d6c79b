package main

import (
	"fmt"
	"log"

	"docdiff/internal/config"
	"docdiff/internal/handler"
	"docdiff/internal/provider"
	"docdiff/internal/provider/docai"
	"docdiff/internal/provider/genai"
	"docdiff/internal/repository/postgres"
	"docdiff/internal/router"
	"docdiff/internal/service"
	s3storage "docdiff/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	compRepo := postgres.NewComparisonRepo(db)
	keyRepo := postgres.NewAPIKeyRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize providers
	ocrProvider := docai.NewClient(&cfg.DocAI)
	compareProvider := genai.NewClient(&cfg.Gemini)
	retry := provider.NewRetryPolicy()

	// Initialize background job dispatcher
	dispatcher := service.NewDispatcher(cfg.Jobs)
	defer dispatcher.Shutdown()

	// Initialize services
	docSvc := service.NewDocumentService(docRepo, s3Client, ocrProvider, dispatcher, &cfg.S3)
	compSvc := service.NewComparisonService(compRepo, docRepo, compareProvider, retry, dispatcher, docSvc)

	// Initialize handlers
	docH := handler.NewDocumentHandler(docSvc)
	compH := handler.NewComparisonHandler(compSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(keyRepo, cfg.CORS.AllowedOrigins, docH, compH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
