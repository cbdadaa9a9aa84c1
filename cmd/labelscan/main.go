package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"labelscan/internal/api"
	"labelscan/internal/api/handlers"
	"labelscan/internal/service"
	"labelscan/pkg/config"
	"labelscan/pkg/logger"

	"go.uber.org/zap"
)

// @title Labelscan API
// @version 1.0
// @description Extracts structured price-label data from supermarket label photos using a multimodal AI model

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration; a missing model credential is fatal here
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting labelscan service")

	// Initialize services
	llmService, err := service.NewLLMService(&cfg.Gemini, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}

	geoService := service.NewGeoService(&cfg.Geocoder, appLogger)
	imageService := service.NewImageService(cfg.Upload.Dir, appLogger)
	labelService := service.NewLabelService(imageService, geoService, llmService, cfg.Upload.Dir, appLogger)

	// Initialize handlers
	labelHandler := handlers.NewLabelHandler(labelService, cfg.Gemini.Model, appLogger)

	// Setup router
	app := api.SetupRouter(labelHandler, cfg.Upload.Dir, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
