package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"datachat/apiclient"
	"datachat/config"
	"datachat/engine"
	"datachat/web"
	"datachat/web/format"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	client := apiclient.New(cfg, logger)
	eng := engine.New(cfg, client, logger)

	renderer, err := format.NewRenderer(cfg.RenderCacheSize, logger)
	if err != nil {
		logger.Fatal("Failed to initialize markdown renderer", zap.Error(err))
	}

	webServer := web.NewServer(eng, client, renderer, logger, cfg)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting data chat client",
		zap.String("port", port),
		zap.String("analysis_base_url", cfg.AnalysisBaseURL))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
