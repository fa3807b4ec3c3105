package main

import (
	"context"
	"log"
	"os"

	"mimoapp/internal/app"
	"mimoapp/internal/config"
	"mimoapp/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	err = application.Run(ctx)
	application.Close()
	if err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
