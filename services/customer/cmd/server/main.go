package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/logger"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/app"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("customer-service", cfg.LogLevel)
	log.Info("starting customer service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("customer service stopped")
}
