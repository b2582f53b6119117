package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/TrustMod/pkg/config"
	"github.com/NeuralTrust/TrustMod/pkg/dependency_container"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	infraLogger "github.com/NeuralTrust/TrustMod/pkg/infra/logger"
	_ "github.com/NeuralTrust/TrustMod/pkg/infra/migrations"
	"github.com/NeuralTrust/TrustMod/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustMod/pkg/server"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger, logCloser, err := infraLogger.NewLogger("moderator")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logCloser.Close() }()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config"
	}
	if err := config.Load(configPath); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableProcess: cfg.Metrics.EnableProcess,
	})

	container, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("failed to initialize dependencies: %v", err)
	}

	go func() {
		logger.Info("listening for cache invalidation events")
		container.RedisListener.Listen(ctx, cache.EventsChannel)
	}()

	srv := server.NewAdminServer(server.AdminServerDI{
		Routers: container.Routers,
		Config:  cfg,
		Logger:  logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Error("server failed")
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("shutting down server")
	cancel()
	exitCode := 0
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		exitCode = 1
	}
	if err := container.Close(); err != nil {
		logger.WithError(err).Error("error releasing dependencies")
		exitCode = 1
	}
	logger.Info("server gracefully stopped")
	if exitCode != 0 {
		_ = logCloser.Close()
		os.Exit(exitCode)
	}
}
