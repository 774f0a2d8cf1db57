// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/curtains-backend/internal/config"
	"github.com/your-org/curtains-backend/internal/domain/cart"
	"github.com/your-org/curtains-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/curtains-backend/internal/infrastructure/database/redis"
	"github.com/your-org/curtains-backend/internal/interfaces/http"
	"github.com/your-org/curtains-backend/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"storage":     cfg.Cart.Storage,
	}).Info("Starting")

	deps := http.Dependencies{
		Logger: log,
		Checks: map[string]http.HealthCheck{},
	}

	switch cfg.Cart.Storage {
	case config.StorageRedis:
		redisClient, err := redis.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		deps.Storage = redisClient.CartStorage()
		deps.Redis = redisClient.GetClient()
		deps.Checks["redis"] = redisClient.Health

	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Health(context.Background()); err != nil {
			log.Fatalf("Database health check failed: %v", err)
		}
		if err := postgres.NewMigration(db.GetDB(), log).RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}

		deps.Storage = db.CartStorage()
		deps.Checks["database"] = db.Health

	default:
		log.Warn("Using in-memory cart storage; carts are lost on restart")
		deps.Storage = cart.NewMemoryStorage()
	}

	server := http.NewServer(cfg, deps)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
