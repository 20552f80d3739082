package main

import (
	"context"
	"log"

	"github.com/greenworld/garden-backend/internal/config"
	"github.com/greenworld/garden-backend/internal/db"
	"github.com/greenworld/garden-backend/internal/repository"
	"github.com/greenworld/garden-backend/internal/server"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("auto migrate error", zap.Error(err))
	}

	catalogSvc := service.NewCatalogService(repository.NewCatalogRepository(conn))
	seeded, err := catalogSvc.SeedDefault(context.Background())
	if err != nil {
		logger.Fatal("catalog seed error", zap.Error(err))
	}
	if seeded {
		logger.Info("tree catalog initialized")
	}

	srv := server.New(conn, cfg, logger)
	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
