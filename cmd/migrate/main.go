package main

// Run database migrations:
//   go run ./cmd/migrate            apply pending migrations
//   go run ./cmd/migrate -status    list applied state

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"financial-health-workers/internal/common/config"
	"financial-health-workers/internal/common/database"
	"financial-health-workers/internal/common/logger"
)

func main() {
	status := flag.Bool("status", false, "print migration status instead of migrating")
	configPath := flag.String("config", "", "config file (defaults to configs/config.yaml)")
	flag.Parse()

	log := logger.New("info", "console")
	defer log.Sync()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	if *status {
		if err := database.MigrationStatus(ctx, pg.DB); err != nil {
			log.Fatal("failed to read migration status", zap.Error(err))
		}
		return
	}

	files, _ := database.MigrationFiles()
	if err := database.RunMigrations(ctx, pg.DB); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("migrations applied", zap.Strings("files", files))
}
