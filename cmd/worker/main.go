package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/db"
	"github.com/ads-marketplace/adcopy/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.RunRetentionDays <= 0 {
		log.Info("RUN_RETENTION_DAYS is 0, nothing to do")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	generationRepo := repositories.NewGenerationRepo(pool)
	retention := time.Duration(cfg.RunRetentionDays) * 24 * time.Hour

	log.Info("worker started", zap.Int("retention_days", cfg.RunRetentionDays))

	pruneTicker := time.NewTicker(1 * time.Hour)
	defer pruneTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runPrune(ctx, generationRepo, retention, log)
	for {
		select {
		case <-pruneTicker.C:
			runPrune(ctx, generationRepo, retention, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runPrune(ctx context.Context, repo *repositories.GenerationRepo, retention time.Duration, log *zap.Logger) {
	n, err := repo.DeleteOlderThan(ctx, retention)
	if err != nil {
		log.Error("failed to prune generation runs", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("pruned generation runs", zap.Int64("deleted", n))
	}
}
