package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/db"
	"github.com/ads-marketplace/adcopy/internal/events"
	apphttp "github.com/ads-marketplace/adcopy/internal/http"
	"github.com/ads-marketplace/adcopy/internal/http/handlers"
	"github.com/ads-marketplace/adcopy/internal/llm"
	"github.com/ads-marketplace/adcopy/internal/productparser"
	"github.com/ads-marketplace/adcopy/internal/repositories"
	"github.com/ads-marketplace/adcopy/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Completion provider
	client, err := llm.New(ctx, cfg.LLM(), log)
	if err != nil {
		log.Fatal("failed to create completion client", zap.Error(err))
	}

	// Repositories
	generationRepo := repositories.NewGenerationRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	generationService := services.NewGenerationService(client, generationRepo, publisher, services.GenerationSettings{
		Provider:     cfg.LLMProvider,
		Platforms:    cfg.Platforms,
		Concurrency:  cfg.GenerationConcurrency,
		CallTimeout:  cfg.CompletionTimeout,
		MaxPlatforms: cfg.MaxPlatforms,
	}, log)

	// Handlers
	wsHub := handlers.NewWSHub(cfg, subscriber, log)
	h := apphttp.Handlers{
		Auth:       handlers.NewAuthHandler(cfg, log),
		Meta:       handlers.NewMetaHandler(generationService.Platforms()),
		Generation: handlers.NewGenerationHandler(generationService, generationRepo, log),
		Product:    handlers.NewProductHandler(productparser.NewParser(cfg.ProductFetchTimeoutMS, cfg.ProductFetchMaxRetries, log), log),
		WSHub:      wsHub,
	}

	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to start ws hub", zap.Error(err))
	}

	app := apphttp.NewApp()
	apphttp.SetupRouter(app, cfg, log, rdb, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server",
		zap.String("addr", addr),
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", client.Model()),
	)
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
