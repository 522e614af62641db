package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/app"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	"github.com/lucero-pos/lucero-pos/internal/platform/cache"
	"github.com/lucero-pos/lucero-pos/internal/platform/db"
	"github.com/lucero-pos/lucero-pos/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() { _ = redisClient.Close() }()

	journalsRepo := journals.NewRepository(pool)
	priceCache := products.NewPriceCache(redisClient, cfg.PriceCacheTTL)
	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(logger, productsRepo, nil, priceCache)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerIntegrity, Handler: jobs.NewLedgerIntegrityHandler(logger, journalsRepo)},
			{Type: jobs.TaskPriceCacheWarm, Handler: jobs.NewPriceCacheWarmHandler(logger, productsService)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewLedgerIntegrityTask()},
			{Spec: "30 6 * * *", Task: jobs.NewPriceCacheWarmTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
