package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/di"
	"github.com/ashestree87/socialize/internal/worker"
	"github.com/ashestree87/socialize/pkg/config"
	"github.com/ashestree87/socialize/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       level,
		ServiceName: cfg.App.Name + "-worker",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}
	defer container.Close()

	pool := worker.NewPool(container.Queue, container.UploadService, worker.Config{
		Workers:    cfg.Publish.Workers,
		JobTimeout: cfg.Publish.StepTimeout,
	})
	pool.Start(ctx)

	logger.Info("publish worker running",
		zap.Int("workers", cfg.Publish.Workers),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)

	<-ctx.Done()
	logger.Info("shutting down publish worker")

	pool.Stop()

	stats := pool.Stats()
	logger.Info("publish worker stopped",
		zap.Uint64("processed", stats.Processed),
		zap.Uint64("failed", stats.Failed),
	)
}
