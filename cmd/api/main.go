package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/di"
	"github.com/ashestree87/socialize/internal/handler"
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
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}
	defer container.Close()

	// Without Kafka the queue is in-process, so publish jobs must be
	// consumed here rather than by a separate worker binary.
	if !cfg.Kafka.Enabled {
		pool := worker.NewPool(container.Queue, container.UploadService, worker.Config{
			Workers:    cfg.Publish.Workers,
			JobTimeout: cfg.Publish.StepTimeout,
		})
		pool.Start(ctx)
		defer pool.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handler.SetupRoutes(router, container.RouterConfig())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting api server",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("api server stopped")
}
