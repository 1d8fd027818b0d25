package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/app"
	"github.com/kailas-cloud/mentordex/internal/config"
	logpkg "github.com/kailas-cloud/mentordex/internal/logger"
	"github.com/kailas-cloud/mentordex/internal/metrics"
	chiTransport "github.com/kailas-cloud/mentordex/internal/transport/chi"
	indexeruc "github.com/kailas-cloud/mentordex/internal/usecase/indexer"
	"github.com/kailas-cloud/mentordex/internal/version"
)

// reindexTimeout bounds one reindex run, scheduled or at start-up.
const reindexTimeout = 10 * time.Minute

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mentordex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("directory_dsn", cfg.Directory.DSN),
		zap.String("search_index_driver", cfg.SearchIndex.Driver),
		zap.Strings("search_index_addrs", cfg.SearchIndex.Addrs),
	)

	// Register search metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialise", zap.Error(err))
	}
	defer a.Close()
	logger.Info("Directory ready", zap.Bool("advanced_index", a.Index != nil))

	scheduler := startIndexer(a.Indexer, cfg.Indexer.ScheduleSpec(), logger)

	server := chiTransport.NewServer(a.Services(), chiTransport.Limits{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("Reindex still running at shutdown")
		}
	}

	logger.Info("Server stopped gracefully")
}

// startIndexer runs one reindex in the background and schedules the rest.
// Returns nil when there is no index or scheduling is disabled.
func startIndexer(idx *indexeruc.Service, spec string, logger *zap.Logger) *indexeruc.Scheduler {
	if idx == nil {
		return nil
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
		defer cancel()
		if _, err := idx.Run(ctx); err != nil {
			logger.Error("Start-up reindex failed", zap.Error(err))
		}
	}()

	if spec == "" {
		logger.Info("Scheduled reindex disabled")
		return nil
	}
	scheduler, err := indexeruc.NewScheduler(idx, spec, reindexTimeout, logger)
	if err != nil {
		logger.Fatal("Invalid reindex schedule", zap.Error(err))
	}
	scheduler.Start()
	logger.Info("Scheduled reindex", zap.String("schedule", spec))
	return scheduler
}
