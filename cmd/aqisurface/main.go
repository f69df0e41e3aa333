package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/aqi-surface/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/aqi-surface/internal/adapter/kafka"
	"github.com/couchcryptid/aqi-surface/internal/adapter/sqlite"
	"github.com/couchcryptid/aqi-surface/internal/adapter/synthetic"
	"github.com/couchcryptid/aqi-surface/internal/adapter/waqi"
	"github.com/couchcryptid/aqi-surface/internal/config"
	"github.com/couchcryptid/aqi-surface/internal/observability"
	"github.com/couchcryptid/aqi-surface/internal/service"
	"github.com/couchcryptid/aqi-surface/internal/surface"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metric, err := surface.ParseMetric(cfg.DistanceMetric)
	if err != nil {
		logger.Error("invalid distance metric", "error", err)
		os.Exit(1)
	}

	opts := service.Options{
		Metric:          metric,
		DefaultParams:   cfg.Grid,
		CacheSize:       cfg.GridCacheSize,
		RefreshInterval: cfg.RefreshInterval,
		Metrics:         metrics,
		Logger:          logger,
	}

	// Station sources (feature-flagged via WAQI_ENABLED / WAQI_TOKEN).
	if cfg.WAQIEnabled {
		opts.Primary = waqi.NewClient(cfg.WAQIToken, cfg.WAQIBaseURL, cfg.WAQITimeout, cfg.RegionBounds, cfg.RegionKeywords, logger)
		logger.Info("waqi source enabled", "bounds", cfg.RegionBounds.String(), "timeout", cfg.WAQITimeout)
	} else {
		logger.Info("waqi source disabled")
	}

	var store *sqlite.Store
	if cfg.SnapshotDBPath != "" {
		store, err = sqlite.Open(ctx, cfg.SnapshotDBPath, cfg.SnapshotRetain, logger)
		if err != nil {
			logger.Error("failed to open snapshot store", "error", err)
			os.Exit(1)
		}
		opts.Store = store
	}

	if cfg.SyntheticFallback {
		opts.Fallback = synthetic.NewGenerator(cfg.RegionBounds, cfg.SyntheticCount)
		logger.Info("synthetic fallback enabled", "count", cfg.SyntheticCount)
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		logger.Info("grid events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaGridTopic)
	}

	svc, err := service.New(opts)
	if err != nil {
		logger.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.CORSOrigins, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error("refresh loop error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("snapshot store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
