package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/insurance-quote-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/insurance-quote-service/internal/adapter/kafka"
	"github.com/couchcryptid/insurance-quote-service/internal/adapter/mapbox"
	"github.com/couchcryptid/insurance-quote-service/internal/adapter/pdf"
	"github.com/couchcryptid/insurance-quote-service/internal/adapter/recordstore"
	"github.com/couchcryptid/insurance-quote-service/internal/config"
	"github.com/couchcryptid/insurance-quote-service/internal/domain"
	"github.com/couchcryptid/insurance-quote-service/internal/intake"
	"github.com/couchcryptid/insurance-quote-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := recordstore.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	logger.Info("record store ready", "driver", cfg.StoreDriver, "path", cfg.StorePath)

	font, err := pdf.LoadFont(cfg.PDFFontPath)
	if err != nil {
		logger.Error("failed to load summary font", "path", cfg.PDFFontPath, "error", err)
		os.Exit(1)
	}
	renderer := pdf.NewRenderer(font)

	// Submission events (feature-flagged via KAFKA_ENABLED).
	var publisher intake.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("submission events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("submission events disabled")
	}

	// Geocoding fallback for landmark lookups (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout, "region", cfg.MapboxRegion)
	} else {
		logger.Info("mapbox geocoding disabled")
	}
	locator := domain.NewLocator(geocoder, cfg.MapboxRegion, logger)

	svc := intake.New(store, renderer, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, locator, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
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
	if err := store.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
