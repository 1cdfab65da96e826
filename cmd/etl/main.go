package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	csvadapter "github.com/couchcryptid/globe-suffering-etl/internal/adapter/csv"
	"github.com/couchcryptid/globe-suffering-etl/internal/adapter/geojson"
	httpadapter "github.com/couchcryptid/globe-suffering-etl/internal/adapter/http"
	"github.com/couchcryptid/globe-suffering-etl/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/globe-suffering-etl/internal/adapter/kafka"
	"github.com/couchcryptid/globe-suffering-etl/internal/adapter/xlsx"
	"github.com/couchcryptid/globe-suffering-etl/internal/config"
	"github.com/couchcryptid/globe-suffering-etl/internal/observability"
	"github.com/couchcryptid/globe-suffering-etl/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	sources := pipeline.Sources{
		Disasters: []pipeline.TableSource{csvadapter.NewReader(cfg.DisastersCSV, logger)},
		Emissions: csvadapter.NewReader(cfg.EmissionsCSV, logger),
	}
	if cfg.DisastersXLSX != "" {
		sources.Disasters = append(sources.Disasters, xlsx.NewReader(cfg.DisastersXLSX, cfg.DisastersXLSXSheet, logger))
	}
	if cfg.BoundariesGeoJSON != "" {
		sources.Boundaries = geojson.NewReader(cfg.BoundariesGeoJSON, logger)
	}

	loaders := []pipeline.NamedLoader{
		{Name: "jsonfile", Loader: jsonfile.NewWriter(cfg.OutputDir, logger)},
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, pipeline.NamedLoader{Name: "kafka", Loader: writer})
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}
	store := httpadapter.NewDocumentStore()
	if cfg.Serve {
		loaders = append(loaders, pipeline.NamedLoader{Name: "http", Loader: store})
	}

	p := pipeline.New(sources, cfg.BuildOptions(), loaders, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.Serve {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
				stop()
			}
		}()
	}

	exitCode := 0
	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		exitCode = 1
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); err != nil {
			logger.Error("metrics textfile write error", "error", err)
		}
	}

	if srv == nil {
		return exitCode
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return exitCode
}
