// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

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

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/api"
	"github.com/tomtom215/usagelens/internal/cache"
	"github.com/tomtom215/usagelens/internal/config"
	"github.com/tomtom215/usagelens/internal/ingest"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/pipeline"
	"github.com/tomtom215/usagelens/internal/supervisor"
	"github.com/tomtom215/usagelens/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Strs("sources", cfg.Data.Sources).
		Msg("Starting usagelens")

	engine, err := analytics.New(cfg.Analytics)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid analytics thresholds")
	}

	pipe := pipeline.New(pipeline.Config{
		Sources: pipeline.SourceSpecs(cfg.Data.Dir, cfg.SourceList(), cfg.Data.Files),
		Loader: ingest.Config{
			MaxRows:       cfg.Loader.MaxRows,
			MaxFieldBytes: cfg.Loader.MaxFieldBytes,
			SyntheticRows: cfg.Loader.SyntheticRows,
			Concurrency:   cfg.Loader.Concurrency,
		},
	})

	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}

	handler := api.NewHandler(engine, pipe, responseCache, cfg.API)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewBuildService(pipe, cfg.Loader.BuildTimeout))
	if responseCache != nil {
		tree.AddDataService(responseCache)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one value and never closes errCh.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
