// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package main is the entry point for the feedrank server.
//
// Feedrank serves a personalized "For You" feed over the devotional
// recording catalog. Each request blends recency, engagement, channel
// diversity, unseen bonus, and a random component into a weighted
// shuffle whose result stays stable for an hour per user.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML, env)
//  2. Logging: zerolog, JSON by default
//  3. Ordering store: in-memory map or BadgerDB, per config
//  4. Backend clients: playback history (circuit breaker) and catalog
//  5. Ranker: seeded weighted-shuffle core
//  6. Supervisor tree: cache janitor and HTTP server under suture
//
// # Configuration
//
// Required settings:
//   - FEEDRANK_BACKEND_URL: backend REST root
//   - FEEDRANK_BACKEND_API_KEY: backend API key
//
// Example:
//
//	export FEEDRANK_BACKEND_URL=https://backend.example.com
//	export FEEDRANK_BACKEND_API_KEY=secret
//	export FEEDRANK_CACHE_TYPE=badger
//	export FEEDRANK_CACHE_PATH=/var/lib/feedrank
//	./feedrank
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server stops
// accepting connections, in-flight requests get the configured timeout
// to finish, and the ordering store is closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhaktistream/feedrank/internal/api"
	"github.com/bhaktistream/feedrank/internal/cache"
	"github.com/bhaktistream/feedrank/internal/catalog"
	"github.com/bhaktistream/feedrank/internal/config"
	"github.com/bhaktistream/feedrank/internal/history"
	"github.com/bhaktistream/feedrank/internal/logging"
	"github.com/bhaktistream/feedrank/internal/rank"
	"github.com/bhaktistream/feedrank/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so log with a bare default.
		fallback := logging.Init(logging.Config{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Ranker.CacheTTL).
		Msg("starting feedrank")

	store, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize ordering store")
	}
	defer closeStore()

	historyClient := history.NewClient(history.ClientConfig{
		BaseURL:           cfg.Backend.URL,
		APIKey:            cfg.Backend.APIKey,
		Limit:             cfg.Backend.HistoryLimit,
		Timeout:           cfg.Backend.Timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	}, logger)

	catalogClient := catalog.NewClient(catalog.ClientConfig{
		BaseURL:           cfg.Backend.URL,
		APIKey:            cfg.Backend.APIKey,
		Limit:             cfg.Backend.CatalogLimit,
		Timeout:           cfg.Backend.Timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	}, logger)

	ranker, err := rank.NewRanker(cfg.RankConfig(), historyClient, store, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize ranker")
	}

	handlers := api.NewHandlers(ranker, catalogClient, logger)
	router := api.NewRouter(api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow,
	}, handlers, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if sweeper, ok := store.(cache.Sweeper); ok {
		tree.AddDataService(cache.NewJanitor(sweeper, cfg.Cache.SweepInterval, logger))
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logger.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logger.Info().Msg("stopped gracefully")
}

// buildStore constructs the ordering store selected by the config and
// returns a close function for shutdown.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func buildStore(cfg *config.Config, logger zerolog.Logger) (rank.Store, func(), error) {
	switch cfg.Cache.Type {
	case "badger":
		store, err := cache.NewBadger(cfg.Cache.Path, cfg.Cache.Retention)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing badger store")
			}
		}
		return store, closeFn, nil
	default:
		return cache.NewMemory(cfg.Cache.Retention), func() {}, nil
	}
}
