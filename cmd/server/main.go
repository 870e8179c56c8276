// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package main is the entry point for the Reeltrack server.
//
// Reeltrack is a self-hosted shared watchlist tracker for a small circle of
// people who watch movies together. It keeps personal lists, a shared
// watchlist with want-to-see voting and scheduling, watch history with star
// ratings, and serves taste-based recommendations built from each user's
// highly rated movies.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered load (defaults, config file, env vars)
//  2. Logging: zerolog, JSON by default
//  3. Database: DuckDB holding the four watchlist collections
//  4. Cache: in-memory LRU, optionally tiered over a BadgerDB directory
//  5. Catalog: rate-limited, circuit-broken movie metadata client
//  6. Watchlist manager and recommendation engine
//  7. HTTP server under a suture supervisor tree
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// connections, then the cache and database close.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/borskip/reeltrack/internal/api"
	"github.com/borskip/reeltrack/internal/cache"
	"github.com/borskip/reeltrack/internal/catalog"
	"github.com/borskip/reeltrack/internal/config"
	"github.com/borskip/reeltrack/internal/database"
	"github.com/borskip/reeltrack/internal/logging"
	"github.com/borskip/reeltrack/internal/recommend"
	"github.com/borskip/reeltrack/internal/supervisor"
	"github.com/borskip/reeltrack/internal/supervisor/services"
	"github.com/borskip/reeltrack/internal/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Str("db_path", cfg.Database.Path).
		Str("catalog_url", cfg.Catalog.BaseURL).
		Msg("Starting Reeltrack")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// The catalog cache is always backed by memory; a configured persist
	// path adds a Badger layer underneath so browse lists survive restarts.
	var cacher cache.Cacher = cache.NewMemory()
	var persistent *cache.Badger
	if cfg.Cache.PersistPath != "" {
		persistent, err = cache.NewBadger(cfg.Cache.PersistPath)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open persistent cache")
		}
		cacher = cache.NewTiered(cacher, persistent)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	catalogClient := catalog.New(&cfg.Catalog, &cfg.Cache, cacher)

	manager := watchlist.New(db)
	manager.OnMutation(func(inv watchlist.Invalidation) {
		logging.Debug().
			Str("user_id", inv.UserID).
			Int("movie_id", inv.MovieID).
			Int("views", len(inv.Views)).
			Msg("watchlist views invalidated")
	})

	engine := recommend.New(manager, catalogClient)

	server := api.NewServer(&cfg.Server, manager, engine, catalogClient)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog wants slog; the adapter routes it back through zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewCatalogWarmService(catalogClient, services.CatalogWarmServiceConfig{
		WarmOnStartup: true,
		Interval:      cfg.Cache.BrowseTTL,
	}, logging.Logger()))
	if persistent != nil {
		tree.AddMaintenanceService(services.NewCacheGCService(persistent, services.CacheGCServiceConfig{}, logging.Logger()))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", cfg.Server.Addr).Msg("Reeltrack is up")

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		select {
		case <-errCh:
		case <-time.After(cfg.Server.ShutdownTimeout + 5*time.Second):
			if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
				logging.Warn().Int("count", len(report)).Msg("Services did not stop in time")
			}
		}
	case err := <-errCh:
		if err != nil && !isContextErr(err) {
			logging.Error().Err(err).Msg("Supervisor tree exited with error")
		}
	}

	logging.Info().Msg("Reeltrack stopped")
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
