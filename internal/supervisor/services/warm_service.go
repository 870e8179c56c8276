// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/borskip/reeltrack/internal/models"
)

// BrowseCatalog is the slice of the catalog client the warmer needs. The
// calls populate the catalog cache as a side effect; results are discarded.
type BrowseCatalog interface {
	Trending(ctx context.Context) ([]models.MovieRef, error)
	Popular(ctx context.Context) ([]models.MovieRef, error)
	NowPlaying(ctx context.Context) ([]models.MovieRef, error)
	Upcoming(ctx context.Context) ([]models.MovieRef, error)
}

// CatalogWarmServiceConfig holds configuration for the catalog warmer.
type CatalogWarmServiceConfig struct {
	// WarmOnStartup triggers a warming pass when the service starts.
	WarmOnStartup bool

	// Interval is how often to refresh the browse caches. Default: 30m
	Interval time.Duration
}

// CatalogWarmService keeps the browse endpoints warm so the first request
// after a cache expiry does not pay the upstream round trip. Failures are
// logged and retried on the next tick; the circuit breaker in the catalog
// client keeps a broken upstream from being hammered.
type CatalogWarmService struct {
	catalog BrowseCatalog
	config  CatalogWarmServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewCatalogWarmService creates a new catalog warming service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogWarmService(catalog BrowseCatalog, cfg CatalogWarmServiceConfig, logger zerolog.Logger) *CatalogWarmService {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	return &CatalogWarmService{
		catalog: catalog,
		config:  cfg,
		logger:  logger.With().Str("service", "catalog-warm").Logger(),
		name:    "catalog-warm",
	}
}

// Serve implements suture.Service.
func (s *CatalogWarmService) Serve(ctx context.Context) error {
	if s.config.WarmOnStartup {
		s.warm(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("catalog warm service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog warm service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

// warm refreshes each browse list in turn. A single failure does not stop
// the remaining fetches.
func (s *CatalogWarmService) warm(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	start := time.Now()
	fetches := []struct {
		name  string
		fetch func(context.Context) ([]models.MovieRef, error)
	}{
		{"trending", s.catalog.Trending},
		{"popular", s.catalog.Popular},
		{"now_playing", s.catalog.NowPlaying},
		{"upcoming", s.catalog.Upcoming},
	}

	failed := 0
	for _, f := range fetches {
		if _, err := f.fetch(warmCtx); err != nil {
			s.logger.Warn().Str("list", f.name).Err(err).Msg("catalog warm fetch failed")
			failed++
		}
	}

	s.logger.Debug().
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("catalog warm pass complete")
}

// String returns the service name for logging.
func (s *CatalogWarmService) String() string {
	return s.name
}
