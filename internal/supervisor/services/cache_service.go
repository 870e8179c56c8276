// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// GarbageCollector matches the persistent cache's value-log GC hook.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// CacheGCServiceConfig holds configuration for the cache GC service.
type CacheGCServiceConfig struct {
	// Interval is how often to run a GC cycle. Default: 10m
	Interval time.Duration

	// DiscardRatio is the minimum fraction of garbage in a value-log file
	// before it is rewritten. Default: 0.5
	DiscardRatio float64
}

// CacheGCService periodically reclaims value-log space in the persistent
// cache. Badger leaves GC scheduling to the application, and successive runs
// can each reclaim a file, so a cycle loops until there is nothing left.
type CacheGCService struct {
	gc     GarbageCollector
	config CacheGCServiceConfig
	logger zerolog.Logger
	name   string
}

// NewCacheGCService creates a new cache GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheGCService(gc GarbageCollector, cfg CacheGCServiceConfig, logger zerolog.Logger) *CacheGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 {
		cfg.DiscardRatio = 0.5
	}
	return &CacheGCService{
		gc:     gc,
		config: cfg,
		logger: logger.With().Str("service", "cache-gc").Logger(),
		name:   "cache-gc",
	}
}

// Serve implements suture.Service.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("cache GC service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache GC service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.collect()
		}
	}
}

// collect runs GC cycles until badger reports nothing left to rewrite.
func (s *CacheGCService) collect() {
	start := time.Now()
	cycles := 0
	for {
		err := s.gc.RunGC(s.config.DiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("cache GC cycle failed")
			return
		}
		cycles++
	}
	if cycles > 0 {
		s.logger.Debug().
			Int("cycles", cycles).
			Dur("duration", time.Since(start)).
			Msg("cache GC reclaimed space")
	}
}

// String returns the service name for logging.
func (s *CacheGCService) String() string {
	return s.name
}
