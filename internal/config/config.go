// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package config loads and validates application configuration using Koanf v2
// with layered sources: struct defaults, an optional YAML file, and
// REELTRACK_-prefixed environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Cache    CacheConfig    `koanf:"cache"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `koanf:"addr"`

	// ReadTimeout bounds reading the full request, including body.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown on exit.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitPerMinute caps requests per client IP per minute.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// CORSOrigins lists allowed CORS origins. Empty allows none.
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig configures the DuckDB store.
type DatabaseConfig struct {
	// Path is the database file path. ":memory:" opens an ephemeral store.
	Path string `koanf:"path"`

	// MaxMemory is DuckDB's memory limit (e.g. "512MB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is DuckDB's thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// CatalogConfig configures the metadata catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog API root.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates catalog requests.
	APIKey string `koanf:"api_key"`

	// Timeout bounds a single catalog HTTP call.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond rate-limits outgoing catalog calls.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// BreakerFailureThreshold is the consecutive-failure count that opens
	// the circuit breaker.
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold"`

	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// CacheConfig configures catalog response caching.
type CacheConfig struct {
	// PersistPath is the BadgerDB directory for the persistent catalog
	// cache. Empty disables persistence; caching is memory-only.
	PersistPath string `koanf:"persist_path"`

	// DetailsTTL is the lifetime of cached detail lookups.
	DetailsTTL time.Duration `koanf:"details_ttl"`

	// SearchTTL is the lifetime of cached search results.
	SearchTTL time.Duration `koanf:"search_ttl"`

	// SimilarTTL is the lifetime of cached similar-movie results.
	SimilarTTL time.Duration `koanf:"similar_ttl"`

	// BrowseTTL is the lifetime of cached browse lists (now playing,
	// upcoming, trending, popular, top rated, genres).
	BrowseTTL time.Duration `koanf:"browse_ttl"`
}

// LoggingConfig configures the logging package.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url must not be empty")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("catalog.requests_per_second must be positive, got %g", c.Catalog.RequestsPerSecond)
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be positive, got %d", c.Server.RateLimitPerMinute)
	}
	return nil
}
