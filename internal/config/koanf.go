// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched, in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reeltrack/config.yaml",
	"/etc/reeltrack/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "REELTRACK_CONFIG"

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "REELTRACK_"

// Default returns a Config with all default values. These are applied first,
// then overridden by the config file and environment variables.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8480",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimitPerMinute: 300,
			CORSOrigins:        []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Path:      "/data/reeltrack.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Catalog: CatalogConfig{
			BaseURL:                 "https://api.themoviedb.org/3",
			Timeout:                 10 * time.Second,
			RequestsPerSecond:       4,
			BreakerFailureThreshold: 5,
			BreakerCooldown:         30 * time.Second,
		},
		Cache: CacheConfig{
			PersistPath: "",
			DetailsTTL:  time.Hour,
			SearchTTL:   15 * time.Minute,
			SimilarTTL:  30 * time.Minute,
			BrowseTTL:   time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults: built-in values from Default()
//  2. Config file: optional YAML file, if one exists
//  3. Environment variables: REELTRACK_-prefixed, highest priority
//
// Precedence: ENV > file > defaults. Environment variable names map to koanf
// paths by stripping the prefix, lowercasing, and replacing the first
// underscore with a dot: REELTRACK_SERVER_ADDR -> server.addr.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps REELTRACK_SECTION_SOME_KEY to section.some_key.
// Only the first underscore after the prefix becomes a section separator, so
// multi-word keys survive: REELTRACK_CATALOG_BASE_URL -> catalog.base_url.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
