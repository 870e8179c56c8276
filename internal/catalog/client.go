// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package catalog implements a read-through client for a TMDB-compatible
// movie metadata API.
//
// Every lookup goes through a byte-level cache keyed by endpoint and
// parameters, with TTLs per response type (details 1h, search 15m, similar
// 30m, browse lists 1h). Misses pass a token-bucket rate limiter and a
// circuit breaker before touching the network; when the catalog is down the
// breaker rejects calls immediately instead of stacking timeouts.
//
// All failures surface as ErrCatalogUnavailable. The watchlist itself never
// depends on the catalog being up; entries carry their own snapshots.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/borskip/reeltrack/internal/cache"
	"github.com/borskip/reeltrack/internal/config"
	"github.com/borskip/reeltrack/internal/logging"
	"github.com/borskip/reeltrack/internal/metrics"
)

// ErrCatalogUnavailable is returned for every catalog failure mode: network
// errors, non-2xx responses, malformed payloads, and an open circuit breaker.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// maxErrorBodySize caps how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// Client talks to the catalog API.
//
// Thread safety: safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   cache.Cacher
	ttl     config.CacheConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     zerolog.Logger
}

// New builds a catalog client over the given cache. The cache may be
// memory-only or tiered with a persistent layer; the client does not care.
func New(cfg *config.CatalogConfig, ttl *config.CacheConfig, cacher cache.Cacher) *Client {
	log := logging.With().Str("component", "catalog").Logger()

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog-api",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cacher,
		ttl:     *ttl,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker: breaker,
		log:     log,
	}
}

// get fetches path with the given query, read-through cached under cacheKey
// for ttl. The raw response body is what gets cached, so a hit skips both the
// limiter and the breaker.
func (c *Client) get(ctx context.Context, cacheKey string, ttl time.Duration, path string, query url.Values) ([]byte, error) {
	if body, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHits.WithLabelValues("catalog").Inc()
		return body, nil
	}
	metrics.CacheMisses.WithLabelValues("catalog").Inc()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn().Str("path", path).Msg("catalog request rejected by open breaker")
		}
		metrics.CatalogRequests.WithLabelValues(endpointLabel(cacheKey), "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	metrics.CatalogRequests.WithLabelValues(endpointLabel(cacheKey), "success").Inc()

	c.cache.Set(cacheKey, body, ttl)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("catalog returned %d for %s: %s", resp.StatusCode, path, firstLine(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return body, nil
}

// endpointLabel reduces a cache key to its kind prefix so metric labels stay
// low-cardinality regardless of IDs and queries in the key.
func endpointLabel(cacheKey string) string {
	for i, r := range cacheKey {
		if r == ':' {
			return cacheKey[:i]
		}
	}
	return cacheKey
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
