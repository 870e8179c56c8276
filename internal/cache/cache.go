// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package cache provides TTL caching for catalog responses.
//
// Two implementations share the Cacher interface: Memory, a thread-safe
// in-process map with background expiry, and Badger, a BadgerDB-backed store
// that survives restarts. Tiered layers the two so hot entries are served
// from memory while the persistent layer absorbs cold starts.
//
// Values are opaque byte slices; callers own serialization. The cache is an
// optimization layer only and is never part of the correctness contract.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Cacher is the interface all cache implementations satisfy.
type Cacher interface {
	// Get retrieves a value. Returns false when absent or expired.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes a value.
	Delete(key string)

	// Close releases any resources held by the cache.
	Close() error
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// entry is a cached value with its expiry.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-memory cache with per-entry TTL.
// A background goroutine sweeps expired entries every cleanupInterval.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   Stats
	done    chan struct{}
	once    sync.Once
}

const cleanupInterval = 5 * time.Minute

// NewMemory creates a memory cache and starts its cleanup goroutine.
func NewMemory() *Memory {
	c := &Memory{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a value, expiring it on read when stale.
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.stats.Misses++
		c.stats.Evictions++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	return e.value, true
}

// Set stores a value with the given TTL. Non-positive TTLs are ignored.
func (c *Memory) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a value.
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// GetStats returns a snapshot of the cache counters.
func (c *Memory) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the hit rate as a percentage.
func (c *Memory) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total) * 100
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *Memory) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

func (c *Memory) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
}

// Key builds a stable cache key from a type prefix and its parts. Long or
// user-supplied parts are hashed so keys stay bounded.
func Key(kind string, parts ...string) string {
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += "\x00"
		}
		joined += p
	}
	if len(joined) > 64 {
		return fmt.Sprintf("%s:%x", kind, sha256.Sum256([]byte(joined)))
	}
	return kind + ":" + joined
}
