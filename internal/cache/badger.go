// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/borskip/reeltrack/internal/logging"
)

// Badger is a BadgerDB-backed cache. Entries carry Badger-native TTLs, so
// expiry is enforced by the store itself and survives process restarts.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) a Badger cache at dir.
func NewBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil) // badger's own logger is noisy; errors surface via return values

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %s: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

// Get retrieves a value. Badger handles expiry; a missing or expired key
// reports a miss.
func (b *Badger) Get(key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache read failed")
		return nil, false
	}
	return value, true
}

// Set stores a value with the given TTL. Write failures are logged and
// swallowed; the cache is an optimization, not a system of record.
func (b *Badger) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache write failed")
	}
}

// Delete removes a value.
func (b *Badger) Delete(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache delete failed")
	}
}

// Close closes the underlying BadgerDB.
// RunGC reclaims value-log space. Badger leaves garbage collection to the
// caller, so run this periodically. Returns badger.ErrNoRewrite when there
// was nothing to collect.
func (b *Badger) RunGC(discardRatio float64) error {
	return b.db.RunValueLogGC(discardRatio)
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// Tiered layers a fast cache in front of a slower persistent one. Reads check
// the fast layer first and promote persistent hits; writes go to both.
type Tiered struct {
	fast Cacher
	slow Cacher
}

// NewTiered combines a fast and a slow cache.
func NewTiered(fast, slow Cacher) *Tiered {
	return &Tiered{fast: fast, slow: slow}
}

// Get checks the fast layer, then the slow layer. A slow-layer hit is promoted
// into the fast layer with a short TTL so repeat reads stay in memory.
func (t *Tiered) Get(key string) ([]byte, bool) {
	if v, ok := t.fast.Get(key); ok {
		return v, true
	}
	v, ok := t.slow.Get(key)
	if ok {
		// Promotion TTL is deliberately short; the slow layer remains the
		// authority on entry lifetime.
		t.fast.Set(key, v, time.Minute)
	}
	return v, ok
}

// Set writes to both layers.
func (t *Tiered) Set(key string, value []byte, ttl time.Duration) {
	t.fast.Set(key, value, ttl)
	t.slow.Set(key, value, ttl)
}

// Delete removes the key from both layers.
func (t *Tiered) Delete(key string) {
	t.fast.Delete(key)
	t.slow.Delete(key)
}

// Close closes both layers, returning the first error encountered.
func (t *Tiered) Close() error {
	errFast := t.fast.Close()
	errSlow := t.slow.Close()
	if errFast != nil {
		return errFast
	}
	return errSlow
}
