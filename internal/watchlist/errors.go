// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package watchlist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoUser is returned when an operation requires a user identity and
	// none was supplied.
	ErrNoUser = errors.New("no user identity")

	// ErrDuplicateEntry is returned when an add operation targets a
	// collection that already holds an entry for the same key.
	ErrDuplicateEntry = errors.New("entry already exists")

	// ErrMovieNotFound is returned when an operation references a movie
	// that is in none of the collections it could be resolved from.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidDate is returned when a schedule date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrStoreUnavailable wraps storage failures so callers can
	// distinguish them from domain errors.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// PartialRemovalError reports a cascade removal where some collections were
// cleaned and others failed. Removal is retryable: re-running the operation
// only touches the collections that still hold rows.
type PartialRemovalError struct {
	Failures map[string]error
}

func (e *PartialRemovalError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for collection, err := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", collection, err))
	}
	return "partial removal: " + strings.Join(parts, "; ")
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
