// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package models defines the core data types shared across the application:
// catalog snapshots, watchlist entries, and API response envelopes.
package models

import (
	"strings"
	"time"
)

// MovieRef is an immutable snapshot of catalog data for a single movie or show.
//
// Entries embed a MovieRef by value at insert time (denormalized snapshot, not a
// live reference) so that historical entries remain stable even if the catalog
// later changes its data for the same ID.
type MovieRef struct {
	// ID is the catalog's integer identifier and the join key across all
	// watchlist collections.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// ReleaseDate is the catalog release date in YYYY-MM-DD form.
	// May be empty for unreleased or poorly-catalogued titles.
	ReleaseDate string `json:"release_date,omitempty"`

	// PosterPath is the catalog's poster image reference.
	PosterPath string `json:"poster_path,omitempty"`

	// Genres is the list of genre names.
	Genres []string `json:"genres,omitempty"`

	// Director is the credited director, when known.
	Director string `json:"director,omitempty"`

	// Actors is the top-billed cast, when known.
	Actors []string `json:"actors,omitempty"`

	// CommunityRating is the catalog's own average rating on a 0-10 scale.
	CommunityRating float64 `json:"community_rating,omitempty"`

	// Popularity is the catalog's popularity metric, used only as a
	// tie-breaker when ranking recommendations.
	Popularity float64 `json:"popularity,omitempty"`
}

// Released reports the release time parsed from ReleaseDate.
// Returns the zero time when the date is absent or unparseable.
func (m *MovieRef) Released() time.Time {
	if m.ReleaseDate == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SharesGenre reports whether the movie shares at least one genre with other,
// along with the number of matching genres.
func (m *MovieRef) SharesGenre(other *MovieRef) (bool, int) {
	if len(m.Genres) == 0 || len(other.Genres) == 0 {
		return false, 0
	}
	set := make(map[string]struct{}, len(other.Genres))
	for _, g := range other.Genres {
		set[strings.ToLower(g)] = struct{}{}
	}
	matches := 0
	for _, g := range m.Genres {
		if _, ok := set[strings.ToLower(g)]; ok {
			matches++
		}
	}
	return matches > 0, matches
}

// SharedActors returns the cast members the movie has in common with other.
// Comparison is case-sensitive on full names, matching catalog credit strings.
func (m *MovieRef) SharedActors(other *MovieRef) []string {
	if len(m.Actors) == 0 || len(other.Actors) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(other.Actors))
	for _, a := range other.Actors {
		set[a] = struct{}{}
	}
	var common []string
	for _, a := range m.Actors {
		if _, ok := set[a]; ok {
			common = append(common, a)
		}
	}
	return common
}

// MovieDetails is the catalog's full record for a single title, a superset of
// MovieRef returned by detail lookups.
type MovieDetails struct {
	MovieRef

	// Overview is the catalog synopsis.
	Overview string `json:"overview,omitempty"`

	// RuntimeMinutes is the runtime, when known.
	RuntimeMinutes int `json:"runtime_minutes,omitempty"`

	// Tagline is the marketing tagline.
	Tagline string `json:"tagline,omitempty"`

	// VoteCount is the number of community votes behind CommunityRating.
	VoteCount int `json:"vote_count,omitempty"`

	// Status is the catalog release status (Released, Post Production, ...).
	Status string `json:"status,omitempty"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
