// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package models

import "time"

// EntryKind discriminates the two personal collections that share the
// personal_entries table. It replaces the older null-rating discriminator:
// a row is on the personal list (no anticipation rating) or on the personal
// watchlist (carries a 1-10 want-to-see rating), never ambiguous.
type EntryKind int

const (
	// KindList marks a personal-list entry: a movie the user curates
	// individually, with no want-to-see rating.
	KindList EntryKind = iota
	// KindWatchlist marks a personal-watchlist entry: a movie the user wants
	// to see, carrying a want-to-see rating in [1.0, 10.0].
	KindWatchlist
)

// String returns the storage name for the entry kind.
func (k EntryKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindWatchlist:
		return "watchlist"
	default:
		return "unknown"
	}
}

// ParseEntryKind maps a storage name back to an EntryKind.
// Unknown names fall back to KindList.
func ParseEntryKind(s string) EntryKind {
	if s == "watchlist" {
		return KindWatchlist
	}
	return KindList
}

// PersonalEntry is a row in a user's personal list or personal watchlist.
//
// Uniqueness: at most one row per (UserID, MovieID, Kind). A user may hold both
// a list entry and a watchlist entry for the same movie at the same time.
type PersonalEntry struct {
	// UserID identifies the owning user.
	UserID string `json:"user_id"`

	// MovieID is the catalog identifier, duplicated out of Movie for keying.
	MovieID int `json:"movie_id"`

	// Movie is the catalog snapshot taken when the entry was created.
	Movie MovieRef `json:"movie"`

	// Kind discriminates list vs watchlist.
	Kind EntryKind `json:"kind"`

	// WantToSeeRating is the 1.0-10.0 anticipation rating.
	// Set exactly when Kind is KindWatchlist.
	WantToSeeRating float64 `json:"want_to_see_rating,omitempty"`

	// AddedAt is when the entry was created.
	AddedAt time.Time `json:"added_at"`
}

// SharedEntry is a movie on the single collaborative shared watchlist.
//
// Uniqueness: at most one shared entry per MovieID, globally. The first writer
// wins; a later add for the same movie fails rather than merging.
type SharedEntry struct {
	// MovieID is the catalog identifier.
	MovieID int `json:"movie_id"`

	// Movie is the catalog snapshot taken when the entry was created.
	Movie MovieRef `json:"movie"`

	// AddedBy is the user who put the movie on the shared list.
	AddedBy string `json:"added_by"`

	// ScheduledFor is the planned group viewing time, when scheduled.
	// Always normalized to noon UTC on the chosen date.
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`

	// AddedAt is when the entry was created.
	AddedAt time.Time `json:"added_at"`
}

// WatchedEntry records that a user watched a movie. Presence of the row is the
// watched flag; un-marking a movie deletes the row.
type WatchedEntry struct {
	UserID    string    `json:"user_id"`
	MovieID   int       `json:"movie_id"`
	Movie     MovieRef  `json:"movie"`
	WatchedAt time.Time `json:"watched_at"`
}

// Rating is a user's 1-5 star rating of a movie, one decimal place.
// Upsert semantics on (UserID, MovieID).
type Rating struct {
	UserID  string    `json:"user_id"`
	MovieID int       `json:"movie_id"`
	Rating  float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// PersonalListRow is the denormalized personal-list view: the entry decorated
// with the user's watched flag and star rating for display.
type PersonalListRow struct {
	PersonalEntry

	// Watched reports whether a WatchedEntry exists for this movie.
	Watched bool `json:"watched"`

	// Rating is the user's star rating, nil when unrated.
	Rating *float64 `json:"rating,omitempty"`
}

// SharedListRow is the denormalized shared-watchlist view with the aggregates
// derived client-side from all users' want-to-see ratings.
type SharedListRow struct {
	SharedEntry

	// AverageWantToSeeRating averages every non-zero want-to-see rating for
	// this movie across all users. Nil when nobody has rated it.
	AverageWantToSeeRating *float64 `json:"average_want_to_see_rating,omitempty"`

	// UserWantToSeeRating is the requesting user's own rating, when present.
	UserWantToSeeRating *float64 `json:"user_want_to_see_rating,omitempty"`

	// VoteCount is the number of users with a want-to-see rating.
	VoteCount int `json:"vote_count"`
}

// WatchedRow is the watched-history view decorated with the star rating.
type WatchedRow struct {
	WatchedEntry

	Rating *float64 `json:"rating,omitempty"`
}

// GenreCount is one bucket of the watched-genre distribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// WeeklyCount is one bucket of the watched-per-week activity series.
type WeeklyCount struct {
	// WeekStart is the Monday of the week, at midnight UTC.
	WeekStart time.Time `json:"week_start"`
	Count     int       `json:"count"`
}

// WatchStats aggregates a user's viewing activity for the profile dashboard.
type WatchStats struct {
	TotalWatched int           `json:"total_watched"`
	Genres       []GenreCount  `json:"genres"`
	Weekly       []WeeklyCount `json:"weekly"`
}
