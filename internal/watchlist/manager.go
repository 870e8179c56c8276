// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package watchlist implements the state manager for Reeltrack's four movie
// collections: personal lists, personal watchlists, the shared watchlist, and
// watched history with star ratings.
//
// The manager enforces the cross-collection rules (entry uniqueness, rating
// bounds, removal cascades) in application code; the store's unique keys are
// the backstop when concurrent requests race. There is no manager-level
// locking.
//
// Un-marking a movie as watched keeps its star rating. A rating records an
// opinion about a film the user has seen; flipping the watched flag back off
// is usually a misclick fix and should not destroy it.
package watchlist

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/borskip/reeltrack/internal/database"
	"github.com/borskip/reeltrack/internal/logging"
	"github.com/borskip/reeltrack/internal/models"
)

// defaultWantToSee is the anticipation rating applied when a movie is added to
// a personal watchlist without an explicit rating.
const defaultWantToSee = 5.0

// Store is the persistence surface the manager drives. *database.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	InsertPersonal(ctx context.Context, e *models.PersonalEntry) error
	GetPersonal(ctx context.Context, userID string, movieID int, kind models.EntryKind) (*models.PersonalEntry, bool, error)
	ListPersonal(ctx context.Context, userID string, kind models.EntryKind) ([]models.PersonalEntry, error)
	ListWantToSee(ctx context.Context) ([]models.PersonalEntry, error)
	SetWantToSee(ctx context.Context, userID string, movieID int, rating float64) (int64, error)
	PromoteToWatchlist(ctx context.Context, userID string, movieID int, rating float64) (int64, error)
	DeletePersonal(ctx context.Context, userID string, movieID int) (int64, error)
	DeleteWantToSeeForMovie(ctx context.Context, movieID int) (int64, error)

	InsertShared(ctx context.Context, e *models.SharedEntry) error
	GetShared(ctx context.Context, movieID int) (*models.SharedEntry, bool, error)
	ListShared(ctx context.Context) ([]models.SharedEntry, error)
	ListScheduled(ctx context.Context, from time.Time) ([]models.SharedEntry, error)
	UpdateSharedSchedule(ctx context.Context, movieID int, scheduledFor time.Time) (int64, error)
	DeleteShared(ctx context.Context, movieID int) (int64, error)

	InsertWatched(ctx context.Context, e *models.WatchedEntry) error
	HasWatched(ctx context.Context, userID string, movieID int) (bool, error)
	ListWatched(ctx context.Context, userID string) ([]models.WatchedEntry, error)
	DeleteWatched(ctx context.Context, userID string, movieID int) (int64, error)

	UpsertRating(ctx context.Context, r *models.Rating) error
	ListRatings(ctx context.Context, userID string) ([]models.Rating, error)
	DeleteRating(ctx context.Context, userID string, movieID int) (int64, error)

	WeeklyActivity(ctx context.Context, userID string) ([]models.WeeklyCount, error)
	CountWatched(ctx context.Context, userID string) (int, error)
}

// CascadeStore is implemented by stores that can run removal cascades in a
// single transaction. When the store does not implement it, the manager falls
// back to issuing the deletes one by one and aggregating any failures.
type CascadeStore interface {
	RemovePersonalCascade(ctx context.Context, userID string, movieID int) error
	RemoveSharedCascade(ctx context.Context, movieID int) error
}

// View names a read surface affected by a mutation, for cache invalidation.
type View string

const (
	ViewPersonalList      View = "personal_list"
	ViewPersonalWatchlist View = "personal_watchlist"
	ViewShared            View = "shared_watchlist"
	ViewWatched           View = "watched"
	ViewRatings           View = "ratings"
	ViewSchedule          View = "schedule"
	ViewStats             View = "stats"
)

// Invalidation describes the views a successful mutation made stale.
// UserID is empty when the mutation affects every user's views.
type Invalidation struct {
	Views   []View
	UserID  string
	MovieID int
}

// Manager coordinates all collection mutations and aggregate reads.
type Manager struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger

	mu         sync.RWMutex
	onMutation []func(Invalidation)
}

// New builds a Manager over the given store.
func New(store Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
		log:   logging.With().Str("component", "watchlist").Logger(),
	}
}

// OnMutation registers a callback fired after every successful mutation.
// Register during setup, before the manager serves requests.
func (m *Manager) OnMutation(fn func(Invalidation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMutation = append(m.onMutation, fn)
}

func (m *Manager) notify(inv Invalidation) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, fn := range m.onMutation {
		fn(inv)
	}
}

// AddToPersonalList puts a movie on the user's personal list.
func (m *Manager) AddToPersonalList(ctx context.Context, userID string, movie models.MovieRef) (*models.PersonalEntry, error) {
	return m.addPersonal(ctx, userID, movie, models.KindList, 0)
}

// AddToPersonalWatchlist puts a movie on the user's personal watchlist with
// the default want-to-see rating.
func (m *Manager) AddToPersonalWatchlist(ctx context.Context, userID string, movie models.MovieRef) (*models.PersonalEntry, error) {
	return m.addPersonal(ctx, userID, movie, models.KindWatchlist, defaultWantToSee)
}

func (m *Manager) addPersonal(ctx context.Context, userID string, movie models.MovieRef, kind models.EntryKind, rating float64) (*models.PersonalEntry, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	entry := &models.PersonalEntry{
		UserID:          userID,
		MovieID:         movie.ID,
		Movie:           movie,
		Kind:            kind,
		WantToSeeRating: rating,
		AddedAt:         m.now().UTC(),
	}
	if err := m.store.InsertPersonal(ctx, entry); err != nil {
		return nil, mapStoreErr(err)
	}

	m.log.Debug().Str("user", userID).Int("movie", movie.ID).
		Stringer("kind", kind).Msg("personal entry added")
	m.notify(Invalidation{
		Views:   []View{viewFor(kind), ViewShared},
		UserID:  userID,
		MovieID: movie.ID,
	})
	return entry, nil
}

// AddToShared puts a movie on the shared watchlist. The shared list holds at
// most one entry per movie globally; the first writer wins and later adds
// return ErrDuplicateEntry.
func (m *Manager) AddToShared(ctx context.Context, userID string, movie models.MovieRef) (*models.SharedEntry, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	entry := &models.SharedEntry{
		MovieID: movie.ID,
		Movie:   movie,
		AddedBy: userID,
		AddedAt: m.now().UTC(),
	}
	if err := m.store.InsertShared(ctx, entry); err != nil {
		return nil, mapStoreErr(err)
	}

	m.log.Debug().Str("user", userID).Int("movie", movie.ID).Msg("shared entry added")
	m.notify(Invalidation{Views: []View{ViewShared}, MovieID: movie.ID})
	return entry, nil
}

// RateMovie records the user's star rating for a movie, replacing any earlier
// rating. The value is rounded to one decimal and clamped to [1.0, 5.0].
func (m *Manager) RateMovie(ctx context.Context, userID string, movieID int, rating float64) (*models.Rating, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	r := &models.Rating{
		UserID:  userID,
		MovieID: movieID,
		Rating:  clampRating(rating, 1, 5),
		RatedAt: m.now().UTC(),
	}
	if err := m.store.UpsertRating(ctx, r); err != nil {
		return nil, storeErr(err)
	}

	m.notify(Invalidation{
		Views:   []View{ViewRatings, ViewPersonalList, ViewWatched},
		UserID:  userID,
		MovieID: movieID,
	})
	return r, nil
}

// RateWantToSee sets the user's anticipation rating for a movie, clamped to
// [1.0, 10.0]. An existing watchlist entry is updated in place; an existing
// list entry is promoted to watchlist kind. When the user holds no personal
// entry at all, one is created from the movie's shared-entry snapshot.
// Returns ErrMovieNotFound when the movie is in neither place.
func (m *Manager) RateWantToSee(ctx context.Context, userID string, movieID int, rating float64) error {
	if userID == "" {
		return ErrNoUser
	}
	value := clampRating(rating, 1, 10)

	n, err := m.store.SetWantToSee(ctx, userID, movieID, value)
	if err != nil {
		return storeErr(err)
	}
	if n == 0 {
		n, err = m.store.PromoteToWatchlist(ctx, userID, movieID, value)
		if err != nil {
			return storeErr(err)
		}
	}
	if n == 0 {
		if err := m.wantToSeeFromShared(ctx, userID, movieID, value); err != nil {
			return err
		}
	}

	m.notify(Invalidation{
		Views:   []View{ViewPersonalWatchlist, ViewShared},
		UserID:  userID,
		MovieID: movieID,
	})
	return nil
}

// wantToSeeFromShared creates a watchlist entry from the shared snapshot when
// the user has no personal entry for the movie.
func (m *Manager) wantToSeeFromShared(ctx context.Context, userID string, movieID int, value float64) error {
	shared, found, err := m.store.GetShared(ctx, movieID)
	if err != nil {
		return storeErr(err)
	}
	if !found {
		return ErrMovieNotFound
	}

	entry := &models.PersonalEntry{
		UserID:          userID,
		MovieID:         movieID,
		Movie:           shared.Movie,
		Kind:            models.KindWatchlist,
		WantToSeeRating: value,
		AddedAt:         m.now().UTC(),
	}
	err = m.store.InsertPersonal(ctx, entry)
	if errors.Is(err, database.ErrConflict) {
		// Lost a race with a concurrent add; the entry exists now, rate it.
		if _, err := m.store.SetWantToSee(ctx, userID, movieID, value); err != nil {
			return storeErr(err)
		}
		return nil
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// ScheduleMovie sets the group viewing date on a movie's shared entry. The
// date is "YYYY-MM-DD" or RFC 3339; either way it is normalized to noon UTC
// on that date so timezone display shifts cannot move it across a day
// boundary. Scheduling a movie that has no shared entry is a no-op.
func (m *Manager) ScheduleMovie(ctx context.Context, movieID int, date string) (time.Time, error) {
	when, err := parseScheduleDate(date)
	if err != nil {
		return time.Time{}, err
	}

	if _, err := m.store.UpdateSharedSchedule(ctx, movieID, when); err != nil {
		return time.Time{}, storeErr(err)
	}

	m.notify(Invalidation{Views: []View{ViewShared, ViewSchedule}, MovieID: movieID})
	return when, nil
}

func parseScheduleDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		t, err = time.Parse(time.RFC3339, date)
	}
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 12, 0, 0, 0, time.UTC), nil
}

// ToggleWatched flips the user's watched flag for a movie and reports the new
// state. Marking watched keeps the movie on whatever lists it is on, and
// un-marking keeps any star rating.
func (m *Manager) ToggleWatched(ctx context.Context, userID string, movie models.MovieRef) (bool, error) {
	if userID == "" {
		return false, ErrNoUser
	}

	watched, err := m.store.HasWatched(ctx, userID, movie.ID)
	if err != nil {
		return false, storeErr(err)
	}

	if watched {
		if _, err := m.store.DeleteWatched(ctx, userID, movie.ID); err != nil {
			return false, storeErr(err)
		}
	} else {
		entry := &models.WatchedEntry{
			UserID:    userID,
			MovieID:   movie.ID,
			Movie:     movie,
			WatchedAt: m.now().UTC(),
		}
		err := m.store.InsertWatched(ctx, entry)
		if err != nil && !errors.Is(err, database.ErrConflict) {
			return false, storeErr(err)
		}
	}

	m.notify(Invalidation{
		Views:   []View{ViewWatched, ViewPersonalList, ViewStats},
		UserID:  userID,
		MovieID: movie.ID,
	})
	return !watched, nil
}

// RemoveFromPersonal disassociates a user from a movie entirely: both personal
// entry kinds, the star rating, and the watched row. The shared entry, if any,
// is untouched. With a transactional store the cascade is atomic; otherwise
// every delete is attempted and failures are aggregated into a
// PartialRemovalError so the caller can retry.
func (m *Manager) RemoveFromPersonal(ctx context.Context, userID string, movieID int) error {
	if userID == "" {
		return ErrNoUser
	}

	if cs, ok := m.store.(CascadeStore); ok {
		if err := cs.RemovePersonalCascade(ctx, userID, movieID); err != nil {
			return storeErr(err)
		}
	} else {
		failures := map[string]error{}
		if _, err := m.store.DeletePersonal(ctx, userID, movieID); err != nil {
			failures["personal_entries"] = err
		}
		if _, err := m.store.DeleteRating(ctx, userID, movieID); err != nil {
			failures["ratings"] = err
		}
		if _, err := m.store.DeleteWatched(ctx, userID, movieID); err != nil {
			failures["watched_entries"] = err
		}
		if len(failures) > 0 {
			return &PartialRemovalError{Failures: failures}
		}
	}

	m.notify(Invalidation{
		Views:   []View{ViewPersonalList, ViewPersonalWatchlist, ViewWatched, ViewRatings, ViewStats},
		UserID:  userID,
		MovieID: movieID,
	})
	return nil
}

// RemoveFromShared takes a movie off the shared watchlist and deletes every
// user's want-to-see entry for it; those ratings refer to the shared entry and
// must not outlive it. Personal list entries, watched rows, and star ratings
// survive. Atomicity contract matches RemoveFromPersonal.
func (m *Manager) RemoveFromShared(ctx context.Context, movieID int) error {
	if cs, ok := m.store.(CascadeStore); ok {
		if err := cs.RemoveSharedCascade(ctx, movieID); err != nil {
			return storeErr(err)
		}
	} else {
		failures := map[string]error{}
		if _, err := m.store.DeleteShared(ctx, movieID); err != nil {
			failures["shared_entries"] = err
		}
		if _, err := m.store.DeleteWantToSeeForMovie(ctx, movieID); err != nil {
			failures["personal_entries"] = err
		}
		if len(failures) > 0 {
			return &PartialRemovalError{Failures: failures}
		}
	}

	m.notify(Invalidation{
		Views:   []View{ViewShared, ViewPersonalWatchlist, ViewSchedule},
		MovieID: movieID,
	})
	return nil
}

// mapStoreErr translates store conflicts into the manager's duplicate error
// and wraps everything else as a store failure.
func mapStoreErr(err error) error {
	if errors.Is(err, database.ErrConflict) {
		return ErrDuplicateEntry
	}
	return storeErr(err)
}

// clampRating rounds to one decimal and clamps to [lo, hi].
func clampRating(v, lo, hi float64) float64 {
	v = math.Round(v*10) / 10
	return math.Max(lo, math.Min(hi, v))
}

func viewFor(kind models.EntryKind) View {
	if kind == models.KindWatchlist {
		return ViewPersonalWatchlist
	}
	return ViewPersonalList
}
