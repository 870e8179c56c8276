// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package watchlist

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/borskip/reeltrack/internal/database"
	"github.com/borskip/reeltrack/internal/models"
)

type entryKey struct {
	userID  string
	movieID int
	kind    models.EntryKind
}

type userMovieKey struct {
	userID  string
	movieID int
}

// fakeStore is an in-memory Store. It does not implement CascadeStore, so the
// manager exercises its delete-and-aggregate fallback against it.
type fakeStore struct {
	personal map[entryKey]models.PersonalEntry
	shared   map[int]models.SharedEntry
	watched  map[userMovieKey]models.WatchedEntry
	ratings  map[userMovieKey]models.Rating

	fail map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		personal: map[entryKey]models.PersonalEntry{},
		shared:   map[int]models.SharedEntry{},
		watched:  map[userMovieKey]models.WatchedEntry{},
		ratings:  map[userMovieKey]models.Rating{},
		fail:     map[string]error{},
	}
}

func (s *fakeStore) failOn(method string, err error) { s.fail[method] = err }

func (s *fakeStore) InsertPersonal(_ context.Context, e *models.PersonalEntry) error {
	if err := s.fail["InsertPersonal"]; err != nil {
		return err
	}
	k := entryKey{e.UserID, e.MovieID, e.Kind}
	if _, ok := s.personal[k]; ok {
		return database.ErrConflict
	}
	s.personal[k] = *e
	return nil
}

func (s *fakeStore) GetPersonal(_ context.Context, userID string, movieID int, kind models.EntryKind) (*models.PersonalEntry, bool, error) {
	e, ok := s.personal[entryKey{userID, movieID, kind}]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (s *fakeStore) ListPersonal(_ context.Context, userID string, kind models.EntryKind) ([]models.PersonalEntry, error) {
	var out []models.PersonalEntry
	for k, e := range s.personal {
		if k.userID == userID && k.kind == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (s *fakeStore) ListWantToSee(context.Context) ([]models.PersonalEntry, error) {
	var out []models.PersonalEntry
	for k, e := range s.personal {
		if k.kind == models.KindWatchlist {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) SetWantToSee(_ context.Context, userID string, movieID int, rating float64) (int64, error) {
	k := entryKey{userID, movieID, models.KindWatchlist}
	e, ok := s.personal[k]
	if !ok {
		return 0, nil
	}
	e.WantToSeeRating = rating
	s.personal[k] = e
	return 1, nil
}

func (s *fakeStore) PromoteToWatchlist(_ context.Context, userID string, movieID int, rating float64) (int64, error) {
	k := entryKey{userID, movieID, models.KindList}
	e, ok := s.personal[k]
	if !ok {
		return 0, nil
	}
	delete(s.personal, k)
	e.Kind = models.KindWatchlist
	e.WantToSeeRating = rating
	s.personal[entryKey{userID, movieID, models.KindWatchlist}] = e
	return 1, nil
}

func (s *fakeStore) DeletePersonal(_ context.Context, userID string, movieID int) (int64, error) {
	if err := s.fail["DeletePersonal"]; err != nil {
		return 0, err
	}
	var n int64
	for _, kind := range []models.EntryKind{models.KindList, models.KindWatchlist} {
		k := entryKey{userID, movieID, kind}
		if _, ok := s.personal[k]; ok {
			delete(s.personal, k)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) DeleteWantToSeeForMovie(_ context.Context, movieID int) (int64, error) {
	if err := s.fail["DeleteWantToSeeForMovie"]; err != nil {
		return 0, err
	}
	var n int64
	for k := range s.personal {
		if k.movieID == movieID && k.kind == models.KindWatchlist {
			delete(s.personal, k)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) InsertShared(_ context.Context, e *models.SharedEntry) error {
	if _, ok := s.shared[e.MovieID]; ok {
		return database.ErrConflict
	}
	s.shared[e.MovieID] = *e
	return nil
}

func (s *fakeStore) GetShared(_ context.Context, movieID int) (*models.SharedEntry, bool, error) {
	e, ok := s.shared[movieID]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (s *fakeStore) ListShared(context.Context) ([]models.SharedEntry, error) {
	var out []models.SharedEntry
	for _, e := range s.shared {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (s *fakeStore) ListScheduled(_ context.Context, from time.Time) ([]models.SharedEntry, error) {
	var out []models.SharedEntry
	for _, e := range s.shared {
		if e.ScheduledFor != nil && !e.ScheduledFor.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(*out[j].ScheduledFor) })
	return out, nil
}

func (s *fakeStore) UpdateSharedSchedule(_ context.Context, movieID int, scheduledFor time.Time) (int64, error) {
	e, ok := s.shared[movieID]
	if !ok {
		return 0, nil
	}
	e.ScheduledFor = &scheduledFor
	s.shared[movieID] = e
	return 1, nil
}

func (s *fakeStore) DeleteShared(_ context.Context, movieID int) (int64, error) {
	if err := s.fail["DeleteShared"]; err != nil {
		return 0, err
	}
	if _, ok := s.shared[movieID]; !ok {
		return 0, nil
	}
	delete(s.shared, movieID)
	return 1, nil
}

func (s *fakeStore) InsertWatched(_ context.Context, e *models.WatchedEntry) error {
	k := userMovieKey{e.UserID, e.MovieID}
	if _, ok := s.watched[k]; ok {
		return database.ErrConflict
	}
	s.watched[k] = *e
	return nil
}

func (s *fakeStore) HasWatched(_ context.Context, userID string, movieID int) (bool, error) {
	_, ok := s.watched[userMovieKey{userID, movieID}]
	return ok, nil
}

func (s *fakeStore) ListWatched(_ context.Context, userID string) ([]models.WatchedEntry, error) {
	var out []models.WatchedEntry
	for k, e := range s.watched {
		if k.userID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WatchedAt.After(out[j].WatchedAt) })
	return out, nil
}

func (s *fakeStore) DeleteWatched(_ context.Context, userID string, movieID int) (int64, error) {
	if err := s.fail["DeleteWatched"]; err != nil {
		return 0, err
	}
	k := userMovieKey{userID, movieID}
	if _, ok := s.watched[k]; !ok {
		return 0, nil
	}
	delete(s.watched, k)
	return 1, nil
}

func (s *fakeStore) UpsertRating(_ context.Context, r *models.Rating) error {
	s.ratings[userMovieKey{r.UserID, r.MovieID}] = *r
	return nil
}

func (s *fakeStore) ListRatings(_ context.Context, userID string) ([]models.Rating, error) {
	var out []models.Rating
	for k, r := range s.ratings {
		if k.userID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RatedAt.After(out[j].RatedAt) })
	return out, nil
}

func (s *fakeStore) DeleteRating(_ context.Context, userID string, movieID int) (int64, error) {
	if err := s.fail["DeleteRating"]; err != nil {
		return 0, err
	}
	k := userMovieKey{userID, movieID}
	if _, ok := s.ratings[k]; !ok {
		return 0, nil
	}
	delete(s.ratings, k)
	return 1, nil
}

func (s *fakeStore) WeeklyActivity(_ context.Context, userID string) ([]models.WeeklyCount, error) {
	byWeek := map[time.Time]int{}
	for k, e := range s.watched {
		if k.userID != userID {
			continue
		}
		t := e.WatchedAt.UTC()
		monday := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
		week := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
		byWeek[week]++
	}
	var out []models.WeeklyCount
	for w, n := range byWeek {
		out = append(out, models.WeeklyCount{WeekStart: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

func (s *fakeStore) CountWatched(_ context.Context, userID string) (int, error) {
	n := 0
	for k := range s.watched {
		if k.userID == userID {
			n++
		}
	}
	return n, nil
}

func movie(id int, title string, genres ...string) models.MovieRef {
	return models.MovieRef{ID: id, Title: title, Genres: genres}
}

func newTestManager(t *testing.T) (*Manager, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	m := New(store)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return m, store
}

func TestAddToPersonalListDuplicate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception", "Science Fiction")

	if _, err := m.AddToPersonalList(ctx, "nina", mv); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := m.AddToPersonalList(ctx, "nina", mv); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("second add: got %v, want ErrDuplicateEntry", err)
	}

	// The other kind and other users are separate collections.
	if _, err := m.AddToPersonalWatchlist(ctx, "nina", mv); err != nil {
		t.Fatalf("watchlist add for same movie: %v", err)
	}
	if _, err := m.AddToPersonalList(ctx, "mark", mv); err != nil {
		t.Fatalf("other user's add: %v", err)
	}
}

func TestAddToPersonalWatchlistDefaultRating(t *testing.T) {
	m, _ := newTestManager(t)

	e, err := m.AddToPersonalWatchlist(context.Background(), "nina", movie(603, "The Matrix"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.Kind != models.KindWatchlist {
		t.Errorf("kind = %v, want watchlist", e.Kind)
	}
	if e.WantToSeeRating != 5.0 {
		t.Errorf("default want-to-see rating = %v, want 5.0", e.WantToSeeRating)
	}
}

func TestAddToSharedFirstWriterWins(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	mv := movie(157336, "Interstellar")

	e, err := m.AddToShared(ctx, "nina", mv)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if e.AddedBy != "nina" {
		t.Errorf("added by %q, want nina", e.AddedBy)
	}
	if _, err := m.AddToShared(ctx, "mark", mv); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("second add: got %v, want ErrDuplicateEntry", err)
	}
}

func TestRateMovieClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above range", 7, 5.0},
		{"below range", 0.2, 1.0},
		{"negative", -3, 1.0},
		{"rounds to one decimal", 3.75, 3.8},
		{"survives round trip", 3.7, 3.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestManager(t)

			r, err := m.RateMovie(context.Background(), "nina", 27205, tt.in)
			if err != nil {
				t.Fatalf("rate: %v", err)
			}
			if r.Rating != tt.want {
				t.Errorf("rating = %v, want %v", r.Rating, tt.want)
			}
			stored := store.ratings[userMovieKey{"nina", 27205}]
			if stored.Rating != tt.want {
				t.Errorf("stored rating = %v, want %v", stored.Rating, tt.want)
			}
		})
	}
}

func TestRateMovieUpsert(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	if _, err := m.RateMovie(ctx, "nina", 27205, 3.0); err != nil {
		t.Fatalf("first rate: %v", err)
	}
	if _, err := m.RateMovie(ctx, "nina", 27205, 4.5); err != nil {
		t.Fatalf("second rate: %v", err)
	}
	if got := store.ratings[userMovieKey{"nina", 27205}].Rating; got != 4.5 {
		t.Errorf("stored rating = %v, want 4.5", got)
	}
	if len(store.ratings) != 1 {
		t.Errorf("rating rows = %d, want 1", len(store.ratings))
	}
}

func TestRateWantToSeeClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above range", 15, 10.0},
		{"below range", -3, 1.0},
		{"in range", 7.5, 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestManager(t)
			ctx := context.Background()
			if _, err := m.AddToPersonalWatchlist(ctx, "nina", movie(603, "The Matrix")); err != nil {
				t.Fatalf("seed: %v", err)
			}

			if err := m.RateWantToSee(ctx, "nina", 603, tt.in); err != nil {
				t.Fatalf("rate: %v", err)
			}
			got := store.personal[entryKey{"nina", 603, models.KindWatchlist}].WantToSeeRating
			if got != tt.want {
				t.Errorf("want-to-see rating = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateWantToSeePromotesListEntry(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	if _, err := m.AddToPersonalList(ctx, "nina", movie(603, "The Matrix")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := m.RateWantToSee(ctx, "nina", 603, 8); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if _, ok := store.personal[entryKey{"nina", 603, models.KindList}]; ok {
		t.Error("list entry still present after promotion")
	}
	e, ok := store.personal[entryKey{"nina", 603, models.KindWatchlist}]
	if !ok {
		t.Fatal("no watchlist entry after promotion")
	}
	if e.WantToSeeRating != 8.0 {
		t.Errorf("want-to-see rating = %v, want 8.0", e.WantToSeeRating)
	}
}

func TestRateWantToSeeSnapshotsFromShared(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	mv := movie(157336, "Interstellar", "Science Fiction", "Drama")
	if _, err := m.AddToShared(ctx, "mark", mv); err != nil {
		t.Fatalf("seed shared: %v", err)
	}

	if err := m.RateWantToSee(ctx, "nina", 157336, 9); err != nil {
		t.Fatalf("rate: %v", err)
	}

	e, ok := store.personal[entryKey{"nina", 157336, models.KindWatchlist}]
	if !ok {
		t.Fatal("no watchlist entry created from shared snapshot")
	}
	if e.Movie.Title != "Interstellar" {
		t.Errorf("snapshot title = %q, want Interstellar", e.Movie.Title)
	}
	if e.WantToSeeRating != 9.0 {
		t.Errorf("want-to-see rating = %v, want 9.0", e.WantToSeeRating)
	}
}

func TestRateWantToSeeUnknownMovie(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.RateWantToSee(context.Background(), "nina", 99999, 7)
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("got %v, want ErrMovieNotFound", err)
	}
}

func TestScheduleMovie(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	if _, err := m.AddToShared(ctx, "nina", movie(157336, "Interstellar")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"plain date", "2026-09-14", time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 normalized to noon", "2026-09-20T23:30:00+02:00", time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ScheduleMovie(ctx, 157336, tt.date)
			if err != nil {
				t.Fatalf("schedule: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("scheduled for %v, want %v", got, tt.want)
			}
			stored := store.shared[157336].ScheduledFor
			if stored == nil || !stored.Equal(tt.want) {
				t.Errorf("stored schedule = %v, want %v", stored, tt.want)
			}
		})
	}
}

func TestScheduleMovieInvalidDate(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.ScheduleMovie(context.Background(), 157336, "next friday"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("got %v, want ErrInvalidDate", err)
	}
}

func TestScheduleMovieWithoutSharedEntry(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.ScheduleMovie(context.Background(), 42, "2026-09-14"); err != nil {
		t.Fatalf("scheduling an unlisted movie should be a no-op, got %v", err)
	}
}

func TestToggleWatched(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception")

	watched, err := m.ToggleWatched(ctx, "nina", mv)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !watched {
		t.Error("first toggle should mark watched")
	}

	watched, err = m.ToggleWatched(ctx, "nina", mv)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if watched {
		t.Error("second toggle should un-mark")
	}
	if len(store.watched) != 0 {
		t.Errorf("watched rows = %d, want 0", len(store.watched))
	}
}

func TestToggleWatchedKeepsRating(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception")

	if _, err := m.ToggleWatched(ctx, "nina", mv); err != nil {
		t.Fatalf("mark watched: %v", err)
	}
	if _, err := m.RateMovie(ctx, "nina", mv.ID, 4.5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := m.ToggleWatched(ctx, "nina", mv); err != nil {
		t.Fatalf("un-mark: %v", err)
	}

	if _, ok := store.ratings[userMovieKey{"nina", mv.ID}]; !ok {
		t.Error("un-marking watched must not clear the star rating")
	}
}

func TestRemoveFromPersonalCascades(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception", "Science Fiction")

	if _, err := m.AddToPersonalList(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddToPersonalWatchlist(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddToShared(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleWatched(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RateMovie(ctx, "nina", mv.ID, 4); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveFromPersonal(ctx, "nina", mv.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(store.personal) != 0 {
		t.Errorf("personal rows = %d, want 0", len(store.personal))
	}
	if len(store.ratings) != 0 {
		t.Errorf("rating rows = %d, want 0", len(store.ratings))
	}
	if len(store.watched) != 0 {
		t.Errorf("watched rows = %d, want 0", len(store.watched))
	}
	if _, ok := store.shared[mv.ID]; !ok {
		t.Error("shared entry must survive a personal removal")
	}
}

func TestRemoveFromSharedCascades(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	mv := movie(157336, "Interstellar")

	if _, err := m.AddToShared(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if err := m.RateWantToSee(ctx, "nina", mv.ID, 8); err != nil {
		t.Fatal(err)
	}
	if err := m.RateWantToSee(ctx, "mark", mv.ID, 6); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddToPersonalList(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RateMovie(ctx, "nina", mv.ID, 4); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveFromShared(ctx, mv.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, ok := store.shared[mv.ID]; ok {
		t.Error("shared entry still present")
	}
	for k := range store.personal {
		if k.kind == models.KindWatchlist {
			t.Errorf("want-to-see entry for %q survived the cascade", k.userID)
		}
	}
	if _, ok := store.personal[entryKey{"nina", mv.ID, models.KindList}]; !ok {
		t.Error("personal list entry must survive a shared removal")
	}
	if _, ok := store.ratings[userMovieKey{"nina", mv.ID}]; !ok {
		t.Error("star rating must survive a shared removal")
	}
}

func TestRemoveFromPersonalAggregatesFailures(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception")

	if _, err := m.AddToPersonalList(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleWatched(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	store.failOn("DeleteRating", errors.New("disk full"))

	err := m.RemoveFromPersonal(ctx, "nina", mv.ID)
	var partial *PartialRemovalError
	if !errors.As(err, &partial) {
		t.Fatalf("got %v, want PartialRemovalError", err)
	}
	if _, ok := partial.Failures["ratings"]; !ok {
		t.Errorf("failures = %v, want a ratings entry", partial.Failures)
	}

	// The other deletes still ran, so a retry only touches the failed table.
	if len(store.personal) != 0 {
		t.Error("personal delete should have run despite the rating failure")
	}
	if len(store.watched) != 0 {
		t.Error("watched delete should have run despite the rating failure")
	}

	store.fail = map[string]error{}
	if err := m.RemoveFromPersonal(ctx, "nina", mv.ID); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestSharedWatchlistAggregates(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	mv := movie(157336, "Interstellar")

	if _, err := m.AddToShared(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if err := m.RateWantToSee(ctx, "nina", mv.ID, 8); err != nil {
		t.Fatal(err)
	}
	if err := m.RateWantToSee(ctx, "mark", mv.ID, 6); err != nil {
		t.Fatal(err)
	}

	rows, err := m.SharedWatchlist(ctx, "nina")
	if err != nil {
		t.Fatalf("shared watchlist: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.VoteCount != 2 {
		t.Errorf("vote count = %d, want 2", row.VoteCount)
	}
	if row.AverageWantToSeeRating == nil || *row.AverageWantToSeeRating != 7.0 {
		t.Errorf("average = %v, want 7.0", row.AverageWantToSeeRating)
	}
	if row.UserWantToSeeRating == nil || *row.UserWantToSeeRating != 8.0 {
		t.Errorf("user rating = %v, want 8.0", row.UserWantToSeeRating)
	}
}

func TestPersonalListDecoration(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception")

	if _, err := m.AddToPersonalList(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleWatched(ctx, "nina", mv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RateMovie(ctx, "nina", mv.ID, 4.5); err != nil {
		t.Fatal(err)
	}

	rows, err := m.PersonalList(ctx, "nina")
	if err != nil {
		t.Fatalf("personal list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !rows[0].Watched {
		t.Error("watched flag not set")
	}
	if rows[0].Rating == nil || *rows[0].Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", rows[0].Rating)
	}
}

func TestWatchStats(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for _, mv := range []models.MovieRef{
		movie(1, "A", "Drama", "Thriller"),
		movie(2, "B", "Drama"),
		movie(3, "C", "Comedy"),
	} {
		if _, err := m.ToggleWatched(ctx, "nina", mv); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := m.WatchStats(ctx, "nina")
	if err != nil {
		t.Fatalf("watch stats: %v", err)
	}
	if stats.TotalWatched != 3 {
		t.Errorf("total watched = %d, want 3", stats.TotalWatched)
	}
	want := []models.GenreCount{
		{Genre: "Drama", Count: 2},
		{Genre: "Comedy", Count: 1},
		{Genre: "Thriller", Count: 1},
	}
	if len(stats.Genres) != len(want) {
		t.Fatalf("genre buckets = %d, want %d", len(stats.Genres), len(want))
	}
	for i, g := range want {
		if stats.Genres[i] != g {
			t.Errorf("genre[%d] = %+v, want %+v", i, stats.Genres[i], g)
		}
	}
}

func TestMutationsRequireUser(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	mv := movie(27205, "Inception")

	tests := []struct {
		name string
		call func() error
	}{
		{"AddToPersonalList", func() error { _, err := m.AddToPersonalList(ctx, "", mv); return err }},
		{"AddToPersonalWatchlist", func() error { _, err := m.AddToPersonalWatchlist(ctx, "", mv); return err }},
		{"AddToShared", func() error { _, err := m.AddToShared(ctx, "", mv); return err }},
		{"RateMovie", func() error { _, err := m.RateMovie(ctx, "", mv.ID, 4); return err }},
		{"RateWantToSee", func() error { return m.RateWantToSee(ctx, "", mv.ID, 7) }},
		{"ToggleWatched", func() error { _, err := m.ToggleWatched(ctx, "", mv); return err }},
		{"RemoveFromPersonal", func() error { return m.RemoveFromPersonal(ctx, "", mv.ID) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrNoUser) {
				t.Errorf("got %v, want ErrNoUser", err)
			}
		})
	}
}

func TestOnMutationInvalidation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var got []Invalidation
	m.OnMutation(func(inv Invalidation) { got = append(got, inv) })

	if _, err := m.AddToPersonalList(ctx, "nina", movie(27205, "Inception")); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("invalidations = %d, want 1", len(got))
	}
	if got[0].UserID != "nina" || got[0].MovieID != 27205 {
		t.Errorf("invalidation = %+v", got[0])
	}
	found := false
	for _, v := range got[0].Views {
		if v == ViewPersonalList {
			found = true
		}
	}
	if !found {
		t.Errorf("views = %v, want ViewPersonalList present", got[0].Views)
	}

	// Failed mutations stay silent.
	if _, err := m.AddToPersonalList(ctx, "nina", movie(27205, "Inception")); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("invalidations after failed mutation = %d, want 1", len(got))
	}
}
