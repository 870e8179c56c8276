// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package watchlist

import (
	"context"
	"sort"
	"time"

	"github.com/borskip/reeltrack/internal/models"
)

// PersonalList returns the user's personal list, newest first, each entry
// decorated with the watched flag and star rating.
func (m *Manager) PersonalList(ctx context.Context, userID string) ([]models.PersonalListRow, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	entries, err := m.store.ListPersonal(ctx, userID, models.KindList)
	if err != nil {
		return nil, storeErr(err)
	}
	watched, ratings, err := m.userDecorations(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]models.PersonalListRow, len(entries))
	for i, e := range entries {
		rows[i] = models.PersonalListRow{
			PersonalEntry: e,
			Watched:       watched[e.MovieID],
		}
		if r, ok := ratings[e.MovieID]; ok {
			rows[i].Rating = &r
		}
	}
	return rows, nil
}

// PersonalWatchlist returns the user's personal watchlist, newest first.
func (m *Manager) PersonalWatchlist(ctx context.Context, userID string) ([]models.PersonalEntry, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	entries, err := m.store.ListPersonal(ctx, userID, models.KindWatchlist)
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

// SharedWatchlist returns the shared watchlist, newest first, each entry
// carrying the want-to-see aggregates derived from every user's watchlist
// entries: the average rating, the vote count, and the requesting user's own
// rating.
func (m *Manager) SharedWatchlist(ctx context.Context, userID string) ([]models.SharedListRow, error) {
	shared, err := m.store.ListShared(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	votes, err := m.store.ListWantToSee(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	sums := map[int]float64{}
	counts := map[int]int{}
	mine := map[int]float64{}
	for _, v := range votes {
		sums[v.MovieID] += v.WantToSeeRating
		counts[v.MovieID]++
		if v.UserID == userID {
			mine[v.MovieID] = v.WantToSeeRating
		}
	}

	rows := make([]models.SharedListRow, len(shared))
	for i, e := range shared {
		rows[i] = models.SharedListRow{
			SharedEntry: e,
			VoteCount:   counts[e.MovieID],
		}
		if n := counts[e.MovieID]; n > 0 {
			avg := sums[e.MovieID] / float64(n)
			rows[i].AverageWantToSeeRating = &avg
		}
		if r, ok := mine[e.MovieID]; ok {
			rows[i].UserWantToSeeRating = &r
		}
	}
	return rows, nil
}

// WatchedMovies returns the user's watched history, most recent first, each
// row decorated with the star rating.
func (m *Manager) WatchedMovies(ctx context.Context, userID string) ([]models.WatchedRow, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	entries, err := m.store.ListWatched(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	ratings, err := m.ratingsByMovie(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]models.WatchedRow, len(entries))
	for i, e := range entries {
		rows[i] = models.WatchedRow{WatchedEntry: e}
		if r, ok := ratings[e.MovieID]; ok {
			rows[i].Rating = &r
		}
	}
	return rows, nil
}

// Ratings returns the user's star ratings, most recent first.
func (m *Manager) Ratings(ctx context.Context, userID string) ([]models.Rating, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	ratings, err := m.store.ListRatings(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return ratings, nil
}

// UpcomingSchedule returns shared entries scheduled from the start of today
// onward, soonest first. Today's viewing stays visible until midnight even
// though schedules sit at noon.
func (m *Manager) UpcomingSchedule(ctx context.Context) ([]models.SharedEntry, error) {
	now := m.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	entries, err := m.store.ListScheduled(ctx, from)
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

// WatchStats aggregates the user's viewing activity: total watched, the genre
// distribution of watched movies, and watched-per-week counts. Genres come
// from the stored snapshots, sorted by count descending then name.
func (m *Manager) WatchStats(ctx context.Context, userID string) (*models.WatchStats, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	total, err := m.store.CountWatched(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	weekly, err := m.store.WeeklyActivity(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	entries, err := m.store.ListWatched(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	byGenre := map[string]int{}
	for _, e := range entries {
		for _, g := range e.Movie.Genres {
			byGenre[g]++
		}
	}
	genres := make([]models.GenreCount, 0, len(byGenre))
	for g, n := range byGenre {
		genres = append(genres, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Genre < genres[j].Genre
	})

	return &models.WatchStats{
		TotalWatched: total,
		Genres:       genres,
		Weekly:       weekly,
	}, nil
}

// userDecorations loads the user's watched set and rating map in one pass for
// list decoration.
func (m *Manager) userDecorations(ctx context.Context, userID string) (map[int]bool, map[int]float64, error) {
	entries, err := m.store.ListWatched(ctx, userID)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	watched := make(map[int]bool, len(entries))
	for _, e := range entries {
		watched[e.MovieID] = true
	}

	ratings, err := m.ratingsByMovie(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return watched, ratings, nil
}

func (m *Manager) ratingsByMovie(ctx context.Context, userID string) (map[int]float64, error) {
	ratings, err := m.store.ListRatings(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	byMovie := make(map[int]float64, len(ratings))
	for _, r := range ratings {
		byMovie[r.MovieID] = r.Rating
	}
	return byMovie, nil
}
