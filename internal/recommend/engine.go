// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package recommend generates personalized movie recommendations from a
// user's rated watch history.
//
// Candidates come from the catalog's similar-movies lists for the user's top
// favorites, are scored against every favorite, and carry a one-line
// explanation of the strongest connection. A user with no qualifying
// favorites is a normal empty result, not an error; the two empty cases
// (nothing to go on vs everything already seen) report distinct statuses.
package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/borskip/reeltrack/internal/logging"
	"github.com/borskip/reeltrack/internal/models"
)

// favoriteThreshold is the minimum star rating for a watched movie to seed
// candidate generation.
const favoriteThreshold = 3.5

// maxFavorites caps how many favorites seed similar-movie lookups.
const maxFavorites = 5

// Status tells an empty result's two causes apart from the normal case.
type Status string

const (
	// StatusOK means recommendations were produced.
	StatusOK Status = "ok"

	// StatusNoFavorites means the user has no watched movie rated at or
	// above the favorites threshold, so there is nothing to go on.
	StatusNoFavorites Status = "no_favorites"

	// StatusExhausted means favorites existed but every candidate was
	// already watched or hidden.
	StatusExhausted Status = "exhausted"
)

// Recommendation is one scored, explained candidate.
type Recommendation struct {
	Movie       models.MovieRef `json:"movie"`
	Score       float64         `json:"score"`
	Explanation string          `json:"explanation"`
}

// Result is a recommendation run's outcome.
type Result struct {
	Status          Status           `json:"status"`
	Recommendations []Recommendation `json:"recommendations"`
}

// SimilarProvider supplies similar-movie lists. *catalog.Client satisfies it.
type SimilarProvider interface {
	GetSimilar(ctx context.Context, movieID int) ([]models.MovieRef, error)
}

// Library supplies the user's watched history with ratings. The watchlist
// manager satisfies it.
type Library interface {
	WatchedMovies(ctx context.Context, userID string) ([]models.WatchedRow, error)
}

// Engine produces recommendations. The hide set is in-memory per user and
// lost on restart; hiding is a session gesture, not a preference.
type Engine struct {
	library Library
	catalog SimilarProvider
	now     func() time.Time
	log     zerolog.Logger

	mu     sync.Mutex
	hidden map[string]map[int]struct{}
}

// New builds an Engine over the given history source and catalog.
func New(library Library, catalog SimilarProvider) *Engine {
	return &Engine{
		library: library,
		catalog: catalog,
		now:     time.Now,
		log:     logging.With().Str("component", "recommend").Logger(),
		hidden:  map[string]map[int]struct{}{},
	}
}

// Hide suppresses a movie from the user's future recommendation runs for the
// lifetime of the process.
func (e *Engine) Hide(userID string, movieID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hidden[userID] == nil {
		e.hidden[userID] = map[int]struct{}{}
	}
	e.hidden[userID][movieID] = struct{}{}
}

func (e *Engine) hiddenFor(userID string) map[int]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]struct{}, len(e.hidden[userID]))
	for id := range e.hidden[userID] {
		out[id] = struct{}{}
	}
	return out
}

// Recommend produces up to limit recommendations for the user, best first.
// A non-positive limit returns everything.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) (*Result, error) {
	watched, err := e.library.WatchedMovies(ctx, userID)
	if err != nil {
		return nil, err
	}

	rated := make([]Favorite, 0, len(watched))
	for _, w := range watched {
		if w.Rating != nil {
			rated = append(rated, Favorite{Movie: w.Movie, Rating: *w.Rating})
		}
	}

	favorites := topFavorites(rated)
	if len(favorites) == 0 {
		return &Result{Status: StatusNoFavorites}, nil
	}

	exclude := e.hiddenFor(userID)
	for _, w := range watched {
		exclude[w.MovieID] = struct{}{}
	}

	candidates, err := e.gatherCandidates(ctx, favorites, exclude)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Result{Status: StatusExhausted}, nil
	}

	recs := make([]Recommendation, 0, len(candidates))
	now := e.now()
	for i := range candidates {
		recs = append(recs, Recommendation{
			Movie:       candidates[i],
			Score:       Score(&candidates[i], favorites, now),
			Explanation: Explain(&candidates[i], rated),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Movie.Popularity > recs[j].Movie.Popularity
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	e.log.Debug().Str("user", userID).Int("favorites", len(favorites)).
		Int("candidates", len(candidates)).Msg("recommendations generated")
	return &Result{Status: StatusOK, Recommendations: recs}, nil
}

// topFavorites picks up to maxFavorites movies rated at or above the
// threshold, best rated first. Ties keep watch recency order.
func topFavorites(rated []Favorite) []Favorite {
	var favorites []Favorite
	for _, f := range rated {
		if f.Rating >= favoriteThreshold {
			favorites = append(favorites, f)
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].Rating > favorites[j].Rating
	})
	if len(favorites) > maxFavorites {
		favorites = favorites[:maxFavorites]
	}
	return favorites
}

// gatherCandidates unions the similar-movie lists of every favorite,
// de-duplicated by ID, skipping excluded movies.
func (e *Engine) gatherCandidates(ctx context.Context, favorites []Favorite, exclude map[int]struct{}) ([]models.MovieRef, error) {
	seen := map[int]struct{}{}
	var candidates []models.MovieRef

	for i := range favorites {
		similar, err := e.catalog.GetSimilar(ctx, favorites[i].Movie.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range similar {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			if _, skip := exclude[m.ID]; skip {
				continue
			}
			candidates = append(candidates, m)
		}
	}
	return candidates, nil
}
