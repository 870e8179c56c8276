// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package recommend

import (
	"time"

	"github.com/borskip/reeltrack/internal/models"
)

// Favorite pairs a watched movie snapshot with the user's star rating.
type Favorite struct {
	Movie  models.MovieRef
	Rating float64
}

// Score computes the multi-factor relevance of a candidate against the user's
// favorites. Factors, in order:
//
//   - every favorite sharing a genre contributes rating*0.2 scaled by a
//     recency bonus on the favorite's release date, plus a flat
//     0.2*matchCount when more than one genre matches;
//   - the first favorite sharing the candidate's director adds rating*0.3;
//   - every favorite sharing a cast member adds rating*0.2;
//   - the sum is scaled by the candidate's own community rating.
func Score(candidate *models.MovieRef, favorites []Favorite, now time.Time) float64 {
	score := 0.0

	for i := range favorites {
		fav := &favorites[i]
		shares, matches := candidate.SharesGenre(&fav.Movie)
		if !shares {
			continue
		}
		score += fav.Rating * 0.2 * (1 + recencyBonus(&fav.Movie, now))
		if matches > 1 {
			score += float64(matches) * 0.2
		}
	}

	if candidate.Director != "" {
		for i := range favorites {
			if favorites[i].Movie.Director == candidate.Director {
				score += favorites[i].Rating * 0.3
				break
			}
		}
	}

	for i := range favorites {
		if len(candidate.SharedActors(&favorites[i].Movie)) > 0 {
			score += favorites[i].Rating * 0.2
		}
	}

	if candidate.CommunityRating > 0 {
		score *= candidate.CommunityRating / 10
	}
	return score
}

// recencyBonus rewards favorites released within the last year, fading
// linearly from 1 at release to 0 at twelve months out. Months are counted as
// 30-day periods. A missing release date contributes the full bonus, matching
// a zero months-ago value.
func recencyBonus(m *models.MovieRef, now time.Time) float64 {
	released := m.Released()
	if released.IsZero() {
		return 1
	}
	months := now.Sub(released).Hours() / 24 / 30
	bonus := 1 - months/12
	if bonus < 0 {
		return 0
	}
	return bonus
}
