// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package recommend

import (
	"fmt"
	"strings"

	"github.com/borskip/reeltrack/internal/models"
)

// explainThreshold is the star rating a watched movie needs before it is
// cited in an explanation. Higher than the favorites threshold on purpose:
// "you rated X highly" should only name movies the user clearly loved.
const explainThreshold = 4.0

// Explain produces the human-readable reason a candidate was recommended.
// Matches are tried in priority order against the user's watched movies rated
// 4.0 or higher: shared genres, then director, then cast, then a generic
// fallback.
func Explain(candidate *models.MovieRef, rated []Favorite) string {
	for i := range rated {
		if rated[i].Rating < explainThreshold {
			continue
		}
		if shares, _ := candidate.SharesGenre(&rated[i].Movie); shares {
			return genreExplanation(candidate, &rated[i].Movie)
		}
	}

	if candidate.Director != "" {
		for i := range rated {
			if rated[i].Rating < explainThreshold {
				continue
			}
			if rated[i].Movie.Director == candidate.Director {
				return fmt.Sprintf("From %s, director of %s which you rated highly",
					candidate.Director, rated[i].Movie.Title)
			}
		}
	}

	for i := range rated {
		if rated[i].Rating < explainThreshold {
			continue
		}
		if common := candidate.SharedActors(&rated[i].Movie); len(common) > 0 {
			return fmt.Sprintf("Starring %s, who you enjoyed in %s",
				common[0], rated[i].Movie.Title)
		}
	}

	return "Based on your watching history and ratings"
}

func genreExplanation(candidate, watched *models.MovieRef) string {
	set := make(map[string]struct{}, len(watched.Genres))
	for _, g := range watched.Genres {
		set[strings.ToLower(g)] = struct{}{}
	}
	var matching []string
	for _, g := range candidate.Genres {
		if _, ok := set[strings.ToLower(g)]; ok {
			matching = append(matching, strings.ToLower(g))
		}
	}

	noun := "genres"
	if len(matching) == 1 {
		noun = "genre"
	}
	return fmt.Sprintf("Because you rated %s highly, which shares the %s %s",
		watched.Title, strings.Join(matching, " and "), noun)
}
