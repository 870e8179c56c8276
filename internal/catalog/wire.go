// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package catalog

import (
	"github.com/borskip/reeltrack/internal/models"
)

// topBilledCast is how many cast members a detail lookup keeps.
const topBilledCast = 5

// wireMovie covers both the list-item and detail shapes of the catalog API.
// List items carry genre_ids; detail responses carry expanded genres and,
// with append_to_response=credits, the credits block.
type wireMovie struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	ReleaseDate string         `json:"release_date"`
	PosterPath  string         `json:"poster_path"`
	GenreIDs    []int          `json:"genre_ids"`
	Genres      []models.Genre `json:"genres"`
	VoteAverage float64        `json:"vote_average"`
	VoteCount   int            `json:"vote_count"`
	Popularity  float64        `json:"popularity"`
	Overview    string         `json:"overview"`
	Runtime     int            `json:"runtime"`
	Tagline     string         `json:"tagline"`
	Status      string         `json:"status"`
	Credits     *wireCredits   `json:"credits"`
}

type wirePage struct {
	Page       int         `json:"page"`
	Results    []wireMovie `json:"results"`
	TotalPages int         `json:"total_pages"`
}

type wireCredits struct {
	Cast []wireCast `json:"cast"`
	Crew []wireCrew `json:"crew"`
}

type wireCast struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type wireCrew struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type wireGenreList struct {
	Genres []models.Genre `json:"genres"`
}

// toRef converts a wire movie to a snapshot, resolving numeric genre IDs
// through the given name map when the payload has no expanded genres.
func (w *wireMovie) toRef(genreNames map[int]string) models.MovieRef {
	ref := models.MovieRef{
		ID:              w.ID,
		Title:           w.Title,
		ReleaseDate:     w.ReleaseDate,
		PosterPath:      w.PosterPath,
		CommunityRating: w.VoteAverage,
		Popularity:      w.Popularity,
	}
	if len(w.Genres) > 0 {
		for _, g := range w.Genres {
			ref.Genres = append(ref.Genres, g.Name)
		}
	} else {
		for _, id := range w.GenreIDs {
			if name, ok := genreNames[id]; ok {
				ref.Genres = append(ref.Genres, name)
			}
		}
	}
	if w.Credits != nil {
		ref.Director = w.Credits.director()
		ref.Actors = w.Credits.topCast(topBilledCast)
	}
	return ref
}

func (w *wireMovie) toDetails(genreNames map[int]string) *models.MovieDetails {
	return &models.MovieDetails{
		MovieRef:       w.toRef(genreNames),
		Overview:       w.Overview,
		RuntimeMinutes: w.Runtime,
		Tagline:        w.Tagline,
		VoteCount:      w.VoteCount,
		Status:         w.Status,
	}
}

// director returns the first crew member credited with the Director job.
func (cr *wireCredits) director() string {
	for _, c := range cr.Crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// topCast returns the first n cast members in billing order. The catalog
// already sorts cast by the order field.
func (cr *wireCredits) topCast(n int) []string {
	if len(cr.Cast) == 0 {
		return nil
	}
	if len(cr.Cast) < n {
		n = len(cr.Cast)
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = cr.Cast[i].Name
	}
	return names
}
