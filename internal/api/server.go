// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package api exposes the watchlist, recommendation, and catalog operations
// over a chi-based JSON HTTP API.
//
// User identity arrives in the X-User-ID header; authentication itself is a
// deployment concern handled in front of this service. Responses use the
// APIResponse envelope and all errors carry machine-readable codes.
package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/borskip/reeltrack/internal/config"
	"github.com/borskip/reeltrack/internal/logging"
	"github.com/borskip/reeltrack/internal/models"
	"github.com/borskip/reeltrack/internal/recommend"
)

// Watchlist is the mutation and read surface the handlers drive. The
// watchlist manager satisfies it.
type Watchlist interface {
	AddToPersonalList(ctx context.Context, userID string, movie models.MovieRef) (*models.PersonalEntry, error)
	AddToPersonalWatchlist(ctx context.Context, userID string, movie models.MovieRef) (*models.PersonalEntry, error)
	AddToShared(ctx context.Context, userID string, movie models.MovieRef) (*models.SharedEntry, error)
	RateMovie(ctx context.Context, userID string, movieID int, rating float64) (*models.Rating, error)
	RateWantToSee(ctx context.Context, userID string, movieID int, rating float64) error
	ScheduleMovie(ctx context.Context, movieID int, date string) (time.Time, error)
	ToggleWatched(ctx context.Context, userID string, movie models.MovieRef) (bool, error)
	RemoveFromPersonal(ctx context.Context, userID string, movieID int) error
	RemoveFromShared(ctx context.Context, movieID int) error

	PersonalList(ctx context.Context, userID string) ([]models.PersonalListRow, error)
	PersonalWatchlist(ctx context.Context, userID string) ([]models.PersonalEntry, error)
	SharedWatchlist(ctx context.Context, userID string) ([]models.SharedListRow, error)
	WatchedMovies(ctx context.Context, userID string) ([]models.WatchedRow, error)
	Ratings(ctx context.Context, userID string) ([]models.Rating, error)
	UpcomingSchedule(ctx context.Context) ([]models.SharedEntry, error)
	WatchStats(ctx context.Context, userID string) (*models.WatchStats, error)
}

// Recommender produces and curates recommendations. The recommendation
// engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int) (*recommend.Result, error)
	Hide(userID string, movieID int)
}

// Catalog is the metadata lookup surface. The catalog client satisfies it.
type Catalog interface {
	SearchByTitle(ctx context.Context, query string) ([]models.MovieRef, error)
	GetDetails(ctx context.Context, movieID int) (*models.MovieDetails, error)
	GetSimilar(ctx context.Context, movieID int) ([]models.MovieRef, error)
	NowPlaying(ctx context.Context) ([]models.MovieRef, error)
	Upcoming(ctx context.Context) ([]models.MovieRef, error)
	Trending(ctx context.Context) ([]models.MovieRef, error)
	Popular(ctx context.Context) ([]models.MovieRef, error)
	TopRated(ctx context.Context) ([]models.MovieRef, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	DiscoverByGenre(ctx context.Context, genreID int) ([]models.MovieRef, error)
}

// Server holds the handler dependencies.
type Server struct {
	watchlist Watchlist
	engine    Recommender
	catalog   Catalog
	cfg       *config.ServerConfig
	log       zerolog.Logger
}

// NewServer builds the API server.
func NewServer(cfg *config.ServerConfig, wl Watchlist, engine Recommender, cat Catalog) *Server {
	return &Server{
		watchlist: wl,
		engine:    engine,
		catalog:   cat,
		cfg:       cfg,
		log:       logging.With().Str("component", "api").Logger(),
	}
}
