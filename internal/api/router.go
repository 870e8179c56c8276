// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/borskip/reeltrack/internal/metrics"
)

// Routes assembles the full route tree with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(chimiddleware.Recoverer)

	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", userIDHeader, requestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(prometheusMetrics)
		r.Use(httprate.LimitByIP(s.cfg.RateLimitPerMinute, time.Minute))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/list", s.handlePersonalList)
			r.Post("/list", s.handleAddToPersonalList)
			r.Get("/watchlist", s.handlePersonalWatchlist)
			r.Post("/watchlist", s.handleAddToPersonalWatchlist)
			r.Put("/watchlist/{movieID}/rating", s.handleRateWantToSee)
			r.Delete("/movies/{movieID}", s.handleRemoveFromPersonal)
			r.Get("/watched", s.handleWatchedMovies)
			r.Post("/watched/toggle", s.handleToggleWatched)
			r.Get("/ratings", s.handleRatings)
			r.Put("/ratings/{movieID}", s.handleRateMovie)
			r.Get("/stats", s.handleWatchStats)
		})

		r.Route("/shared", func(r chi.Router) {
			r.Get("/", s.handleSharedWatchlist)
			r.Post("/", s.handleAddToShared)
			r.Delete("/{movieID}", s.handleRemoveFromShared)
			r.Put("/{movieID}/schedule", s.handleScheduleMovie)
		})
		r.Get("/schedule", s.handleUpcomingSchedule)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", s.handleRecommendations)
			r.Post("/{movieID}/hide", s.handleHideRecommendation)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/search", s.handleCatalogSearch)
			r.Get("/movies/{movieID}", s.handleCatalogDetails)
			r.Get("/movies/{movieID}/similar", s.handleCatalogSimilar)
			r.Get("/now-playing", s.browseHandler(s.catalog.NowPlaying))
			r.Get("/upcoming", s.browseHandler(s.catalog.Upcoming))
			r.Get("/trending", s.browseHandler(s.catalog.Trending))
			r.Get("/popular", s.browseHandler(s.catalog.Popular))
			r.Get("/top-rated", s.browseHandler(s.catalog.TopRated))
			r.Get("/genres", s.handleCatalogGenres)
			r.Get("/genres/{genreID}/movies", s.handleCatalogDiscover)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
