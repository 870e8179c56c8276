// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/borskip/reeltrack/internal/metrics"
	"github.com/borskip/reeltrack/internal/models"
	"github.com/borskip/reeltrack/internal/validation"
)

// addMovieRequest carries a catalog snapshot to put on a list. The client
// already holds the full MovieRef from a catalog lookup, so the API stores
// what it is given instead of re-fetching.
type addMovieRequest struct {
	Movie models.MovieRef `json:"movie"`
}

func (req *addMovieRequest) validate() error {
	var fields []validation.FieldError
	if req.Movie.ID <= 0 {
		fields = append(fields, validation.FieldError{
			Field: "movie.id", Tag: "required", Message: "movie.id is required",
		})
	}
	if req.Movie.Title == "" {
		fields = append(fields, validation.FieldError{
			Field: "movie.title", Tag: "required", Message: "movie.title is required",
		})
	}
	if len(fields) > 0 {
		return &validation.RequestError{Fields: fields}
	}
	return nil
}

type rateRequest struct {
	Rating float64 `json:"rating" validate:"required"`
}

// movieIDParam parses the {movieID} route parameter.
func movieIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || id <= 0 {
		return 0, &validation.RequestError{Fields: []validation.FieldError{{
			Field: "movieID", Tag: "numeric", Message: "movieID must be a positive integer",
		}}}
	}
	return id, nil
}

func (s *Server) handleAddToPersonalList(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	entry, err := s.watchlist.AddToPersonalList(r.Context(), userID(r), req.Movie)
	metrics.RecordMutation("add_personal_list", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleAddToPersonalWatchlist(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	entry, err := s.watchlist.AddToPersonalWatchlist(r.Context(), userID(r), req.Movie)
	metrics.RecordMutation("add_personal_watchlist", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleRateWantToSee(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	var req rateRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	err = s.watchlist.RateWantToSee(r.Context(), userID(r), movieID, req.Rating)
	metrics.RecordMutation("rate_want_to_see", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"movie_id": movieID})
}

func (s *Server) handleRateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	var req rateRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	rating, err := s.watchlist.RateMovie(r.Context(), userID(r), movieID, req.Rating)
	metrics.RecordMutation("rate_movie", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rating)
}

func (s *Server) handleToggleWatched(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	watched, err := s.watchlist.ToggleWatched(r.Context(), userID(r), req.Movie)
	metrics.RecordMutation("toggle_watched", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"movie_id": req.Movie.ID,
		"watched":  watched,
	})
}

func (s *Server) handleRemoveFromPersonal(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	err = s.watchlist.RemoveFromPersonal(r.Context(), userID(r), movieID)
	metrics.RecordMutation("remove_personal", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"movie_id": movieID})
}

func (s *Server) handlePersonalList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.watchlist.PersonalList(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rows)
}

func (s *Server) handlePersonalWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.watchlist.PersonalWatchlist(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleWatchedMovies(w http.ResponseWriter, r *http.Request) {
	rows, err := s.watchlist.WatchedMovies(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rows)
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.watchlist.Ratings(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, ratings)
}

func (s *Server) handleWatchStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.watchlist.WatchStats(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, stats)
}
