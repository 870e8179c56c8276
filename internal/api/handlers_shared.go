// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"net/http"

	"github.com/borskip/reeltrack/internal/metrics"
)

// scheduleRequest carries the group viewing date. Only plain dates are
// accepted at the API; the time of day is fixed server-side.
type scheduleRequest struct {
	Date string `json:"date" validate:"required,watchdate"`
}

func (s *Server) handleSharedWatchlist(w http.ResponseWriter, r *http.Request) {
	rows, err := s.watchlist.SharedWatchlist(r.Context(), userID(r))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rows)
}

func (s *Server) handleAddToShared(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	entry, err := s.watchlist.AddToShared(r.Context(), userID(r), req.Movie)
	metrics.RecordMutation("add_shared", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleRemoveFromShared(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	err = s.watchlist.RemoveFromShared(r.Context(), movieID)
	metrics.RecordMutation("remove_shared", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"movie_id": movieID})
}

func (s *Server) handleScheduleMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	when, err := s.watchlist.ScheduleMovie(r.Context(), movieID, req.Date)
	metrics.RecordMutation("schedule_movie", err)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"movie_id":      movieID,
		"scheduled_for": when,
	})
}

func (s *Server) handleUpcomingSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := s.watchlist.UpcomingSchedule(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, entries)
}
