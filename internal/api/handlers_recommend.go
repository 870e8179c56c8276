// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/borskip/reeltrack/internal/metrics"
	"github.com/borskip/reeltrack/internal/watchlist"
)

// defaultRecommendationLimit bounds a run when the client does not ask for a
// specific count.
const defaultRecommendationLimit = 20

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		s.respondDomainError(w, r, watchlist.ErrNoUser)
		return
	}

	limit := defaultRecommendationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
				"limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	start := time.Now()
	result, err := s.engine.Recommend(r.Context(), user, limit)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	metrics.RecordRecommendation(string(result.Status), time.Since(start))

	s.respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleHideRecommendation(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		s.respondDomainError(w, r, watchlist.ErrNoUser)
		return
	}
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.engine.Hide(user, movieID)
	s.respondJSON(w, r, http.StatusOK, map[string]any{"movie_id": movieID, "hidden": true})
}
