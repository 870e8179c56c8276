// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/borskip/reeltrack/internal/models"
)

func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"q query parameter is required", nil)
		return
	}

	refs, err := s.catalog.SearchByTitle(r.Context(), query)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, refs)
}

func (s *Server) handleCatalogDetails(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	details, err := s.catalog.GetDetails(r.Context(), movieID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, details)
}

func (s *Server) handleCatalogSimilar(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	refs, err := s.catalog.GetSimilar(r.Context(), movieID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, refs)
}

// browseHandler adapts the parameterless browse lookups into handlers.
func (s *Server) browseHandler(fetch func(context.Context) ([]models.MovieRef, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refs, err := fetch(r.Context())
		if err != nil {
			s.respondDomainError(w, r, err)
			return
		}
		s.respondJSON(w, r, http.StatusOK, refs)
	}
}

func (s *Server) handleCatalogGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.catalog.Genres(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, genres)
}

func (s *Server) handleCatalogDiscover(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.Atoi(chi.URLParam(r, "genreID"))
	if err != nil || genreID <= 0 {
		s.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"genreID must be a positive integer", nil)
		return
	}

	refs, err := s.catalog.DiscoverByGenre(r.Context(), genreID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, refs)
}
