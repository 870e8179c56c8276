// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/borskip/reeltrack/internal/catalog"
	"github.com/borskip/reeltrack/internal/models"
	"github.com/borskip/reeltrack/internal/validation"
	"github.com/borskip/reeltrack/internal/watchlist"
)

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestIDFrom(r.Context()),
		},
	}
	s.write(w, status, &resp)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestIDFrom(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	s.write(w, status, &resp)
}

func (s *Server) write(w http.ResponseWriter, status int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondDomainError maps the typed domain errors onto HTTP statuses and
// machine-readable codes.
func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var partial *watchlist.PartialRemovalError
	var invalid *validation.RequestError

	switch {
	case errors.Is(err, watchlist.ErrNoUser):
		s.respondError(w, r, http.StatusUnauthorized, "NO_USER",
			"an X-User-ID header is required", nil)
	case errors.Is(err, watchlist.ErrDuplicateEntry):
		s.respondError(w, r, http.StatusConflict, "DUPLICATE_ENTRY",
			"the entry already exists", nil)
	case errors.Is(err, watchlist.ErrMovieNotFound):
		s.respondError(w, r, http.StatusNotFound, "MOVIE_NOT_FOUND",
			"the movie is not on any list", nil)
	case errors.Is(err, watchlist.ErrInvalidDate):
		s.respondError(w, r, http.StatusBadRequest, "INVALID_DATE",
			"the date could not be parsed", nil)
	case errors.As(err, &partial):
		details := make(map[string]any, len(partial.Failures))
		for collection, ferr := range partial.Failures {
			details[collection] = ferr.Error()
		}
		s.respondError(w, r, http.StatusInternalServerError, "PARTIAL_REMOVAL",
			"removal partially failed; retry to finish", details)
	case errors.Is(err, watchlist.ErrStoreUnavailable):
		s.log.Error().Err(err).Msg("store failure")
		s.respondError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"the store is unavailable", nil)
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		s.log.Warn().Err(err).Msg("catalog failure")
		s.respondError(w, r, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE",
			"the movie catalog is unavailable", nil)
	case errors.As(err, &invalid):
		s.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			invalid.Error(), invalid.Details())
	default:
		s.log.Error().Err(err).Msg("unhandled error")
		s.respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR",
			"internal error", nil)
	}
}

// decode parses and validates a JSON request body.
func decode[T any](r *http.Request, dst *T) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &validation.RequestError{Fields: []validation.FieldError{{
			Field:   "body",
			Tag:     "json",
			Message: "request body is not valid JSON",
		}}}
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}
