// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package models

import "time"

// APIResponse is the envelope every API endpoint returns.
//
// Success:
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}
//
// Error:
//
//	{"status":"error","error":{"code":"DUPLICATE_ENTRY","message":"..."},
//	 "metadata":{"timestamp":"..."}}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data,omitempty"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is a structured error payload.
//
// Codes used by the API: VALIDATION_ERROR, NO_USER, DUPLICATE_ENTRY,
// MOVIE_NOT_FOUND, INVALID_DATE, PARTIAL_REMOVAL, STORE_UNAVAILABLE,
// CATALOG_UNAVAILABLE, NOT_FOUND, INTERNAL_ERROR.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
