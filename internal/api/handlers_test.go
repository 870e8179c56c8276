// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/borskip/reeltrack/internal/catalog"
	"github.com/borskip/reeltrack/internal/config"
	"github.com/borskip/reeltrack/internal/models"
	"github.com/borskip/reeltrack/internal/recommend"
	"github.com/borskip/reeltrack/internal/watchlist"
)

// fakeWatchlist mirrors the manager's identity handling and returns canned
// results, with per-test error injection.
type fakeWatchlist struct {
	err error
}

func (f *fakeWatchlist) guard(userID string) error {
	if userID == "" {
		return watchlist.ErrNoUser
	}
	return f.err
}

func (f *fakeWatchlist) AddToPersonalList(_ context.Context, userID string, movie models.MovieRef) (*models.PersonalEntry, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return &models.PersonalEntry{UserID: userID, MovieID: movie.ID, Movie: movie, Kind: models.KindList}, nil
}

func (f *fakeWatchlist) AddToPersonalWatchlist(_ context.Context, userID string, movie models.MovieRef) (*models.PersonalEntry, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return &models.PersonalEntry{
		UserID: userID, MovieID: movie.ID, Movie: movie,
		Kind: models.KindWatchlist, WantToSeeRating: 5.0,
	}, nil
}

func (f *fakeWatchlist) AddToShared(_ context.Context, userID string, movie models.MovieRef) (*models.SharedEntry, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return &models.SharedEntry{MovieID: movie.ID, Movie: movie, AddedBy: userID}, nil
}

func (f *fakeWatchlist) RateMovie(_ context.Context, userID string, movieID int, rating float64) (*models.Rating, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return &models.Rating{UserID: userID, MovieID: movieID, Rating: rating}, nil
}

func (f *fakeWatchlist) RateWantToSee(_ context.Context, userID string, _ int, _ float64) error {
	return f.guard(userID)
}

func (f *fakeWatchlist) ScheduleMovie(_ context.Context, _ int, date string) (time.Time, error) {
	if f.err != nil {
		return time.Time{}, f.err
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, watchlist.ErrInvalidDate
	}
	return t.Add(12 * time.Hour), nil
}

func (f *fakeWatchlist) ToggleWatched(_ context.Context, userID string, _ models.MovieRef) (bool, error) {
	if err := f.guard(userID); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeWatchlist) RemoveFromPersonal(_ context.Context, userID string, _ int) error {
	return f.guard(userID)
}

func (f *fakeWatchlist) RemoveFromShared(_ context.Context, _ int) error { return f.err }

func (f *fakeWatchlist) PersonalList(_ context.Context, userID string) ([]models.PersonalListRow, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return []models.PersonalListRow{}, nil
}

func (f *fakeWatchlist) PersonalWatchlist(_ context.Context, userID string) ([]models.PersonalEntry, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return []models.PersonalEntry{}, nil
}

func (f *fakeWatchlist) SharedWatchlist(context.Context, string) ([]models.SharedListRow, error) {
	return []models.SharedListRow{}, f.err
}

func (f *fakeWatchlist) WatchedMovies(_ context.Context, userID string) ([]models.WatchedRow, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return []models.WatchedRow{}, nil
}

func (f *fakeWatchlist) Ratings(_ context.Context, userID string) ([]models.Rating, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return []models.Rating{}, nil
}

func (f *fakeWatchlist) UpcomingSchedule(context.Context) ([]models.SharedEntry, error) {
	return []models.SharedEntry{}, f.err
}

func (f *fakeWatchlist) WatchStats(_ context.Context, userID string) (*models.WatchStats, error) {
	if err := f.guard(userID); err != nil {
		return nil, err
	}
	return &models.WatchStats{}, nil
}

type fakeRecommender struct {
	result *recommend.Result
	err    error
	hidden []int
}

func (f *fakeRecommender) Recommend(context.Context, string, int) (*recommend.Result, error) {
	return f.result, f.err
}

func (f *fakeRecommender) Hide(_ string, movieID int) {
	f.hidden = append(f.hidden, movieID)
}

type fakeCatalog struct {
	refs []models.MovieRef
	err  error
}

func (f *fakeCatalog) SearchByTitle(context.Context, string) ([]models.MovieRef, error) {
	return f.refs, f.err
}

func (f *fakeCatalog) GetDetails(context.Context, int) (*models.MovieDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.MovieDetails{}, nil
}

func (f *fakeCatalog) GetSimilar(context.Context, int) ([]models.MovieRef, error) {
	return f.refs, f.err
}
func (f *fakeCatalog) NowPlaying(context.Context) ([]models.MovieRef, error) { return f.refs, f.err }
func (f *fakeCatalog) Upcoming(context.Context) ([]models.MovieRef, error)   { return f.refs, f.err }
func (f *fakeCatalog) Trending(context.Context) ([]models.MovieRef, error)   { return f.refs, f.err }
func (f *fakeCatalog) Popular(context.Context) ([]models.MovieRef, error)    { return f.refs, f.err }
func (f *fakeCatalog) TopRated(context.Context) ([]models.MovieRef, error)   { return f.refs, f.err }
func (f *fakeCatalog) Genres(context.Context) ([]models.Genre, error)        { return nil, f.err }
func (f *fakeCatalog) DiscoverByGenre(context.Context, int) ([]models.MovieRef, error) {
	return f.refs, f.err
}

func newTestServer(wl *fakeWatchlist, rec *fakeRecommender, cat *fakeCatalog) http.Handler {
	cfg := &config.ServerConfig{
		Addr:               ":0",
		RateLimitPerMinute: 10000,
	}
	return NewServer(cfg, wl, rec, cat).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, user, body string) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp models.APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an envelope: %v\nbody: %s", err, rr.Body.String())
	}
	return rr, &resp
}

func TestAddToPersonalList(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodPost, "/api/v1/users/me/list", "nina",
		`{"movie":{"id":27205,"title":"Inception"}}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rr.Code)
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q", resp.Status)
	}
}

func TestMutationsRejectAnonymous(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{result: &recommend.Result{Status: recommend.StatusOK}}, &fakeCatalog{})

	tests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/v1/users/me/list", `{"movie":{"id":1,"title":"A"}}`},
		{http.MethodPost, "/api/v1/users/me/watchlist", `{"movie":{"id":1,"title":"A"}}`},
		{http.MethodPut, "/api/v1/users/me/ratings/1", `{"rating":4}`},
		{http.MethodDelete, "/api/v1/users/me/movies/1", ""},
		{http.MethodGet, "/api/v1/recommendations/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr, resp := doRequest(t, h, tt.method, tt.path, "", tt.body)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rr.Code)
			}
			if resp.Error == nil || resp.Error.Code != "NO_USER" {
				t.Errorf("error = %+v, want NO_USER", resp.Error)
			}
		})
	}
}

func TestDuplicateEntryMapsToConflict(t *testing.T) {
	h := newTestServer(&fakeWatchlist{err: watchlist.ErrDuplicateEntry}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodPost, "/api/v1/users/me/watchlist", "nina",
		`{"movie":{"id":27205,"title":"Inception"}}`)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if resp.Error.Code != "DUPLICATE_ENTRY" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestMovieNotFoundMapsTo404(t *testing.T) {
	h := newTestServer(&fakeWatchlist{err: watchlist.ErrMovieNotFound}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodPut, "/api/v1/users/me/watchlist/999/rating", "nina",
		`{"rating":7}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if resp.Error.Code != "MOVIE_NOT_FOUND" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestInvalidRequestBodies(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	tests := []struct {
		name, path, body string
	}{
		{"not json", "/api/v1/users/me/list", "not json at all"},
		{"missing movie", "/api/v1/users/me/list", `{"movie":{}}`},
		{"missing title", "/api/v1/users/me/list", `{"movie":{"id":5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := doRequest(t, h, http.MethodPost, tt.path, "nina", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error code = %q", resp.Error.Code)
			}
		})
	}
}

func TestScheduleRejectsMalformedDate(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodPut, "/api/v1/shared/42/schedule", "nina",
		`{"date":"not-a-date"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestScheduleAcceptsPlainDate(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	rr, _ := doRequest(t, h, http.MethodPut, "/api/v1/shared/42/schedule", "nina",
		`{"date":"2026-12-25"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestBadMovieIDParam(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodDelete, "/api/v1/users/me/movies/abc", "nina", "")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestPartialRemovalSurfacesDetails(t *testing.T) {
	wl := &fakeWatchlist{err: &watchlist.PartialRemovalError{
		Failures: map[string]error{"ratings": errors.New("disk full")},
	}}
	h := newTestServer(wl, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodDelete, "/api/v1/users/me/movies/5", "nina", "")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp.Error.Code != "PARTIAL_REMOVAL" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
	if _, ok := resp.Error.Details["ratings"]; !ok {
		t.Errorf("details = %v, want ratings entry", resp.Error.Details)
	}
}

func TestRecommendationsEnvelope(t *testing.T) {
	rec := &fakeRecommender{result: &recommend.Result{
		Status: recommend.StatusNoFavorites,
	}}
	h := newTestServer(&fakeWatchlist{}, rec, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodGet, "/api/v1/recommendations/", "nina", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	var result recommend.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != recommend.StatusNoFavorites {
		t.Errorf("result status = %q, want no_favorites", result.Status)
	}
}

func TestHideRecommendation(t *testing.T) {
	rec := &fakeRecommender{}
	h := newTestServer(&fakeWatchlist{}, rec, &fakeCatalog{})

	rr, _ := doRequest(t, h, http.MethodPost, "/api/v1/recommendations/42/hide", "nina", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(rec.hidden) != 1 || rec.hidden[0] != 42 {
		t.Errorf("hidden = %v, want [42]", rec.hidden)
	}
}

func TestCatalogSearchRequiresQuery(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodGet, "/api/v1/catalog/search", "nina", "")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestCatalogOutageMapsTo503(t *testing.T) {
	cat := &fakeCatalog{err: catalog.ErrCatalogUnavailable}
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, cat)

	rr, resp := doRequest(t, h, http.MethodGet, "/api/v1/catalog/trending", "nina", "")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if resp.Error.Code != "CATALOG_UNAVAILABLE" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(&fakeWatchlist{}, &fakeRecommender{}, &fakeCatalog{})

	rr, resp := doRequest(t, h, http.MethodGet, "/healthz", "", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q", resp.Status)
	}
}
