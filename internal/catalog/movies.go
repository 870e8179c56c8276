// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/borskip/reeltrack/internal/cache"
	"github.com/borskip/reeltrack/internal/models"
)

// SearchByTitle searches the catalog for movies matching the query.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]models.MovieRef, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.listPage(ctx, cache.Key("search", query), c.ttl.SearchTTL, "/search/movie", q)
}

// GetDetails fetches the full catalog record for a movie, including the
// director and the top-billed cast from the credits block.
func (c *Client) GetDetails(ctx context.Context, movieID int) (*models.MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", "credits")
	body, err := c.get(ctx,
		cache.Key("details", strconv.Itoa(movieID)),
		c.ttl.DetailsTTL,
		"/movie/"+strconv.Itoa(movieID), q)
	if err != nil {
		return nil, err
	}

	var w wireMovie
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: decode details: %w", ErrCatalogUnavailable, err)
	}
	return w.toDetails(nil), nil
}

// GetSimilar fetches movies the catalog considers similar to the given one.
func (c *Client) GetSimilar(ctx context.Context, movieID int) ([]models.MovieRef, error) {
	id := strconv.Itoa(movieID)
	return c.listPage(ctx, cache.Key("similar", id), c.ttl.SimilarTTL, "/movie/"+id+"/similar", nil)
}

// NowPlaying fetches movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context) ([]models.MovieRef, error) {
	return c.listPage(ctx, cache.Key("browse", "now_playing"), c.ttl.BrowseTTL, "/movie/now_playing", nil)
}

// Upcoming fetches movies with upcoming releases.
func (c *Client) Upcoming(ctx context.Context) ([]models.MovieRef, error) {
	return c.listPage(ctx, cache.Key("browse", "upcoming"), c.ttl.BrowseTTL, "/movie/upcoming", nil)
}

// Trending fetches this week's trending movies.
func (c *Client) Trending(ctx context.Context) ([]models.MovieRef, error) {
	return c.listPage(ctx, cache.Key("browse", "trending"), c.ttl.BrowseTTL, "/trending/movie/week", nil)
}

// Popular fetches the catalog's popular movies.
func (c *Client) Popular(ctx context.Context) ([]models.MovieRef, error) {
	return c.listPage(ctx, cache.Key("browse", "popular"), c.ttl.BrowseTTL, "/movie/popular", nil)
}

// TopRated fetches the catalog's top-rated movies.
func (c *Client) TopRated(ctx context.Context) ([]models.MovieRef, error) {
	return c.listPage(ctx, cache.Key("browse", "top_rated"), c.ttl.BrowseTTL, "/movie/top_rated", nil)
}

// DiscoverByGenre fetches popular movies in a genre.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int) ([]models.MovieRef, error) {
	id := strconv.Itoa(genreID)
	q := url.Values{}
	q.Set("with_genres", id)
	q.Set("sort_by", "popularity.desc")
	return c.listPage(ctx, cache.Key("browse", "genre", id), c.ttl.BrowseTTL, "/discover/movie", q)
}

// Genres fetches the catalog's genre taxonomy.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	body, err := c.get(ctx, cache.Key("browse", "genres"), c.ttl.BrowseTTL, "/genre/movie/list", nil)
	if err != nil {
		return nil, err
	}

	var list wireGenreList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decode genres: %w", ErrCatalogUnavailable, err)
	}
	return list.Genres, nil
}

// listPage fetches one page of movie list results and converts it to
// snapshots. List payloads carry numeric genre IDs, so the genre taxonomy is
// resolved first; that lookup is almost always a cache hit.
func (c *Client) listPage(ctx context.Context, cacheKey string, ttl time.Duration, path string, q url.Values) ([]models.MovieRef, error) {
	names, err := c.genreNames(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, cacheKey, ttl, path, q)
	if err != nil {
		return nil, err
	}

	var page wirePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: decode list: %w", ErrCatalogUnavailable, err)
	}

	refs := make([]models.MovieRef, 0, len(page.Results))
	for i := range page.Results {
		refs = append(refs, page.Results[i].toRef(names))
	}
	return refs, nil
}

func (c *Client) genreNames(ctx context.Context) (map[int]string, error) {
	genres, err := c.Genres(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	return names, nil
}
