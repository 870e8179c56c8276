// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package database

import (
	"context"
	"fmt"

	"github.com/borskip/reeltrack/internal/models"
)

// UpsertRating inserts or updates a user's star rating for a movie.
// Uses DuckDB-native ON CONFLICT DO UPDATE on the (user_id, movie_id) key.
func (db *DB) UpsertRating(ctx context.Context, r *models.Rating) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, rated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, movie_id)
		 DO UPDATE SET rating = excluded.rating, rated_at = excluded.rated_at`,
		r.UserID, r.MovieID, r.Rating, r.RatedAt)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// ListRatings fetches a user's star ratings.
func (db *DB) ListRatings(ctx context.Context, userID string) ([]models.Rating, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, rating, rated_at
		 FROM ratings WHERE user_id = ?
		 ORDER BY rated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Rating, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// DeleteRating removes a user's rating for a movie.
func (db *DB) DeleteRating(ctx context.Context, userID string, movieID int) (int64, error) {
	return deleteRating(ctx, db.conn, userID, movieID)
}

func deleteRating(ctx context.Context, q querier, userID string, movieID int) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND movie_id = ?`,
		userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("delete rating: %w", err)
	}
	return res.RowsAffected()
}
