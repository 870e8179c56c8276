// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/borskip/reeltrack/internal/models"
)

// InsertWatched records that a user watched a movie.
func (db *DB) InsertWatched(ctx context.Context, e *models.WatchedEntry) error {
	movieData, err := marshalMovie(&e.Movie)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO watched_entries (user_id, movie_id, movie_data, watched_at)
		 VALUES (?, ?, ?, ?)`,
		e.UserID, e.MovieID, movieData, e.WatchedAt)
	if err != nil {
		return fmt.Errorf("insert watched entry: %w", mapInsertErr(err))
	}
	return nil
}

// HasWatched reports whether a watched row exists for (user, movie).
func (db *DB) HasWatched(ctx context.Context, userID string, movieID int) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM watched_entries WHERE user_id = ? AND movie_id = ?`,
		userID, movieID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check watched entry: %w", err)
	}
	return n > 0, nil
}

// ListWatched fetches a user's watched history, most recent first.
func (db *DB) ListWatched(ctx context.Context, userID string) ([]models.WatchedEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, movie_data, watched_at
		 FROM watched_entries
		 WHERE user_id = ?
		 ORDER BY watched_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list watched entries: %w", err)
	}
	return collectWatched(rows)
}

// DeleteWatched removes the watched row for (user, movie).
func (db *DB) DeleteWatched(ctx context.Context, userID string, movieID int) (int64, error) {
	return deleteWatched(ctx, db.conn, userID, movieID)
}

func deleteWatched(ctx context.Context, q querier, userID string, movieID int) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM watched_entries WHERE user_id = ? AND movie_id = ?`,
		userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("delete watched entry: %w", err)
	}
	return res.RowsAffected()
}

func collectWatched(rows *sql.Rows) ([]models.WatchedEntry, error) {
	defer rows.Close()

	var entries []models.WatchedEntry
	for rows.Next() {
		var (
			e         models.WatchedEntry
			movieData string
		)
		if err := rows.Scan(&e.UserID, &e.MovieID, &movieData, &e.WatchedAt); err != nil {
			return nil, fmt.Errorf("scan watched entry: %w", err)
		}
		if err := unmarshalMovie(movieData, &e.Movie); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watched entries: %w", err)
	}
	return entries, nil
}
