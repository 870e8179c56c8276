// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/borskip/reeltrack/internal/models"
)

// InsertShared inserts a shared entry. The movie_id primary key makes this a
// first-writer-wins operation: a second insert for the same movie returns
// ErrConflict.
func (db *DB) InsertShared(ctx context.Context, e *models.SharedEntry) error {
	movieData, err := marshalMovie(&e.Movie)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO shared_entries (movie_id, movie_data, added_by, scheduled_for, added_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.MovieID, movieData, e.AddedBy, e.ScheduledFor, e.AddedAt)
	if err != nil {
		return fmt.Errorf("insert shared entry: %w", mapInsertErr(err))
	}
	return nil
}

// GetShared fetches the shared entry for a movie. The second return value
// reports whether a row was found.
func (db *DB) GetShared(ctx context.Context, movieID int) (*models.SharedEntry, bool, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT movie_id, movie_data, added_by, scheduled_for, added_at
		 FROM shared_entries WHERE movie_id = ?`,
		movieID)

	e, err := scanShared(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get shared entry: %w", err)
	}
	return e, true, nil
}

// ListShared fetches every shared entry, newest first.
func (db *DB) ListShared(ctx context.Context) ([]models.SharedEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, movie_data, added_by, scheduled_for, added_at
		 FROM shared_entries ORDER BY added_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shared entries: %w", err)
	}
	return collectShared(rows)
}

// ListScheduled fetches shared entries scheduled at or after the given time,
// soonest first.
func (db *DB) ListScheduled(ctx context.Context, from time.Time) ([]models.SharedEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, movie_data, added_by, scheduled_for, added_at
		 FROM shared_entries
		 WHERE scheduled_for IS NOT NULL AND scheduled_for >= ?
		 ORDER BY scheduled_for ASC`,
		from)
	if err != nil {
		return nil, fmt.Errorf("list scheduled entries: %w", err)
	}
	return collectShared(rows)
}

// UpdateSharedSchedule sets the scheduled time on a movie's shared entry.
// Returns the number of rows updated; zero (no shared entry) is not an error.
func (db *DB) UpdateSharedSchedule(ctx context.Context, movieID int, scheduledFor time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE shared_entries SET scheduled_for = ? WHERE movie_id = ?`,
		scheduledFor, movieID)
	if err != nil {
		return 0, fmt.Errorf("update shared schedule: %w", err)
	}
	return res.RowsAffected()
}

// DeleteShared removes a movie's shared entry.
func (db *DB) DeleteShared(ctx context.Context, movieID int) (int64, error) {
	return deleteShared(ctx, db.conn, movieID)
}

func deleteShared(ctx context.Context, q querier, movieID int) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM shared_entries WHERE movie_id = ?`, movieID)
	if err != nil {
		return 0, fmt.Errorf("delete shared entry: %w", err)
	}
	return res.RowsAffected()
}

func scanShared(r rowScanner) (*models.SharedEntry, error) {
	var (
		e            models.SharedEntry
		movieData    string
		scheduledFor sql.NullTime
	)
	if err := r.Scan(&e.MovieID, &movieData, &e.AddedBy, &scheduledFor, &e.AddedAt); err != nil {
		return nil, err
	}
	if scheduledFor.Valid {
		t := scheduledFor.Time
		e.ScheduledFor = &t
	}
	if err := unmarshalMovie(movieData, &e.Movie); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectShared(rows *sql.Rows) ([]models.SharedEntry, error) {
	defer rows.Close()

	var entries []models.SharedEntry
	for rows.Next() {
		e, err := scanShared(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shared entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared entries: %w", err)
	}
	return entries, nil
}
