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

	"github.com/borskip/reeltrack/internal/models"
)

// InsertPersonal inserts a personal entry. Returns ErrConflict when a row with
// the same (user, movie, kind) already exists.
func (db *DB) InsertPersonal(ctx context.Context, e *models.PersonalEntry) error {
	return insertPersonal(ctx, db.conn, e)
}

func insertPersonal(ctx context.Context, q querier, e *models.PersonalEntry) error {
	movieData, err := marshalMovie(&e.Movie)
	if err != nil {
		return err
	}

	var rating any
	if e.Kind == models.KindWatchlist {
		rating = e.WantToSeeRating
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO personal_entries (user_id, movie_id, kind, want_to_see_rating, movie_data, added_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.MovieID, e.Kind.String(), rating, movieData, e.AddedAt)
	if err != nil {
		return fmt.Errorf("insert personal entry: %w", mapInsertErr(err))
	}
	return nil
}

// GetPersonal fetches the entry for (user, movie, kind). The second return
// value reports whether a row was found.
func (db *DB) GetPersonal(ctx context.Context, userID string, movieID int, kind models.EntryKind) (*models.PersonalEntry, bool, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT user_id, movie_id, kind, want_to_see_rating, movie_data, added_at
		 FROM personal_entries
		 WHERE user_id = ? AND movie_id = ? AND kind = ?`,
		userID, movieID, kind.String())

	e, err := scanPersonal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get personal entry: %w", err)
	}
	return e, true, nil
}

// ListPersonal fetches a user's entries of one kind, newest first.
func (db *DB) ListPersonal(ctx context.Context, userID string, kind models.EntryKind) ([]models.PersonalEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, kind, want_to_see_rating, movie_data, added_at
		 FROM personal_entries
		 WHERE user_id = ? AND kind = ?
		 ORDER BY added_at DESC`,
		userID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("list personal entries: %w", err)
	}
	return collectPersonal(rows)
}

// ListWantToSee fetches every user's watchlist-kind entries, used to derive
// the shared watchlist's rating aggregates.
func (db *DB) ListWantToSee(ctx context.Context) ([]models.PersonalEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, kind, want_to_see_rating, movie_data, added_at
		 FROM personal_entries
		 WHERE kind = ?`,
		models.KindWatchlist.String())
	if err != nil {
		return nil, fmt.Errorf("list want-to-see entries: %w", err)
	}
	return collectPersonal(rows)
}

// SetWantToSee updates the rating on an existing watchlist-kind entry.
// Returns the number of rows updated; zero means no such entry.
func (db *DB) SetWantToSee(ctx context.Context, userID string, movieID int, rating float64) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE personal_entries
		 SET want_to_see_rating = ?
		 WHERE user_id = ? AND movie_id = ? AND kind = ?`,
		rating, userID, movieID, models.KindWatchlist.String())
	if err != nil {
		return 0, fmt.Errorf("set want-to-see rating: %w", err)
	}
	return res.RowsAffected()
}

// PromoteToWatchlist converts a list-kind entry to watchlist kind with the
// given rating. The two updates are kind-scoped so a user holding both kinds
// never collides on the primary key.
func (db *DB) PromoteToWatchlist(ctx context.Context, userID string, movieID int, rating float64) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE personal_entries
		 SET want_to_see_rating = ?, kind = ?
		 WHERE user_id = ? AND movie_id = ? AND kind = ?`,
		rating, models.KindWatchlist.String(), userID, movieID, models.KindList.String())
	if err != nil {
		return 0, fmt.Errorf("promote entry to watchlist: %w", err)
	}
	return res.RowsAffected()
}

// DeletePersonal removes a user's entries for a movie, both kinds.
func (db *DB) DeletePersonal(ctx context.Context, userID string, movieID int) (int64, error) {
	return deletePersonal(ctx, db.conn, userID, movieID)
}

func deletePersonal(ctx context.Context, q querier, userID string, movieID int) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM personal_entries WHERE user_id = ? AND movie_id = ?`,
		userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("delete personal entries: %w", err)
	}
	return res.RowsAffected()
}

// DeleteWantToSeeForMovie removes every user's watchlist-kind entry for a
// movie. Used by the shared-entry removal cascade: anticipation ratings are
// meaningless once the shared entry they refer to is gone.
func (db *DB) DeleteWantToSeeForMovie(ctx context.Context, movieID int) (int64, error) {
	return deleteWantToSeeForMovie(ctx, db.conn, movieID)
}

func deleteWantToSeeForMovie(ctx context.Context, q querier, movieID int) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM personal_entries WHERE movie_id = ? AND kind = ?`,
		movieID, models.KindWatchlist.String())
	if err != nil {
		return 0, fmt.Errorf("delete want-to-see entries: %w", err)
	}
	return res.RowsAffected()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPersonal(r rowScanner) (*models.PersonalEntry, error) {
	var (
		e         models.PersonalEntry
		kind      string
		rating    sql.NullFloat64
		movieData string
	)
	if err := r.Scan(&e.UserID, &e.MovieID, &kind, &rating, &movieData, &e.AddedAt); err != nil {
		return nil, err
	}
	e.Kind = models.ParseEntryKind(kind)
	if rating.Valid {
		e.WantToSeeRating = rating.Float64
	}
	if err := unmarshalMovie(movieData, &e.Movie); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectPersonal(rows *sql.Rows) ([]models.PersonalEntry, error) {
	defer rows.Close()

	var entries []models.PersonalEntry
	for rows.Next() {
		e, err := scanPersonal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan personal entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personal entries: %w", err)
	}
	return entries, nil
}
