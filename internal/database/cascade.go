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

	"github.com/borskip/reeltrack/internal/logging"
)

// RemovePersonalCascade deletes a user's personal entries, rating, and watched
// row for a movie in one transaction. Either every delete commits or none do.
func (db *DB) RemovePersonalCascade(ctx context.Context, userID string, movieID int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin personal-removal transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := deletePersonal(ctx, tx, userID, movieID); err != nil {
		return err
	}
	if _, err := deleteRating(ctx, tx, userID, movieID); err != nil {
		return err
	}
	if _, err := deleteWatched(ctx, tx, userID, movieID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit personal-removal transaction: %w", err)
	}
	return nil
}

// RemoveSharedCascade deletes a movie's shared entry and every user's
// want-to-see entry for it in one transaction. The want-to-see entries refer
// to the shared entry, so they must not outlive it.
func (db *DB) RemoveSharedCascade(ctx context.Context, movieID int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin shared-removal transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := deleteShared(ctx, tx, movieID); err != nil {
		return err
	}
	if _, err := deleteWantToSeeForMovie(ctx, tx, movieID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit shared-removal transaction: %w", err)
	}
	return nil
}

// rollbackQuietly rolls back a transaction, ignoring the ErrTxDone a rollback
// after commit always produces.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("transaction rollback failed")
	}
}
