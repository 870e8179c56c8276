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

// WeeklyActivity returns a user's watched-per-week counts, oldest week first.
// Weeks are DuckDB DATE_TRUNC('week', ...) buckets: Mondays at midnight.
func (db *DB) WeeklyActivity(ctx context.Context, userID string) ([]models.WeeklyCount, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DATE_TRUNC('week', watched_at) AS week_start, COUNT(*) AS n
		 FROM watched_entries
		 WHERE user_id = ?
		 GROUP BY week_start
		 ORDER BY week_start ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query weekly activity: %w", err)
	}
	defer rows.Close()

	var weeks []models.WeeklyCount
	for rows.Next() {
		var w models.WeeklyCount
		if err := rows.Scan(&w.WeekStart, &w.Count); err != nil {
			return nil, fmt.Errorf("scan weekly activity: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly activity: %w", err)
	}
	return weeks, nil
}

// CountWatched returns the number of movies a user has watched.
func (db *DB) CountWatched(ctx context.Context, userID string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM watched_entries WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count watched entries: %w", err)
	}
	return n, nil
}
