// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package database implements the relational store backing the watchlist:
// four tables (personal_entries, shared_entries, watched_entries, ratings)
// on DuckDB, with per-row CRUD, filtered queries, multi-table transactions
// for cascade deletes, and watch-activity aggregates.
//
// The store enforces the uniqueness invariants with primary keys so that
// concurrent mutations racing past application-level duplicate checks still
// cannot produce duplicate rows; such violations surface as ErrConflict.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"

	"github.com/borskip/reeltrack/internal/config"
	"github.com/borskip/reeltrack/internal/logging"
	"github.com/borskip/reeltrack/internal/models"
)

// ErrConflict indicates an insert violated a uniqueness constraint.
var ErrConflict = errors.New("uniqueness constraint violated")

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database file and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return db, nil
}

// Conn returns the underlying SQL connection, for health checks.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks that the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints and closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	// Flush the WAL before closing so the next startup replays nothing.
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("checkpoint before close failed")
	}
	return db.conn.Close()
}

// createTables creates the four watchlist tables.
//
// Movie snapshots are denormalized JSON: entries keep the catalog data they
// were created with even if the catalog later changes.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS personal_entries (
			user_id            VARCHAR NOT NULL,
			movie_id           INTEGER NOT NULL,
			kind               VARCHAR NOT NULL,
			want_to_see_rating DOUBLE,
			movie_data         VARCHAR NOT NULL,
			added_at           TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, movie_id, kind)
		)`,
		`CREATE TABLE IF NOT EXISTS shared_entries (
			movie_id      INTEGER PRIMARY KEY,
			movie_data    VARCHAR NOT NULL,
			added_by      VARCHAR NOT NULL,
			scheduled_for TIMESTAMP,
			added_at      TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS watched_entries (
			user_id    VARCHAR NOT NULL,
			movie_id   INTEGER NOT NULL,
			movie_data VARCHAR NOT NULL,
			watched_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id  VARCHAR NOT NULL,
			movie_id INTEGER NOT NULL,
			rating   DOUBLE NOT NULL,
			rated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_personal_movie ON personal_entries (movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_user ON watched_entries (user_id, watched_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// querier abstracts *sql.DB and *sql.Tx so the CRUD methods can run either
// standalone or inside a cascade transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapInsertErr converts DuckDB constraint violations to ErrConflict so the
// state manager can distinguish a lost duplicate race from an outage.
func mapInsertErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "Constraint Error") || strings.Contains(msg, "Duplicate key") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// marshalMovie serializes a snapshot for the movie_data column.
func marshalMovie(m *models.MovieRef) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal movie snapshot: %w", err)
	}
	return string(data), nil
}

// unmarshalMovie deserializes a movie_data column value.
func unmarshalMovie(data string, m *models.MovieRef) error {
	if err := json.Unmarshal([]byte(data), m); err != nil {
		return fmt.Errorf("unmarshal movie snapshot: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func closeQuietly(conn *sql.DB) {
	_ = conn.Close()
}
