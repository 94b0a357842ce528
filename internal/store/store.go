// Package store persists animation session statistics in SQLite. The
// database is tiny and single-writer, so the pool is pinned to one
// connection with WAL journaling for clean concurrent reads from the stats
// command.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Session is one animation run.
type Session struct {
	ID            string
	StartedAt     time.Time
	Duration      time.Duration
	Frames        int64
	HeartsSpawned int64
	PeakOnScreen  int
	FPS           int
	Seed          int64
	CleanExit     bool
}

// Totals aggregates all recorded sessions.
type Totals struct {
	Sessions      int64
	TotalDuration time.Duration
	TotalHearts   int64
	MaxPeak       int
	Longest       time.Duration
}

// Store wraps the sessions database.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	closed bool
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	started_at_ms  INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL,
	frames         INTEGER NOT NULL,
	hearts_spawned INTEGER NOT NULL,
	peak_on_screen INTEGER NOT NULL,
	fps            INTEGER NOT NULL,
	seed           INTEGER NOT NULL,
	clean_exit     INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at_ms DESC);
`

// Open initializes the database at the given path, creating parent
// directories and the schema as needed. ":memory:" is supported for tests.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Pragma failures are non-fatal; the store still works without them.
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database. Further operations return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.db, nil
}

// RecordSession inserts one finished run.
func (s *Store) RecordSession(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	if sess.StartedAt.IsZero() {
		return fmt.Errorf("session start time is zero")
	}

	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sessions
			(id, started_at_ms, duration_ms, frames, hearts_spawned,
			 peak_on_screen, fps, seed, clean_exit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.StartedAt.UnixMilli(),
		sess.Duration.Milliseconds(),
		sess.Frames,
		sess.HeartsSpawned,
		sess.PeakOnScreen,
		sess.FPS,
		sess.Seed,
		sess.CleanExit,
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// RecentSessions returns the newest sessions first. A non-positive limit
// defaults to 10.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, started_at_ms, duration_ms, frames, hearts_spawned,
		       peak_on_screen, fps, seed, clean_exit
		FROM sessions
		ORDER BY started_at_ms DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess      Session
			startedMS int64
			durMS     int64
		)
		if err := rows.Scan(&sess.ID, &startedMS, &durMS, &sess.Frames,
			&sess.HeartsSpawned, &sess.PeakOnScreen, &sess.FPS, &sess.Seed,
			&sess.CleanExit); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.StartedAt = time.UnixMilli(startedMS)
		sess.Duration = time.Duration(durMS) * time.Millisecond
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// Totals aggregates every recorded session.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	db, err := s.conn()
	if err != nil {
		return Totals{}, err
	}

	var (
		totals     Totals
		durationMS int64
		longestMS  int64
	)
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_ms), 0),
		       COALESCE(SUM(hearts_spawned), 0),
		       COALESCE(MAX(peak_on_screen), 0),
		       COALESCE(MAX(duration_ms), 0)
		FROM sessions`).Scan(
		&totals.Sessions, &durationMS, &totals.TotalHearts,
		&totals.MaxPeak, &longestMS)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to aggregate sessions: %w", err)
	}

	totals.TotalDuration = time.Duration(durationMS) * time.Millisecond
	totals.Longest = time.Duration(longestMS) * time.Millisecond
	return totals, nil
}
