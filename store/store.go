// Package store persists monitoring history to SQLite: a tick log grouped
// by session, plus the rollups the usage views are built from.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mikan-dev/deskpet/activity"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id  TEXT PRIMARY KEY,
	pet_name    TEXT NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	ended_at    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS activity_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	app_name      TEXT NOT NULL DEFAULT '',
	window_title  TEXT NOT NULL DEFAULT '',
	hash_distance INTEGER NOT NULL DEFAULT 0,
	was_skipped   INTEGER NOT NULL DEFAULT 0,
	recorded_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_session ON activity_log(session_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_activity_recorded ON activity_log(recorded_at);
`

// Store wraps a SQLite database holding monitoring sessions and their ticks.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and runs the schema migration.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// WAL allows concurrent reads but only one writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginSession records the start of a monitoring run and returns its id.
func (s *Store) BeginSession(ctx context.Context, petName string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	const q = `INSERT INTO sessions (session_id, pet_name, started_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, id, petName, startedAt.UnixMilli()); err != nil {
		return "", fmt.Errorf("store: begin session: %w", err)
	}
	return id, nil
}

// EndSession stamps the session's end time.
func (s *Store) EndSession(ctx context.Context, sessionID string, endedAt time.Time) error {
	const q = `UPDATE sessions SET ended_at = ? WHERE session_id = ?`
	if _, err := s.db.ExecContext(ctx, q, endedAt.UnixMilli(), sessionID); err != nil {
		return fmt.Errorf("store: end session: %w", err)
	}
	return nil
}

// InsertTick appends one monitoring tick to the session's log.
func (s *Store) InsertTick(ctx context.Context, sessionID string, t activity.Tick) error {
	const q = `INSERT INTO activity_log (session_id, app_name, window_title, hash_distance, was_skipped, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`
	skipped := 0
	if t.WasSkipped {
		skipped = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		sessionID,
		t.AppName,
		t.WindowTitle,
		t.HashDistance,
		skipped,
		t.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: insert tick: %w", err)
	}
	return nil
}

// RecentTicks returns the ticks recorded at or after since, oldest first.
func (s *Store) RecentTicks(ctx context.Context, since time.Time) ([]activity.Tick, error) {
	const q = `SELECT app_name, window_title, hash_distance, was_skipped, recorded_at
FROM activity_log
WHERE recorded_at >= ?
ORDER BY recorded_at ASC`

	rows, err := s.db.QueryContext(ctx, q, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("store: recent ticks: %w", err)
	}
	defer rows.Close()

	var ticks []activity.Tick
	for rows.Next() {
		var t activity.Tick
		var skipped int
		var recordedAt int64
		if err := rows.Scan(&t.AppName, &t.WindowTitle, &t.HashDistance, &skipped, &recordedAt); err != nil {
			return nil, fmt.Errorf("store: scan tick: %w", err)
		}
		t.WasSkipped = skipped != 0
		t.Timestamp = time.UnixMilli(recordedAt)
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// AppUsage is the tick count per focused app over some range.
type AppUsage struct {
	AppName string
	Ticks   int
}

// UsageByApp aggregates how many ticks each app was focused for between
// from and to, most used first.
func (s *Store) UsageByApp(ctx context.Context, from, to time.Time) ([]AppUsage, error) {
	const q = `SELECT app_name, COUNT(*) AS ticks
FROM activity_log
WHERE recorded_at >= ? AND recorded_at < ?
GROUP BY app_name
ORDER BY ticks DESC, app_name ASC`

	rows, err := s.db.QueryContext(ctx, q, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("store: usage by app: %w", err)
	}
	defer rows.Close()

	var usage []AppUsage
	for rows.Next() {
		var u AppUsage
		if err := rows.Scan(&u.AppName, &u.Ticks); err != nil {
			return nil, fmt.Errorf("store: scan usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
