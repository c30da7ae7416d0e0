// Package storage provides SQLite-based persistence for the session log.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Profiles live in their own JSON files; the session log exists so play
// history stays queryable across profiles.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the session log.
type Store struct {
	db *sql.DB
}

// SessionRecord is one completed play session.
type SessionRecord struct {
	ID           int64
	SessionID    string // UUID assigned by the session runner
	Profile      string
	Extension    string
	Theme        string
	EventCount   int
	DurationSecs int
	StartedAt    time.Time
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			profile TEXT NOT NULL,
			extension TEXT NOT NULL DEFAULT '',
			theme TEXT NOT NULL DEFAULT '',
			event_count INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_profile ON sessions(profile);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(profile, started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession inserts a completed session and returns its row id.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions
			(session_id, profile, extension, theme, event_count, duration_secs, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Profile, rec.Extension, rec.Theme,
		rec.EventCount, rec.DurationSecs, rec.StartedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get session id: %w", err)
	}
	return id, nil
}

// RecentSessions retrieves the most recent sessions for a profile, newest
// first. An empty profile matches all profiles.
func (s *Store) RecentSessions(profile string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, session_id, profile, extension, theme, event_count, duration_secs, started_at, created_at
		 FROM sessions`
	args := []any{}
	if profile != "" {
		query += " WHERE profile = ?"
		args = append(args, profile)
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var startedAt, createdAt any
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Profile, &rec.Extension,
			&rec.Theme, &rec.EventCount, &rec.DurationSecs, &startedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.StartedAt = parseDBTime(startedAt)
		rec.CreatedAt = parseDBTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ProfileTotals sums up a profile's recorded sessions.
func (s *Store) ProfileTotals(profile string) (sessions int, playtimeSecs int, err error) {
	var count sql.NullInt64
	var secs sql.NullInt64
	err = s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(duration_secs), 0) FROM sessions WHERE profile = ?",
		profile,
	).Scan(&count, &secs)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot query totals: %w", err)
	}
	return int(count.Int64), int(secs.Int64), nil
}

// ClearSessions deletes all sessions for the given profile.
func (s *Store) ClearSessions(profile string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseDBTime handles both time.Time and string datetime representations
// returned by the driver.
func parseDBTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
