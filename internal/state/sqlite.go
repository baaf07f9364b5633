package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE TABLE IF NOT EXISTS toggle_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL DEFAULT '',
			key TEXT NOT NULL,
			trick_id TEXT NOT NULL,
			value INTEGER NOT NULL,
			ts TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS toggle_events_key_idx ON toggle_events(key, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *SQLiteStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(timeLayout)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO kv(key, value, updated_ts) VALUES(?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_ts = excluded.updated_ts
		`, k, value, now); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) RecordToggle(ctx context.Context, ev ToggleEvent) error {
	if strings.TrimSpace(ev.TrickID) == "" {
		return nil
	}
	ts := ev.TS
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO toggle_events(session_id, key, trick_id, value, ts) VALUES(?,?,?,?,?)`,
		ev.SessionID,
		ev.Key,
		ev.TrickID,
		ifThen(ev.Value, 1, 0),
		ts.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) RecentToggles(ctx context.Context, key string, limit int) ([]ToggleEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, key, trick_id, value, ts
		FROM toggle_events
		WHERE key = ?
		ORDER BY id DESC
		LIMIT ?
	`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ToggleEvent, 0, limit)
	for rows.Next() {
		var (
			ev    ToggleEvent
			value int
			tsRaw string
		)
		if err := rows.Scan(&ev.SessionID, &ev.Key, &ev.TrickID, &value, &tsRaw); err != nil {
			return nil, err
		}
		ev.Value = value == 1
		if t, err := time.Parse(timeLayout, tsRaw); err == nil {
			ev.TS = t
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var (
		out    Summary
		lastTS string
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as toggles,
			COALESCE(SUM(CASE WHEN key = ? THEN 1 ELSE 0 END),0) as landed,
			COALESCE(SUM(CASE WHEN key = ? THEN 1 ELSE 0 END),0) as favorites,
			COUNT(DISTINCT session_id) as sessions,
			COALESCE(MAX(ts),'') as last_ts
		FROM toggle_events
	`, KeyLanded, KeyFavorites)
	if err := row.Scan(&out.Toggles, &out.LandedToggles, &out.FavoriteToggles, &out.Sessions, &lastTS); err != nil {
		return Summary{}, err
	}
	if t, err := time.Parse(timeLayout, lastTS); err == nil {
		out.LastToggleTS = t
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
