package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tiermem/tiermem/internal/model"
)

// WarmTier is the durable mid-term store. Keys are unique; Store has
// insert-or-replace semantics.
type WarmTier struct {
	db   *sql.DB
	path string
}

// NewWarmTier opens or creates the warm store at the given path.
func NewWarmTier(dbPath string) (*WarmTier, error) {
	db, err := openTierDB(dbPath, `
	CREATE TABLE IF NOT EXISTS warm_memories (
		id           TEXT PRIMARY KEY,
		key          TEXT UNIQUE NOT NULL,
		content      TEXT NOT NULL,
		priority     TEXT NOT NULL,
		timestamp    TEXT NOT NULL,
		accessed_at  TEXT NOT NULL,
		access_count INTEGER NOT NULL DEFAULT 1,
		session_id   TEXT,
		tags         TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_warm_key ON warm_memories(key);
	CREATE INDEX IF NOT EXISTS idx_warm_priority ON warm_memories(priority);
	CREATE INDEX IF NOT EXISTS idx_warm_timestamp ON warm_memories(timestamp);
	`)
	if err != nil {
		return nil, err
	}
	return &WarmTier{db: db, path: dbPath}, nil
}

// openTierDB opens a SQLite file, creating parent directories, and
// applies the tier's schema.
func openTierDB(dbPath, schema string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

const warmColumns = `id, key, content, priority, timestamp, accessed_at, access_count, session_id, tags`

// Get returns the entry for key, or ok=false when absent.
func (w *WarmTier) Get(ctx context.Context, key string) (model.Entry, bool, error) {
	row := w.db.QueryRowContext(ctx,
		`SELECT `+warmColumns+` FROM warm_memories WHERE key = ?`, key)

	e, err := scanWarmEntry(row)
	if err == sql.ErrNoRows {
		return model.Entry{}, false, nil
	}
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("warm get: %w", err)
	}
	return e, true, nil
}

// Store upserts the entry by key, overwriting every field.
func (w *WarmTier) Store(ctx context.Context, e model.Entry) error {
	tagsJSON, _ := json.Marshal(e.Tags)
	_, err := w.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO warm_memories (`+warmColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Key, e.Content, string(e.Priority),
		e.Timestamp.UTC().Format(time.RFC3339),
		e.AccessedAt.UTC().Format(time.RFC3339),
		e.AccessCount, nullable(e.SessionID), string(tagsJSON))
	if err != nil {
		return fmt.Errorf("warm store: %w", err)
	}
	return nil
}

// Delete removes the entry for key, reporting whether a row existed.
func (w *WarmTier) Delete(ctx context.Context, key string) (bool, error) {
	res, err := w.db.ExecContext(ctx, `DELETE FROM warm_memories WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("warm delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// All returns every warm entry.
func (w *WarmTier) All(ctx context.Context) ([]model.Entry, error) {
	return w.queryEntries(ctx, `SELECT `+warmColumns+` FROM warm_memories`)
}

// EntriesForArchival returns entries whose creation time is older than
// olderThanDays, judged by the store's own clock.
func (w *WarmTier) EntriesForArchival(ctx context.Context, olderThanDays int) ([]model.Entry, error) {
	modifier := fmt.Sprintf("-%d days", olderThanDays)
	return w.queryEntries(ctx,
		`SELECT `+warmColumns+` FROM warm_memories WHERE timestamp < datetime('now', ?)`,
		modifier)
}

// Search returns up to limit entries whose content contains query.
func (w *WarmTier) Search(ctx context.Context, query string, limit int) ([]model.Entry, error) {
	return w.queryEntries(ctx,
		`SELECT `+warmColumns+` FROM warm_memories WHERE content LIKE ? LIMIT ?`,
		"%"+query+"%", limit)
}

// Count returns the number of warm entries.
func (w *WarmTier) Count(ctx context.Context) (int, error) {
	var n int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM warm_memories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("warm count: %w", err)
	}
	return n, nil
}

// HealthCheck probes the backing store. Never returns an error.
func (w *WarmTier) HealthCheck(ctx context.Context) bool {
	var one int
	return w.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one) == nil
}

// Path returns the database file location.
func (w *WarmTier) Path() string { return w.path }

// Close closes the backing store.
func (w *WarmTier) Close() error { return w.db.Close() }

func (w *WarmTier) queryEntries(ctx context.Context, query string, args ...any) ([]model.Entry, error) {
	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("warm query: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		e, err := scanWarmEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("warm scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWarmEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var priority, timestamp, accessedAt string
	var sessionID, tagsJSON sql.NullString

	err := row.Scan(&e.ID, &e.Key, &e.Content, &priority, &timestamp,
		&accessedAt, &e.AccessCount, &sessionID, &tagsJSON)
	if err != nil {
		return e, err
	}

	e.Tier = model.TierWarm
	e.Priority = model.ParsePriority(priority)
	e.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
	e.AccessedAt, _ = time.Parse(time.RFC3339, accessedAt)
	if sessionID.Valid {
		e.SessionID = sessionID.String
	}
	if tagsJSON.Valid {
		// A malformed tag blob degrades to no tags rather than failing
		// the read.
		json.Unmarshal([]byte(tagsJSON.String), &e.Tags)
	}
	return e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
