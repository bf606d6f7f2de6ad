package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tiermem/tiermem/internal/model"
)

// ColdTier is the durable long-term archive. Keys are not unique here:
// repeated archivals accumulate historical copies. Nothing migrates out
// of cold except a Recall promotion copy.
type ColdTier struct {
	db   *sql.DB
	path string
}

// NewColdTier opens or creates the cold archive at the given path.
func NewColdTier(dbPath string) (*ColdTier, error) {
	db, err := openTierDB(dbPath, `
	CREATE TABLE IF NOT EXISTS cold_memories (
		id          TEXT PRIMARY KEY,
		key         TEXT NOT NULL,
		content     TEXT NOT NULL,
		priority    TEXT NOT NULL,
		timestamp   TEXT NOT NULL,
		archived_at TEXT NOT NULL,
		session_id  TEXT,
		tags        TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_cold_key ON cold_memories(key);
	CREATE INDEX IF NOT EXISTS idx_cold_timestamp ON cold_memories(timestamp);
	`)
	if err != nil {
		return nil, err
	}
	return &ColdTier{db: db, path: dbPath}, nil
}

const coldColumns = `id, key, content, priority, timestamp, archived_at, session_id, tags`

// Get returns the most recently archived copy for key, or ok=false.
func (c *ColdTier) Get(ctx context.Context, key string) (model.Entry, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+coldColumns+` FROM cold_memories WHERE key = ?
		 ORDER BY archived_at DESC LIMIT 1`, key)

	e, err := scanColdEntry(row)
	if err == sql.ErrNoRows {
		return model.Entry{}, false, nil
	}
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("cold get: %w", err)
	}
	return e, true, nil
}

// Archive writes the entry with a fresh archived_at stamp. The write is
// keyed on id, so retrying a half-finished migration cannot duplicate a
// row.
func (c *ColdTier) Archive(ctx context.Context, e model.Entry) error {
	tagsJSON, _ := json.Marshal(e.Tags)
	archivedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cold_memories (`+coldColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Key, e.Content, string(e.Priority),
		e.Timestamp.UTC().Format(time.RFC3339),
		archivedAt, nullable(e.SessionID), string(tagsJSON))
	if err != nil {
		return fmt.Errorf("cold archive: %w", err)
	}
	return nil
}

// Delete removes every archived copy for key.
func (c *ColdTier) Delete(ctx context.Context, key string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cold_memories WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("cold delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// All returns every archived entry.
func (c *ColdTier) All(ctx context.Context) ([]model.Entry, error) {
	return c.queryEntries(ctx, `SELECT `+coldColumns+` FROM cold_memories`)
}

// Search returns up to limit entries whose content contains query.
func (c *ColdTier) Search(ctx context.Context, query string, limit int) ([]model.Entry, error) {
	return c.queryEntries(ctx,
		`SELECT `+coldColumns+` FROM cold_memories WHERE content LIKE ? LIMIT ?`,
		"%"+query+"%", limit)
}

// Count returns the number of archived rows.
func (c *ColdTier) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cold_memories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cold count: %w", err)
	}
	return n, nil
}

// HealthCheck probes the backing store. Never returns an error.
func (c *ColdTier) HealthCheck(ctx context.Context) bool {
	var one int
	return c.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one) == nil
}

// Path returns the database file location.
func (c *ColdTier) Path() string { return c.path }

// Close closes the backing store.
func (c *ColdTier) Close() error { return c.db.Close() }

func (c *ColdTier) queryEntries(ctx context.Context, query string, args ...any) ([]model.Entry, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cold query: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		e, err := scanColdEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("cold scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanColdEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var priority, timestamp, archivedAt string
	var sessionID, tagsJSON sql.NullString

	err := row.Scan(&e.ID, &e.Key, &e.Content, &priority, &timestamp,
		&archivedAt, &sessionID, &tagsJSON)
	if err != nil {
		return e, err
	}

	e.Tier = model.TierCold
	e.Priority = model.ParsePriority(priority)
	e.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
	// Cold does not track access: archived_at stands in for the last
	// touch and the counter reads zero.
	e.AccessedAt, _ = time.Parse(time.RFC3339, archivedAt)
	e.AccessCount = 0
	if sessionID.Valid {
		e.SessionID = sessionID.String
	}
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &e.Tags)
	}
	return e, nil
}
