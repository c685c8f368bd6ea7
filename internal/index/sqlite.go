// Package index provides the searchable projection of memory transcripts.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/happy-days/internal/model"
)

const defaultCacheSize = 128

// Entry is one indexed memory.
type Entry struct {
	ID        model.ID  `json:"id"`
	Body      string    `json:"body"`
	Thumb     string    `json:"thumb"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SQLiteIndex stores one searchable entry per memory in SQLite.
type SQLiteIndex struct {
	db    *sql.DB
	mu    sync.Mutex
	gen   uint64 // bumped on every write, guards cache fills
	cache *lru.Cache[string, []model.ID]
}

// NewSQLiteIndex opens or creates an index database at the given path.
func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	cache, err := lru.New[string, []model.ID](defaultCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	x := &SQLiteIndex{db: db, cache: cache}
	if err := x.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Debug("index opened", "path", dbPath)
	return x, nil
}

func (x *SQLiteIndex) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id         TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		folded     TEXT NOT NULL,
		thumb      TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_updated ON entries(updated_at DESC);
	`
	_, err := x.db.Exec(schema)
	return err
}

// Put registers or replaces the entry for id.
func (x *SQLiteIndex) Put(ctx context.Context, id model.ID, body, thumb string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := x.db.ExecContext(ctx,
		`INSERT INTO entries (id, body, folded, thumb, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, folded = excluded.folded,
		   thumb = excluded.thumb, updated_at = excluded.updated_at`,
		string(id), body, strings.ToLower(body), thumb, now)
	if err != nil {
		return fmt.Errorf("upsert entry %s: %w", id, err)
	}
	x.gen++
	x.cache.Purge()
	return nil
}

// Remove deletes the entry for id. Removing a missing entry is not an error.
func (x *SQLiteIndex) Remove(ctx context.Context, id model.ID) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, err := x.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	x.gen++
	x.cache.Purge()
	return nil
}

// Search returns the IDs of entries whose body contains query,
// case-insensitively, in index order. Bodies are folded in Go rather
// than with SQLite lower(), which only folds ASCII.
func (x *SQLiteIndex) Search(ctx context.Context, query string) ([]model.ID, error) {
	key := strings.ToLower(query)
	if ids, ok := x.cache.Get(key); ok {
		return ids, nil
	}
	x.mu.Lock()
	gen := x.gen
	x.mu.Unlock()

	rows, err := x.db.QueryContext(ctx,
		`SELECT id FROM entries WHERE instr(folded, ?) > 0 ORDER BY rowid`, key)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	ids := []model.ID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, model.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	x.mu.Lock()
	if gen == x.gen {
		x.cache.Add(key, ids)
	}
	x.mu.Unlock()
	return ids, nil
}

// Get returns the entry for id, or sql.ErrNoRows wrapped if absent.
func (x *SQLiteIndex) Get(ctx context.Context, id model.ID) (*Entry, error) {
	var e Entry
	var raw, updated string
	err := x.db.QueryRowContext(ctx,
		`SELECT id, body, thumb, updated_at FROM entries WHERE id = ?`, string(id)).
		Scan(&raw, &e.Body, &e.Thumb, &updated)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}
	e.ID = model.ID(raw)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &e, nil
}

// IDs lists every indexed memory ID.
func (x *SQLiteIndex) IDs(ctx context.Context) ([]model.ID, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT id FROM entries ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []model.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, model.ID(id))
	}
	return ids, rows.Err()
}

// Count returns the number of indexed entries.
func (x *SQLiteIndex) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

func (x *SQLiteIndex) Close() error {
	return x.db.Close()
}
