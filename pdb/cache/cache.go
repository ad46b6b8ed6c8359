// Package cache keeps downloaded mmcif documents in an sqlite file, so
// asking for the same structure twice only costs one download.
//
// Usage:
//
//	c, err := cache.Open("cifview.db")
//	body, ok, err := c.Get(ctx, "1abc")
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
)`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Cache is a handle on the database. It is safe for concurrent use.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache at path. ":memory:" gives a cache that
// goes away on Close.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1) // each connection would be a new database
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func key(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }

// Get returns the document for id. ok is false if we do not have it.
func (c *Cache) Get(ctx context.Context, id string) (body string, ok bool, err error) {
	err = c.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE id = ?`, key(id)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get %s: %w", id, err)
	}
	return body, true, nil
}

// Put stores body under id, replacing anything that was there.
func (c *Cache) Put(ctx context.Context, id, body string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO documents (id, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, key(id), body, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", id, err)
	}
	return nil
}

// Delete removes id. Removing something that is not there is not an error.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, key(id)); err != nil {
		return fmt.Errorf("cache: delete %s: %w", id, err)
	}
	return nil
}

// FetchedAt says when id was stored.
func (c *Cache) FetchedAt(ctx context.Context, id string) (time.Time, bool, error) {
	var ts int64
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM documents WHERE id = ?`, key(id)).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cache: fetched_at %s: %w", id, err)
	}
	return time.Unix(ts, 0), true, nil
}

// Len is the number of documents held.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

func (c *Cache) Close() error { return c.db.Close() }
