// Package sqlite provides SQLite-based persistence for the derived inverted
// cache. The cache file is disposable: any corruption is handled by deleting
// and rebuilding it, never by patching in place.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/fwojciec/docbase"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Ensure Cache implements docbase.CacheStore at compile time.
var _ docbase.CacheStore = (*Cache)(nil)

// Cache stores inverted-cache postings in a local SQLite file.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a Cache instance with the given path.
// Use ":memory:" for an in-memory cache.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Open opens the cache database and creates the schema if needed.
func (c *Cache) Open() error {
	conn, err := sql.Open("sqlite3", c.path)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// Wait briefly on lock contention instead of failing immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	c.db = conn

	if err := c.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create cache schema: %w", err)
	}

	return nil
}

// Close closes the cache database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Destroy closes the cache and removes its file. The next Open starts from
// an empty cache; callers use this to recover from any suspect cache state.
func (c *Cache) Destroy() error {
	if err := c.Close(); err != nil {
		return err
	}
	c.db = nil
	if c.path == ":memory:" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Cache) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS postings (
			token TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			freq INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (token, doc_id)
		);

		CREATE INDEX IF NOT EXISTS idx_postings_token ON postings(token);

		CREATE TABLE IF NOT EXISTS cache_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Version returns the index version the cache was built against, or 0 for
// an empty or unversioned cache.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	var value int64
	err := c.db.QueryRowContext(ctx,
		"SELECT CAST(value AS INTEGER) FROM cache_meta WHERE key = 'index_version'",
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Replace atomically swaps in a full set of postings for the given index
// version. The previous contents are discarded in the same transaction.
func (c *Cache) Replace(ctx context.Context, version int64, postings []docbase.Posting) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO postings (token, doc_id, freq) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range postings {
		if _, err := stmt.ExecContext(ctx, p.Token, p.DocID, p.Freq); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cache_meta (key, value) VALUES ('index_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, fmt.Sprintf("%d", version)); err != nil {
		return err
	}

	return tx.Commit()
}

// Postings returns the postings for a token, ordered by document identifier.
func (c *Cache) Postings(ctx context.Context, token string) ([]docbase.Posting, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT token, doc_id, freq FROM postings WHERE token = ? ORDER BY doc_id", token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []docbase.Posting
	for rows.Next() {
		var p docbase.Posting
		if err := rows.Scan(&p.Token, &p.DocID, &p.Freq); err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}

	return postings, rows.Err()
}

// Tokens returns every distinct token in the cache, sorted.
func (c *Cache) Tokens(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT DISTINCT token FROM postings ORDER BY token")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, rows.Err()
}
