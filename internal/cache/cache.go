package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			url           TEXT PRIMARY KEY,
			etag          TEXT NOT NULL DEFAULT '',
			last_modified TEXT NOT NULL DEFAULT '',
			body          BLOB NOT NULL,
			fetched_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_fetched ON documents(fetched_at);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

// GetDocument returns the cached document for url. The boolean is false when nothing
// is cached.
func (c *Cache) GetDocument(url string) (Document, bool, error) {
	d := Document{URL: url}
	err := c.readDB.QueryRow(
		"SELECT etag, last_modified, body, fetched_at FROM documents WHERE url = ?", url,
	).Scan(&d.ETag, &d.LastModified, &d.Body, &d.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("reading document %s: %w", url, err)
	}
	return d, true, nil
}

func (c *Cache) PutDocument(d Document) error {
	if d.FetchedAt.IsZero() {
		d.FetchedAt = time.Now()
	}
	_, err := c.writeDB.Exec(`
		INSERT INTO documents (url, etag, last_modified, body, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			etag = excluded.etag,
			last_modified = excluded.last_modified,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, d.URL, d.ETag, d.LastModified, d.Body, d.FetchedAt)
	if err != nil {
		return fmt.Errorf("storing document %s: %w", d.URL, err)
	}
	return nil
}

// Prune deletes documents fetched longer than olderThan ago.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	res, err := c.writeDB.Exec("DELETE FROM documents WHERE fetched_at < ?", time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("pruning documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		// Reclaim space; failure here leaves a larger file but correct data.
		_, _ = c.writeDB.Exec("VACUUM")
	}
	return n, nil
}

// Stats returns the number of cached documents and the size of the database file.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting documents: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return count, info.Size(), nil
}

func (c *Cache) NeedsRefresh(interval time.Duration) bool {
	value, err := c.getMeta("last_refresh")
	if err != nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(t) > interval
}

func (c *Cache) SetLastRefresh() error {
	return c.setMeta("last_refresh", time.Now().Format(time.RFC3339))
}

// LastRefresh returns the time of the last completed aggregation.
func (c *Cache) LastRefresh() (time.Time, error) {
	value, err := c.getMeta("last_refresh")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

func (c *Cache) getMeta(key string) (string, error) {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	return value, err
}

func (c *Cache) setMeta(key, value string) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
