package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache keeps responses in a SQLite database so they survive restarts
// within the TTL.
type SQLiteCache struct {
	db  *sql.DB
	mu  sync.Mutex
	ttl time.Duration
	now Clock
}

// NewSQLiteCache opens (or creates) the database and runs migrations.
func NewSQLiteCache(dbPath string, ttl time.Duration, now Clock) (*SQLiteCache, error) {
	if now == nil {
		now = time.Now
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	c := &SQLiteCache{db: db, ttl: ttl, now: now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			key        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			stored_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_stored ON responses(stored_at)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// cutoff is the oldest stored_at (unix nanos) still considered fresh.
func (c *SQLiteCache) cutoff() int64 {
	return c.now().Add(-c.ttl).UnixNano()
}

func (c *SQLiteCache) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, false, ErrClosed
	}
	var body []byte
	err := c.db.QueryRow(`SELECT body FROM responses WHERE key = ? AND stored_at > ?`,
		key, c.cutoff()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}
	return body, true, nil
}

func (c *SQLiteCache) Set(key string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrClosed
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO responses (key, body, stored_at) VALUES (?,?,?)`,
		key, body, c.now().UnixNano())
	return err
}

// Purge deletes expired rows and returns how many were removed.
func (c *SQLiteCache) Purge() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return 0, ErrClosed
	}
	res, err := c.db.Exec(`DELETE FROM responses WHERE stored_at <= ?`, c.cutoff())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c *SQLiteCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Close()
	c.db = nil
	return err
}
