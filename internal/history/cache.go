package history

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// Cache persists facts in SQLite keyed by HEAD commit and path, so a rebuild
// of an unchanged checkout skips the log walks.
type Cache struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenCache opens or creates the cache database at dbPath.
func OpenCache(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS revision_facts (
		head TEXT NOT NULL,
		path TEXT NOT NULL,
		revisions INTEGER NOT NULL,
		latest INTEGER NOT NULL,
		PRIMARY KEY (head, path)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns cached facts for (head, path).
func (c *Cache) Get(ctx context.Context, head, path string) (Facts, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var revisions int
	var latest int64
	err := c.db.QueryRowContext(ctx,
		"SELECT revisions, latest FROM revision_facts WHERE head = ? AND path = ?",
		head, path,
	).Scan(&revisions, &latest)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Facts{}, false, nil
	}
	if err != nil {
		return Facts{}, false, fmt.Errorf("query facts: %w", err)
	}

	f := Facts{Revisions: revisions}
	if latest != 0 {
		f.Latest = time.Unix(latest, 0).UTC()
	}
	return f, true, nil
}

// Put stores facts for (head, path), replacing an existing row.
func (c *Cache) Put(ctx context.Context, head, path string, f Facts) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var latest int64
	if !f.Latest.IsZero() {
		latest = f.Latest.Unix()
	}
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO revision_facts (head, path, revisions, latest) VALUES (?, ?, ?, ?)",
		head, path, f.Revisions, latest,
	)
	if err != nil {
		return fmt.Errorf("insert facts: %w", err)
	}
	return nil
}

// Prune removes rows recorded for any other HEAD and returns how many were deleted.
func (c *Cache) Prune(ctx context.Context, keepHead string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, "DELETE FROM revision_facts WHERE head != ?", keepHead)
	if err != nil {
		return 0, fmt.Errorf("prune facts: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// HeadSource is a Source that can name the revision its facts come from.
type HeadSource interface {
	Source
	Head() string
}

// CachedSource consults the cache before the inner source. Cache failures
// degrade to direct lookups.
type CachedSource struct {
	Inner HeadSource
	Cache *Cache
}

func (s *CachedSource) Facts(ctx context.Context, path string) (Facts, error) {
	head := s.Inner.Head()
	if f, ok, err := s.Cache.Get(ctx, head, path); err == nil && ok {
		return f, nil
	} else if err != nil {
		slog.Debug("Revision cache read failed", logfields.Path(path), logfields.Error(err))
	}

	f, err := s.Inner.Facts(ctx, path)
	if err != nil {
		return Facts{}, err
	}
	if err := s.Cache.Put(ctx, head, path, f); err != nil {
		slog.Debug("Revision cache write failed", logfields.Path(path), logfields.Error(err))
	}
	return f, nil
}
