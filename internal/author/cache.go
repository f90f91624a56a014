// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package author

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/digest-engine/pkg/types"
)

// cacheEntry is one resolved author score. Metrics is nil for authors
// that could not be resolved; they are cached anyway so repeated unknown
// lookups do not hit the network.
type cacheEntry struct {
	Score    float64
	Metrics  *types.AuthorMetrics
	CachedAt time.Time
}

// cacheStore persists author scores in a SQLite database. Entries are
// loaded once at scorer construction and flushed in bulk at Close;
// persistence is at-least-once, a crash before flush loses entries
// resolved during the run.
type cacheStore struct {
	db *sql.DB
}

// openCacheStore opens or creates the author score database and ensures
// the schema exists.
func openCacheStore(path string) (*cacheStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening author cache: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS author_scores (
		name TEXT PRIMARY KEY,
		score REAL NOT NULL,
		h_index INTEGER NOT NULL DEFAULT 0,
		citation_count INTEGER NOT NULL DEFAULT 0,
		paper_count INTEGER NOT NULL DEFAULT 0,
		resolved INTEGER NOT NULL DEFAULT 0,
		cached_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating author cache schema: %w", err)
	}

	return &cacheStore{db: db}, nil
}

// loadAll reads every cached entry into a map keyed by author name.
// Rows with unparseable timestamps are skipped.
func (c *cacheStore) loadAll() (map[string]cacheEntry, error) {
	rows, err := c.db.Query(
		`SELECT name, score, h_index, citation_count, paper_count, resolved, cached_at
		 FROM author_scores`)
	if err != nil {
		return nil, fmt.Errorf("reading author cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]cacheEntry)
	for rows.Next() {
		var (
			name     string
			entry    cacheEntry
			m        types.AuthorMetrics
			resolved int
			cachedAt string
		)
		if err := rows.Scan(&name, &entry.Score, &m.HIndex, &m.CitationCount, &m.PaperCount, &resolved, &cachedAt); err != nil {
			return nil, fmt.Errorf("scanning author cache row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, cachedAt)
		if err != nil {
			continue
		}
		entry.CachedAt = t
		if resolved != 0 {
			entry.Metrics = &m
		}
		entries[name] = entry
	}
	return entries, rows.Err()
}

// flush upserts every entry in a single transaction.
func (c *cacheStore) flush(entries map[string]cacheEntry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cache flush: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO author_scores (name, score, h_index, citation_count, paper_count, resolved, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			score=excluded.score, h_index=excluded.h_index,
			citation_count=excluded.citation_count, paper_count=excluded.paper_count,
			resolved=excluded.resolved, cached_at=excluded.cached_at`)
	if err != nil {
		return fmt.Errorf("preparing cache upsert: %w", err)
	}
	defer stmt.Close()

	for name, entry := range entries {
		var m types.AuthorMetrics
		resolved := 0
		if entry.Metrics != nil {
			m = *entry.Metrics
			resolved = 1
		}
		_, err := stmt.Exec(name, entry.Score, m.HIndex, m.CitationCount, m.PaperCount,
			resolved, entry.CachedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("upserting author %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// Close releases the database connection.
func (c *cacheStore) Close() error {
	return c.db.Close()
}
