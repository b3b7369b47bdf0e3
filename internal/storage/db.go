package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/estopassoli/vaal-trade-assistant/pkg/global"

	_ "github.com/mattn/go-sqlite3"
)

// historyLimit caps the search history table.
const historyLimit = 20

// timeSavedPerSearch credits the manual effort one automated search
// replaces: opening the trade site, typing the filters, submitting.
const timeSavedPerSearch = 15 * time.Second

type DB struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS searches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_name TEXT NOT NULL,
    league TEXT NOT NULL,
    trade_url TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS usage_stats (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS item_counts (
    item_name TEXT PRIMARY KEY,
    count INTEGER NOT NULL DEFAULT 0
);
`

// SearchEntry is one persisted search.
type SearchEntry struct {
	ItemName  string
	League    string
	TradeURL  string
	CreatedAt time.Time
}

// UsageStats aggregates lifetime counters.
type UsageStats struct {
	Searches   int
	Items      int
	TimeSaved  time.Duration
	ItemCounts map[string]int
}

// New opens the database at path, or at the default location under the
// user config directory when path is empty.
func New(path string) (*DB, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user config directory: %w", err)
		}
		path = filepath.Join(configDir, "vaal-trade-assistant", "searches.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// RecordSearch appends a history entry, trims the table to its cap and
// bumps the usage counters in one transaction.
func (d *DB) RecordSearch(name, league, tradeURL string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO searches (item_name, league, trade_url) VALUES (?, ?, ?)",
		name, league, tradeURL); err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY id DESC LIMIT ?
		)`, historyLimit); err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}

	for _, key := range []string{"searches", "items"} {
		if _, err := tx.Exec(`
			INSERT INTO usage_stats (key, value) VALUES (?, 1)
			ON CONFLICT(key) DO UPDATE SET value = value + 1`, key); err != nil {
			return fmt.Errorf("failed to bump %s counter: %w", key, err)
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO usage_stats (key, value) VALUES ('time_saved_seconds', ?)
		ON CONFLICT(key) DO UPDATE SET value = value + excluded.value`,
		int(timeSavedPerSearch.Seconds())); err != nil {
		return fmt.Errorf("failed to bump time counter: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO item_counts (item_name, count) VALUES (?, 1)
		ON CONFLICT(item_name) DO UPDATE SET count = count + 1`, name); err != nil {
		return fmt.Errorf("failed to bump item count: %w", err)
	}

	return tx.Commit()
}

// RecentSearches returns the history, newest first.
func (d *DB) RecentSearches() ([]SearchEntry, error) {
	log := global.GetLogger()
	log.Debug("Retrieving search history")

	rows, err := d.db.Query(`
		SELECT item_name, league, trade_url, created_at
		FROM searches
		ORDER BY id DESC`)
	if err != nil {
		log.Error("Failed to query search history", err)
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		var e SearchEntry
		if err := rows.Scan(&e.ItemName, &e.League, &e.TradeURL, &e.CreatedAt); err != nil {
			log.Error("Failed to scan search entry", err)
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading search history: %w", err)
	}

	log.Debug("Total searches retrieved", "count", len(entries))
	return entries, nil
}

// Stats returns the lifetime usage counters.
func (d *DB) Stats() (*UsageStats, error) {
	stats := &UsageStats{ItemCounts: make(map[string]int)}

	rows, err := d.db.Query("SELECT key, value FROM usage_stats")
	if err != nil {
		return nil, fmt.Errorf("failed to query usage stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan usage stat: %w", err)
		}
		switch key {
		case "searches":
			stats.Searches = value
		case "items":
			stats.Items = value
		case "time_saved_seconds":
			stats.TimeSaved = time.Duration(value) * time.Second
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading usage stats: %w", err)
	}

	counts, err := d.db.Query("SELECT item_name, count FROM item_counts")
	if err != nil {
		return nil, fmt.Errorf("failed to query item counts: %w", err)
	}
	defer counts.Close()

	for counts.Next() {
		var name string
		var count int
		if err := counts.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan item count: %w", err)
		}
		stats.ItemCounts[name] = count
	}
	if err := counts.Err(); err != nil {
		return nil, fmt.Errorf("failed reading item counts: %w", err)
	}

	return stats, nil
}

// Cleanup removes history entries older than the given age.
func (d *DB) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := d.db.Exec("DELETE FROM searches WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup old searches: %w", err)
	}
	return nil
}
