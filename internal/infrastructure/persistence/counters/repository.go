// Package counters persists banner generation counters. Writes are
// best-effort: the render path never fails because of a counter.
package counters

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

// Repository stores total and per-username generation counts in sqlite.
type Repository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

// Stats is the aggregate view served by the stats endpoint.
type Stats struct {
	TotalGenerations int64  `json:"totalGenerations"`
	UniqueUsernames  int64  `json:"uniqueUsernames"`
	LastGeneratedAt  string `json:"lastGeneratedAt,omitempty"`
}

// NewRepository opens (and migrates) the counter database.
func NewRepository(path string, logger *logging.ChanneledLogger) (*Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open counter database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("counter database ping failed: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS generations (
		username     TEXT PRIMARY KEY,
		count        INTEGER NOT NULL DEFAULT 0,
		last_at      TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("counter schema migration failed: %w", err)
	}

	if logger != nil {
		logger.System().Info("Counter repository ready", "path", path)
	}
	return &Repository{db: db, logger: logger}, nil
}

// RecordGeneration bumps the counter for username. Errors are logged, not
// returned, so callers can fire-and-forget.
func (r *Repository) RecordGeneration(username string) {
	if r == nil || r.db == nil {
		return
	}
	_, err := r.db.Exec(`
		INSERT INTO generations (username, count, last_at) VALUES (?, 1, ?)
		ON CONFLICT(username) DO UPDATE SET count = count + 1, last_at = excluded.last_at`,
		username, time.Now().UTC())
	if err != nil && r.logger != nil {
		r.logger.System().Warn("Failed to record generation", "username", username, "error", err.Error())
	}
}

// GetStats returns the aggregate counters.
func (r *Repository) GetStats() (Stats, error) {
	var stats Stats
	if r == nil || r.db == nil {
		return stats, fmt.Errorf("counter repository unavailable")
	}

	row := r.db.QueryRow(`SELECT COALESCE(SUM(count), 0), COUNT(*) FROM generations`)
	if err := row.Scan(&stats.TotalGenerations, &stats.UniqueUsernames); err != nil {
		return stats, fmt.Errorf("failed to read counters: %w", err)
	}

	var last sql.NullString
	row = r.db.QueryRow(`SELECT MAX(last_at) FROM generations`)
	if err := row.Scan(&last); err == nil && last.Valid {
		stats.LastGeneratedAt = last.String
	}
	return stats, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
