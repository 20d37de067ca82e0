package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Contact attempt outcomes stored for the admin dashboard.
const (
	outcomeSucceeded      = "succeeded"
	outcomeDeliveryFailed = "delivery_failed"
	outcomeInvalidInput   = "invalid_input"
	outcomeBusy           = "busy"
	outcomeRateLimited    = "rate_limited"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);

CREATE TABLE IF NOT EXISTS contact_attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	outcome TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_contact_attempts_timestamp ON contact_attempts(timestamp);
`

// openDB opens the SQLite database at path and creates the tables.
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Times are written in SQLite's own format so they sort as text.
	db, err := sql.Open("sqlite", path+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// recordVisitor stores one page view.
func recordVisitor(ctx context.Context, db *sql.DB, hashedIP, userAgent, path string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, at.UTC())
	return err
}

// recordContactAttempt stores the outcome of one submission. Message content
// is never stored.
func recordContactAttempt(ctx context.Context, db *sql.DB, hashedIP, outcome string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO contact_attempts (hashed_ip, outcome, timestamp)
		VALUES (?, ?, ?)
	`, hashedIP, outcome, at.UTC())
	return err
}

// pruneOlderThan deletes visitor and contact attempt rows older than cutoff.
func pruneOlderThan(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"visitors", "contact_attempts"} {
		res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < ?", cutoff.UTC())
		if err != nil {
			return total, fmt.Errorf("pruning %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
