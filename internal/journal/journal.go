// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a history of converter invocations in SQLite.
// The journal is write-only from the loop's point of view: staleness is
// decided from file timestamps alone and never consults it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/meshwatch/pkg/types"
)

const defaultLimit = 20

// timeLayout is fixed-width so that started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Journal manages the conversion history database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path, creating the parent directory
// and schema as needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			reason TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			exit_code INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_source ON conversions(source)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_started_at ON conversions(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one conversion to the journal.
func (j *Journal) Record(ctx context.Context, rec types.ConversionRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO conversions (source, output, reason, started_at, duration_ms, exit_code)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Source, rec.Output, string(rec.Reason),
		rec.StartedAt.UTC().Format(timeLayout),
		rec.Duration.Milliseconds(), rec.ExitCode,
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.Source, err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit of zero or less
// uses the default of 20.
func (j *Journal) Recent(ctx context.Context, limit int) ([]types.ConversionRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, source, output, reason, started_at, duration_ms, exit_code
		 FROM conversions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var records []types.ConversionRecord
	for rows.Next() {
		var (
			rec        types.ConversionRecord
			reason     string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Output, &reason, &startedAt, &durationMS, &rec.ExitCode); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		rec.Reason = types.StaleReason(reason)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
