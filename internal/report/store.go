// Package report persists suppressed entries to an embedded SQLite database
// so the reporting consumer can inspect them across restarts. The in-memory
// history log holds everything recent; this store keeps only what was
// suppressed.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xivtools/nosol/internal/chat"
	"github.com/xivtools/nosol/internal/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS suppressed (
  id                 TEXT PRIMARY KEY,
  recorded_at        INTEGER NOT NULL,
  channel            INTEGER NOT NULL,
  sender             TEXT NOT NULL,
  text               TEXT NOT NULL,
  reason             TEXT NOT NULL,
  classifier_version TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_suppressed_recorded_at ON suppressed (recorded_at);
`

// Store is an append-only log of suppressed entries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the report database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening report db: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids lock
	// contention between the engine and the report reader.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating report schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one suppressed entry.
func (s *Store) Append(ctx context.Context, e history.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO suppressed (id, recorded_at, channel, sender, text, reason, classifier_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RecordedAt.UnixMilli(), uint16(e.Channel), e.Sender, e.Text, e.Reason, e.ClassifierVersion)
	if err != nil {
		return fmt.Errorf("inserting suppressed entry: %w", err)
	}

	return nil
}

// Recent returns up to limit suppressed entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, channel, sender, text, reason, classifier_version
		 FROM suppressed ORDER BY recorded_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying suppressed entries: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry

	for rows.Next() {
		var (
			e       history.Entry
			ms      int64
			channel uint16
		)

		if err := rows.Scan(&e.ID, &ms, &channel, &e.Sender, &e.Text, &e.Reason, &e.ClassifierVersion); err != nil {
			return nil, fmt.Errorf("scanning suppressed entry: %w", err)
		}

		e.RecordedAt = time.UnixMilli(ms).UTC()
		e.Channel = chat.Channel(channel)
		e.ChannelName = e.Channel.String()
		e.Suppressed = true

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suppressed entries: %w", err)
	}

	return entries, nil
}

// Ping probes the underlying database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
