package eventsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists events in a single SQLite table. Safe for concurrent
// use within one process; the database serializes writers.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) an event store at path. Use
// ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}
	// modernc sqlite allows one writer; a second connection would see
	// transient lock errors under concurrent appends.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate event store: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		stream_id TEXT NOT NULL,
		type TEXT NOT NULL,
		data TEXT,
		version INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		UNIQUE(stream_id, version)
	);
	CREATE INDEX IF NOT EXISTS idx_events_stream ON events(stream_id, version);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	current, err := streamVersionTx(ctx, tx, streamID)
	if err != nil {
		return 0, err
	}
	if expectedVersion != current {
		return 0, ErrConcurrencyConflict
	}

	for _, ev := range events {
		current++
		ev.StreamID = streamID
		ev.Version = current
		if ev.Timestamp.IsZero() {
			ev.Timestamp = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, stream_id, type, data, version, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
			ev.ID, ev.StreamID, ev.Type, string(ev.Data), ev.Version, ev.Timestamp)
		if err != nil {
			return 0, fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return current, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stream_id, type, data, version, timestamp
		 FROM events WHERE stream_id = ? AND version >= ? ORDER BY version`,
		streamID, fromVersion)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ReadAll implements Store.
func (s *SQLiteStore) ReadAll(ctx context.Context, filter Filter) ([]*Event, error) {
	query := `SELECT id, stream_id, type, data, version, timestamp FROM events`
	var (
		conds []string
		args  []any
	)
	if filter.StreamID != "" {
		conds = append(conds, "stream_id = ?")
		args = append(args, filter.StreamID)
	}
	if len(filter.Types) > 0 {
		placeholders := strings.Repeat("?,", len(filter.Types))
		conds = append(conds, "type IN ("+placeholders[:len(placeholders)-1]+")")
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// StreamVersion implements Store.
func (s *SQLiteStore) StreamVersion(ctx context.Context, streamID string) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM events WHERE stream_id = ?`, streamID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("stream version: %w", err)
	}
	if !version.Valid {
		return -1, nil
	}
	return int(version.Int64), nil
}

// DeleteStream implements Store.
func (s *SQLiteStore) DeleteStream(ctx context.Context, streamID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE stream_id = ?`, streamID); err != nil {
		return fmt.Errorf("delete stream: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

func streamVersionTx(ctx context.Context, tx *sql.Tx, streamID string) (int, error) {
	var version sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM events WHERE stream_id = ?`, streamID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("stream version: %w", err)
	}
	if !version.Valid {
		return -1, nil
	}
	return int(version.Int64), nil
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var out []*Event
	for rows.Next() {
		var (
			ev   Event
			data string
		)
		if err := rows.Scan(&ev.ID, &ev.StreamID, &ev.Type, &data, &ev.Version, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if data != "" {
			ev.Data = []byte(data)
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
