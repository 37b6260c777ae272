// Package sqlite persists run lifecycle events to a local database so
// a run can be traced after the process exits. The store satisfies
// observe.Sink and is usually wrapped in an observe.AsyncSink so event
// writes stay off the submit/poll path.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qbitlab/grover-qpu/observe"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const defaultLimit = 100

type Store struct {
	db *sql.DB
}

// Open creates or opens the trace database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("trace db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create trace db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable wal: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize trace schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Emit writes one event row. Implements observe.Sink.
func (s *Store) Emit(ctx context.Context, event observe.Event) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("trace store is not open")
	}
	event.Normalize()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	attrs, err := json.Marshal(event.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode event attributes: %w", err)
	}

	const q = `
INSERT INTO trace_events (
  event_id, run_id, kind, status, name, backend, job_id, message, error, duration_ms, attributes, timestamp
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(ctx, q,
		event.ID,
		event.RunID,
		string(event.Kind),
		string(event.Status),
		event.Name,
		event.Backend,
		event.JobID,
		event.Message,
		event.Error,
		event.DurationMs,
		string(attrs),
		event.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append trace event: %w", err)
	}
	return nil
}

// ListRun returns the events recorded for one run, oldest first.
func (s *Store) ListRun(ctx context.Context, runID string, limit int) ([]observe.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	const q = `
SELECT event_id, run_id, kind, status, name, backend, job_id, message, error, duration_ms, attributes, timestamp
FROM trace_events
WHERE run_id = ?
ORDER BY timestamp ASC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, q, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trace events: %w", err)
	}
	defer rows.Close()

	out := make([]observe.Event, 0, limit)
	for rows.Next() {
		var (
			e     observe.Event
			kind  string
			state string
			attrs string
			tsRaw string
		)
		if err := rows.Scan(
			&e.ID,
			&e.RunID,
			&kind,
			&state,
			&e.Name,
			&e.Backend,
			&e.JobID,
			&e.Message,
			&e.Error,
			&e.DurationMs,
			&attrs,
			&tsRaw,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trace row: %w", err)
		}
		e.Kind = observe.Kind(kind)
		e.Status = observe.Status(state)
		if attrs != "" {
			_ = json.Unmarshal([]byte(attrs), &e.Attributes)
		}
		if ts, err := time.Parse(time.RFC3339Nano, tsRaw); err == nil {
			e.Timestamp = ts
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trace events: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
