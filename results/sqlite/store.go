// Package sqlite keeps a local history of runs and retrievals so
// earlier results stay queryable after the provider's retention
// window has passed.
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
	"github.com/qbitlab/grover-qpu/ibmq"
	"github.com/qbitlab/grover-qpu/results"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const defaultLimit = 50

// Source distinguishes how a history entry was produced.
const (
	SourceRun      = "run"
	SourceRetrieve = "retrieve"
)

// Entry is one row of the history: a result record plus bookkeeping.
type Entry struct {
	RecordID string
	Source   string
	Record   results.Record
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable wal: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts one history entry and returns its record ID.
func (s *Store) Append(ctx context.Context, source string, rec results.Record) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("history store is not open")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	counts, err := json.Marshal(rec.Counts)
	if err != nil {
		return "", fmt.Errorf("failed to encode counts: %w", err)
	}

	recordID := uuid.NewString()
	const q = `
INSERT INTO run_history (
  record_id, job_id, backend, expected_state, total_shots, fidelity, counts, source, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(ctx, q,
		recordID,
		rec.JobID,
		rec.Backend,
		rec.ExpectedState,
		rec.TotalShots,
		rec.Fidelity,
		string(counts),
		source,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to append run history: %w", err)
	}
	return recordID, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	const q = `
SELECT record_id, job_id, backend, expected_state, total_shots, fidelity, counts, source, created_at
FROM run_history
ORDER BY created_at DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run history: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e      Entry
			counts string
			tsRaw  string
		)
		if err := rows.Scan(
			&e.RecordID,
			&e.Record.JobID,
			&e.Record.Backend,
			&e.Record.ExpectedState,
			&e.Record.TotalShots,
			&e.Record.Fidelity,
			&counts,
			&e.Source,
			&tsRaw,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if counts != "" {
			_ = json.Unmarshal([]byte(counts), &e.Record.Counts)
		}
		if e.Record.Counts == nil {
			e.Record.Counts = ibmq.Counts{}
		}
		if ts, err := time.Parse(time.RFC3339Nano, tsRaw); err == nil {
			e.Record.CreatedAt = ts
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run history: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
