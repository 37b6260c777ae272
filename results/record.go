// Package results persists per-run outcomes: one JSON record per job
// in a results directory, plus an optional SQLite history of every run
// and retrieval.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qbitlab/grover-qpu/ibmq"
)

// Record is the durable outcome of one completed job.
type Record struct {
	JobID         string      `json:"job_id"`
	Backend       string      `json:"backend"`
	Counts        ibmq.Counts `json:"counts"`
	Fidelity      float64     `json:"fidelity"`
	TotalShots    int         `json:"total_shots"`
	ExpectedState string      `json:"expected_state"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Save writes the record as pretty-printed JSON under dir, named after
// the job ID so a later retrieval of the same job overwrites rather
// than duplicates. The directory is created if needed. Returns the
// path written.
func Save(dir string, rec Record) (string, error) {
	if strings.TrimSpace(rec.JobID) == "" {
		return "", fmt.Errorf("record has no job id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results dir: %w", err)
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result record: %w", err)
	}
	path := filepath.Join(dir, "grover_result_"+sanitize(rec.JobID)+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write result record: %w", err)
	}
	return path, nil
}

// Load reads a previously saved record back.
func Load(path string) (Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read result record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode result record %q: %w", path, err)
	}
	return rec, nil
}

// sanitize keeps job IDs filesystem-safe. Runtime IDs are opaque
// strings; only path separators and dots need rewriting.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ':':
			return '_'
		}
		return r
	}, id)
}
