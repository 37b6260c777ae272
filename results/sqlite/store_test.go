package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/qbitlab/grover-qpu/ibmq"
	"github.com/qbitlab/grover-qpu/results"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndList_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := results.Record{
		JobID:         "job-1",
		Backend:       "qpuA",
		Counts:        ibmq.Counts{"11": 900, "01": 124},
		Fidelity:      900.0 / 1024.0,
		TotalShots:    1024,
		ExpectedState: "11",
	}
	recordID, err := store.Append(ctx, SourceRun, rec)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if recordID == "" {
		t.Fatal("expected a record id")
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.RecordID != recordID || got.Source != SourceRun {
		t.Fatalf("unexpected entry identity: %+v", got)
	}
	if got.Record.JobID != "job-1" || got.Record.Counts["11"] != 900 {
		t.Fatalf("record mangled on round trip: %+v", got.Record)
	}
}

func TestList_NewestFirstAndLimited(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, job := range []string{"job-a", "job-b", "job-c"} {
		_, err := store.Append(ctx, SourceRetrieve, results.Record{
			JobID:      job,
			Backend:    "qpuB",
			Counts:     ibmq.Counts{"11": i + 1},
			TotalShots: i + 1,
		})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(entries))
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
