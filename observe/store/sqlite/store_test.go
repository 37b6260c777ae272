package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/qbitlab/grover-qpu/observe"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEmitAndListRun_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	events := []observe.Event{
		{RunID: "run-1", Kind: observe.KindBackend, Status: observe.StatusCompleted, Backend: "qpuA"},
		{RunID: "run-1", Kind: observe.KindJob, Status: observe.StatusStarted, JobID: "job-1", Attributes: map[string]any{"shots": 4096}},
		{RunID: "run-2", Kind: observe.KindRun, Status: observe.StatusStarted},
	}
	for _, event := range events {
		if err := store.Emit(ctx, event); err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
	}

	got, err := store.ListRun(ctx, "run-1", 10)
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for run-1, got %d", len(got))
	}
	for _, event := range got {
		if event.ID == "" {
			t.Fatalf("event persisted without an id: %+v", event)
		}
		if event.Timestamp.IsZero() {
			t.Fatalf("event persisted without a timestamp: %+v", event)
		}
	}
	if got[0].Backend != "qpuA" {
		t.Fatalf("events out of order: %+v", got)
	}
	if got[1].JobID != "job-1" {
		t.Fatalf("job event mangled: %+v", got[1])
	}
	if shots, ok := got[1].Attributes["shots"].(float64); !ok || shots != 4096 {
		t.Fatalf("attributes mangled on round trip: %+v", got[1].Attributes)
	}
}

func TestEmit_BehindAsyncSink(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sink := observe.NewAsyncSink(store, 8)
	for i := 0; i < 3; i++ {
		if err := sink.Emit(ctx, observe.Event{RunID: "run-async", Kind: observe.KindCustom, Name: "step"}); err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
	}
	sink.Close()

	got, err := store.ListRun(ctx, "run-async", 10)
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 drained events, got %d", len(got))
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
