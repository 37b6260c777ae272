package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/qbitlab/grover-qpu/ibmq"
)

type staticLister struct {
	backends []ibmq.Backend
	err      error
}

func (l staticLister) Backends(ctx context.Context) ([]ibmq.Backend, error) {
	return l.backends, l.err
}

func qpu(name string, queue int, operational bool) ibmq.Backend {
	return ibmq.Backend{Name: name, NumQubits: 127, Operational: operational, PendingJobs: queue}
}

func TestSelect_ShortestQueueAmongPreferred(t *testing.T) {
	lister := staticLister{backends: []ibmq.Backend{
		qpu("qpuA", 3, true),
		qpu("qpuB", 12, true),
		qpu("qpuC", 0, true), // not preferred; must never win
	}}

	got, err := Select(context.Background(), lister, Preferences{
		Preferred: []string{"qpuA", "qpuB"},
		Fallback:  "qpuA",
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Name != "qpuA" {
		t.Fatalf("expected qpuA, got %q", got.Name)
	}
}

func TestSelect_PreferredOrderBreaksTies(t *testing.T) {
	lister := staticLister{backends: []ibmq.Backend{
		qpu("qpuB", 5, true),
		qpu("qpuA", 5, true),
	}}

	got, err := Select(context.Background(), lister, Preferences{
		Preferred: []string{"qpuB", "qpuA"},
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Name != "qpuB" {
		t.Fatalf("expected tie to go to first preferred, got %q", got.Name)
	}
}

func TestSelect_FallsBackWhenNoPreferredAvailable(t *testing.T) {
	lister := staticLister{backends: []ibmq.Backend{
		qpu("qpuA", 0, false), // preferred but down
		qpu("qpuC", 2, true),
	}}

	got, err := Select(context.Background(), lister, Preferences{
		Preferred: []string{"qpuA", "qpuB"},
		Fallback:  "qpuC",
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Name != "qpuC" {
		t.Fatalf("expected fallback qpuC, got %q", got.Name)
	}
}

func TestSelect_LeastBusyOverallWithoutPreferences(t *testing.T) {
	lister := staticLister{backends: []ibmq.Backend{
		qpu("qpuA", 7, true),
		qpu("qpuB", 2, false), // shortest queue but down
		qpu("qpuC", 3, true),
		{Name: "sim", NumQubits: 32, Operational: true, Simulator: true},
	}}

	got, err := Select(context.Background(), lister, Preferences{})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Name != "qpuC" {
		t.Fatalf("expected least-busy qpuC, got %q", got.Name)
	}
}

func TestSelect_ErrNoBackendWhenNothingFits(t *testing.T) {
	lister := staticLister{backends: []ibmq.Backend{
		qpu("qpuA", 0, false),
		{Name: "sim", NumQubits: 32, Operational: true, Simulator: true},
		{Name: "tiny", NumQubits: 1, Operational: true},
	}}

	_, err := Select(context.Background(), lister, Preferences{
		Preferred: []string{"qpuA"},
		Fallback:  "qpuA",
	})
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
}

func TestSelect_SurfacesConnectivityError(t *testing.T) {
	boom := fmt.Errorf("connection refused")
	_, err := Select(context.Background(), staticLister{err: boom}, Preferences{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected lister error to surface, got %v", err)
	}
}
