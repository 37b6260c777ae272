// Package backend picks which QPU a run targets. Selection is a pure
// function over a live backend snapshot: the least-busy operational
// device from the preferred list, with a single configured fallback.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/qbitlab/grover-qpu/ibmq"
)

// MinQubits is the smallest device the Grover circuit fits on.
const MinQubits = 2

// ErrNoBackend is returned when neither a preferred backend nor the
// fallback is operational.
var ErrNoBackend = errors.New("backend: no operational QPU available")

// Lister is the one service call selection depends on. *ibmq.Client
// satisfies it.
type Lister interface {
	Backends(ctx context.Context) ([]ibmq.Backend, error)
}

// Preferences drive selection, loaded from configuration.
type Preferences struct {
	Preferred []string
	Fallback  string
	MinQubits int
}

// Select fetches the live backend snapshot and picks a device:
//
//  1. candidates are operational real QPUs with enough qubits;
//  2. among candidates on the preferred list, the shortest queue wins,
//     with ties broken by preferred-list order;
//  3. if no preferred candidate exists, the configured fallback is used
//     when it is itself a candidate;
//  4. with no preferred list and no fallback configured, the shortest
//     queue among all candidates wins;
//  5. otherwise ErrNoBackend.
//
// Connectivity failures from the lister surface unchanged.
func Select(ctx context.Context, lister Lister, prefs Preferences) (ibmq.Backend, error) {
	backends, err := lister.Backends(ctx)
	if err != nil {
		return ibmq.Backend{}, err
	}
	return pick(backends, prefs)
}

func pick(backends []ibmq.Backend, prefs Preferences) (ibmq.Backend, error) {
	minQubits := prefs.MinQubits
	if minQubits <= 0 {
		minQubits = MinQubits
	}

	candidates := make(map[string]ibmq.Backend, len(backends))
	for _, b := range backends {
		if b.Simulator || !b.Operational || b.NumQubits < minQubits {
			continue
		}
		candidates[b.Name] = b
	}
	if len(candidates) == 0 {
		return ibmq.Backend{}, fmt.Errorf("%w (need >= %d qubits)", ErrNoBackend, minQubits)
	}

	var best ibmq.Backend
	found := false
	for _, name := range prefs.Preferred {
		b, ok := candidates[name]
		if !ok {
			continue
		}
		if !found || b.PendingJobs < best.PendingJobs {
			best, found = b, true
		}
	}
	if found {
		return best, nil
	}

	// With no preferences configured at all, any candidate is eligible
	// and the shortest queue wins, ties broken by listing order.
	if len(prefs.Preferred) == 0 && prefs.Fallback == "" {
		for _, b := range backends {
			if _, ok := candidates[b.Name]; !ok {
				continue
			}
			if !found || b.PendingJobs < best.PendingJobs {
				best, found = b, true
			}
		}
		return best, nil
	}

	if b, ok := candidates[prefs.Fallback]; ok {
		return b, nil
	}
	return ibmq.Backend{}, fmt.Errorf("%w: none of %v nor fallback %q is available",
		ErrNoBackend, prefs.Preferred, prefs.Fallback)
}
