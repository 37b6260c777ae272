package ibmq

import (
	"context"
	"fmt"
	"net/url"
)

// Backend is a read-only snapshot of one QPU: its static shape from the
// device listing plus the live queue state at fetch time. Nothing here
// is persisted; a fresh snapshot is taken per run.
type Backend struct {
	Name        string
	NumQubits   int
	Simulator   bool
	Operational bool
	PendingJobs int
	BasisGates  []string
}

// Backends lists every device visible to the instance, decorated with
// its current operational status and queue depth. A failure to reach
// the service surfaces as-is; it is the caller's connectivity check.
func (c *Client) Backends(ctx context.Context) ([]Backend, error) {
	var listing struct {
		Devices []struct {
			Name       string   `json:"name"`
			NumQubits  int      `json:"n_qubits"`
			Simulator  bool     `json:"simulator"`
			BasisGates []string `json:"basis_gates"`
		} `json:"devices"`
	}
	if err := c.do(ctx, "GET", "/backends", nil, &listing); err != nil {
		return nil, fmt.Errorf("failed to list backends: %w", err)
	}

	backends := make([]Backend, 0, len(listing.Devices))
	for _, d := range listing.Devices {
		b := Backend{
			Name:       d.Name,
			NumQubits:  d.NumQubits,
			Simulator:  d.Simulator,
			BasisGates: d.BasisGates,
		}
		status, err := c.backendStatus(ctx, d.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch status for %s: %w", d.Name, err)
		}
		b.Operational = status.State
		b.PendingJobs = status.LengthQueue
		backends = append(backends, b)
	}
	return backends, nil
}

type backendStatus struct {
	State       bool   `json:"state"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	LengthQueue int    `json:"length_queue"`
}

func (c *Client) backendStatus(ctx context.Context, name string) (backendStatus, error) {
	var status backendStatus
	err := c.do(ctx, "GET", "/backends/"+url.PathEscape(name)+"/status", nil, &status)
	return status, err
}
