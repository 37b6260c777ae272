// Package circuit builds and inspects the fixed 2-qubit Grover search
// circuit and provides an ideal (noiseless) statevector simulation of it.
//
// The circuit searches a 2-qubit space (4 basis states) for the single
// marked state TargetState. For N=4 one Grover iteration is enough:
// pi/4 * sqrt(4) is roughly 1.57, so a single oracle+diffusion round
// already rotates the state almost exactly onto the target.
package circuit

import (
	"fmt"
	"sort"
	"strings"
)

// TargetState is the marked basis state the oracle inverts. Qubit 0 is
// the rightmost bit, matching the bit order of measurement counts.
const TargetState = "11"

// Gate is a single operation placed on the circuit. Qubits lists the
// wires it acts on; for controlled gates the control comes first.
type Gate struct {
	Name   string
	Qubits []int
}

// Barrier separates logical stages of the circuit. It carries no
// semantics beyond grouping gates for rendering.
type barrier struct {
	after int // index into Gates; the barrier sits after this many gates
	label string
}

// Circuit is an ordered list of gates over a fixed number of qubits.
// The zero value is not usable; construct with New.
type Circuit struct {
	Name      string
	NumQubits int
	Gates     []Gate

	barriers []barrier
	measured bool
}

// New returns an empty circuit over n qubits.
func New(name string, n int) *Circuit {
	if n < 1 {
		n = 1
	}
	return &Circuit{Name: name, NumQubits: n}
}

// H applies a Hadamard gate to each listed qubit.
func (c *Circuit) H(qubits ...int) {
	for _, q := range qubits {
		c.Gates = append(c.Gates, Gate{Name: "h", Qubits: []int{q}})
	}
}

// X applies a Pauli-X (NOT) gate to each listed qubit.
func (c *Circuit) X(qubits ...int) {
	for _, q := range qubits {
		c.Gates = append(c.Gates, Gate{Name: "x", Qubits: []int{q}})
	}
}

// CX applies a controlled-X gate with the given control and target.
func (c *Circuit) CX(control, target int) {
	c.Gates = append(c.Gates, Gate{Name: "cx", Qubits: []int{control, target}})
}

// CZ applies a controlled-Z gate. The gate is symmetric in its qubits.
func (c *Circuit) CZ(a, b int) {
	c.Gates = append(c.Gates, Gate{Name: "cz", Qubits: []int{a, b}})
}

// Barrier marks the end of a logical stage for rendering.
func (c *Circuit) Barrier(label string) {
	c.barriers = append(c.barriers, barrier{after: len(c.Gates), label: label})
}

// MeasureAll measures every qubit into its classical bit.
func (c *Circuit) MeasureAll() {
	if c.measured {
		return
	}
	for q := 0; q < c.NumQubits; q++ {
		c.Gates = append(c.Gates, Gate{Name: "measure", Qubits: []int{q}})
	}
	c.measured = true
}

// Measured reports whether the circuit ends in a full measurement.
func (c *Circuit) Measured() bool { return c.measured }

// Depth returns the circuit depth: the longest chain of gates that
// touch a common qubit. Measurements count as gates.
func (c *Circuit) Depth() int {
	level := make([]int, c.NumQubits)
	depth := 0
	for _, g := range c.Gates {
		next := 0
		for _, q := range g.Qubits {
			if q >= 0 && q < c.NumQubits && level[q] > next {
				next = level[q]
			}
		}
		next++
		for _, q := range g.Qubits {
			if q >= 0 && q < c.NumQubits {
				level[q] = next
			}
		}
		if next > depth {
			depth = next
		}
	}
	return depth
}

// Stats summarizes the circuit for display.
type Stats struct {
	Name       string
	NumQubits  int
	NumClbits  int
	Depth      int
	Operations int
	GateCounts map[string]int
}

// Summarize computes display statistics for the circuit.
func (c *Circuit) Summarize() Stats {
	counts := make(map[string]int)
	for _, g := range c.Gates {
		counts[g.Name]++
	}
	clbits := 0
	if c.measured {
		clbits = c.NumQubits
	}
	return Stats{
		Name:       c.Name,
		NumQubits:  c.NumQubits,
		NumClbits:  clbits,
		Depth:      c.Depth(),
		Operations: len(c.Gates),
		GateCounts: counts,
	}
}

// String renders the stats in a fixed order for terminal output.
func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name: %s\n", s.Name)
	fmt.Fprintf(&sb, "qubits: %d  classical bits: %d\n", s.NumQubits, s.NumClbits)
	fmt.Fprintf(&sb, "depth: %d  operations: %d\n", s.Depth, s.Operations)
	names := make([]string, 0, len(s.GateCounts))
	for name := range s.GateCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %d\n", name, s.GateCounts[name])
	}
	return sb.String()
}

// BuildGrover2Bit constructs the full Grover circuit for TargetState:
// uniform superposition, a CZ oracle marking |11>, one round of the
// standard diffusion operator, and a final measurement of both qubits.
// Construction cannot fail.
func BuildGrover2Bit() *Circuit {
	c := New("grover_2bit", 2)

	// Uniform superposition over all four basis states.
	c.H(0, 1)
	c.Barrier("superposition")

	// Oracle: CZ flips the sign of |11> only.
	c.CZ(0, 1)
	c.Barrier("oracle")

	// Diffusion: reflect amplitudes about their mean.
	// H-CX-H on the target wire realizes the central CZ.
	c.H(0, 1)
	c.X(0, 1)
	c.H(1)
	c.CX(0, 1)
	c.H(1)
	c.X(0, 1)
	c.H(0, 1)
	c.Barrier("diffusion")

	c.MeasureAll()
	return c
}
