package circuit

import (
	"fmt"
	"strings"
)

// ToQASM3 serializes the circuit as OpenQASM 3.0, the wire format the
// Runtime sampler accepts. Measurements are emitted as a single
// register-wide assignment at the end, so the circuit must have been
// closed with MeasureAll before submission.
func (c *Circuit) ToQASM3() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3.0;\n")
	sb.WriteString("include \"stdgates.inc\";\n")
	fmt.Fprintf(&sb, "qubit[%d] q;\n", c.NumQubits)
	if c.measured {
		fmt.Fprintf(&sb, "bit[%d] c;\n", c.NumQubits)
	}
	sb.WriteString("\n")

	for _, g := range c.Gates {
		if g.Name == "measure" {
			continue
		}
		sb.WriteString(g.Name)
		for i, q := range g.Qubits {
			if i == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "q[%d]", q)
		}
		sb.WriteString(";\n")
	}

	if c.measured {
		sb.WriteString("\nc = measure q;\n")
	}
	return sb.String()
}

// Lower rewrites the circuit onto a backend's native gate set. This is
// the light local stand-in for the transpilation a full SDK performs;
// topology-aware routing is left to the service. Currently the only
// rewrite is CZ -> H-CX-H when the basis lacks a native cz. Gates the
// basis does support pass through untouched, as do measurements.
// An empty basis means "accept everything" and returns the receiver.
func (c *Circuit) Lower(basis []string) *Circuit {
	if len(basis) == 0 {
		return c
	}
	native := make(map[string]bool, len(basis))
	for _, name := range basis {
		native[strings.ToLower(name)] = true
	}
	if native["cz"] {
		return c
	}

	out := New(c.Name, c.NumQubits)
	for _, g := range c.Gates {
		if g.Name == "cz" {
			t := g.Qubits[1]
			out.Gates = append(out.Gates,
				Gate{Name: "h", Qubits: []int{t}},
				Gate{Name: "cx", Qubits: []int{g.Qubits[0], t}},
				Gate{Name: "h", Qubits: []int{t}},
			)
			continue
		}
		out.Gates = append(out.Gates, g)
	}
	out.measured = c.measured
	return out
}
