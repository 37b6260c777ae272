package circuit

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Probabilities runs an ideal, noiseless statevector simulation of the
// circuit and returns the measurement probability of each basis state,
// keyed by bitstring with qubit 0 as the rightmost bit. Measurements in
// the gate list are skipped; the returned map is the distribution a
// perfect measurement of the final state would produce.
func (c *Circuit) Probabilities() (map[string]float64, error) {
	dim := 1 << c.NumQubits
	state := make([]complex128, dim)
	state[0] = 1

	for _, g := range c.Gates {
		switch g.Name {
		case "measure":
			continue
		case "h":
			applyH(state, g.Qubits[0])
		case "x":
			applyX(state, g.Qubits[0])
		case "cx":
			applyCX(state, g.Qubits[0], g.Qubits[1])
		case "cz":
			applyCZ(state, g.Qubits[0], g.Qubits[1])
		default:
			return nil, fmt.Errorf("cannot simulate gate %q", g.Name)
		}
	}

	probs := make(map[string]float64, dim)
	for i, amp := range state {
		p := cmplx.Abs(amp)
		p *= p
		if p < 1e-12 {
			continue
		}
		probs[fmt.Sprintf("%0*b", c.NumQubits, i)] = p
	}
	return probs, nil
}

// IdealCounts converts the ideal distribution into integer counts for
// the given shot count. Rounding remainders are assigned to the most
// likely state so the counts always sum to shots exactly.
func (c *Circuit) IdealCounts(shots int) (map[string]int, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	probs, err := c.Probabilities()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(probs))
	assigned := 0
	best, bestP := "", -1.0
	for state, p := range probs {
		n := int(math.Round(p * float64(shots)))
		counts[state] = n
		assigned += n
		if p > bestP {
			best, bestP = state, p
		}
	}
	if assigned != shots && best != "" {
		counts[best] += shots - assigned
	}
	for state, n := range counts {
		if n <= 0 {
			delete(counts, state)
		}
	}
	return counts, nil
}

// Index bit q is qubit q; the pair (i, i|1<<q) spans the qubit's
// |0> and |1> components.

func applyH(state []complex128, q int) {
	mask := 1 << q
	inv := complex(1/math.Sqrt2, 0)
	for i := range state {
		if i&mask != 0 {
			continue
		}
		a, b := state[i], state[i|mask]
		state[i] = inv * (a + b)
		state[i|mask] = inv * (a - b)
	}
}

func applyX(state []complex128, q int) {
	mask := 1 << q
	for i := range state {
		if i&mask == 0 {
			state[i], state[i|mask] = state[i|mask], state[i]
		}
	}
}

func applyCX(state []complex128, control, target int) {
	cm, tm := 1<<control, 1<<target
	for i := range state {
		if i&cm != 0 && i&tm == 0 {
			state[i], state[i|tm] = state[i|tm], state[i]
		}
	}
}

func applyCZ(state []complex128, a, b int) {
	am, bm := 1<<a, 1<<b
	for i := range state {
		if i&am != 0 && i&bm != 0 {
			state[i] = -state[i]
		}
	}
}
