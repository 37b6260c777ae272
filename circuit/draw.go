package circuit

import (
	"fmt"
	"strings"
)

// Draw renders a text diagram of the circuit, one line per qubit wire.
// Each gate occupies its own column: boxed letters for single-qubit
// gates, a filled control dot with target glyph for two-qubit gates,
// a shaded column for barriers, and M for measurements.
func (c *Circuit) Draw() string {
	const cellWidth = 5

	cells := make([][]string, c.NumQubits)
	for q := range cells {
		cells[q] = []string{}
	}

	barrierAfter := make(map[int]bool, len(c.barriers))
	for _, b := range c.barriers {
		barrierAfter[b.after] = true
	}

	addColumn := func(glyphs map[int]string) {
		for q := 0; q < c.NumQubits; q++ {
			glyph, ok := glyphs[q]
			if !ok {
				glyph = "─"
			}
			cells[q] = append(cells[q], pad(glyph, cellWidth))
		}
	}

	for i, g := range c.Gates {
		if barrierAfter[i] {
			col := map[int]string{}
			for q := 0; q < c.NumQubits; q++ {
				col[q] = "░"
			}
			addColumn(col)
		}
		switch g.Name {
		case "measure":
			addColumn(map[int]string{g.Qubits[0]: "M"})
		case "cx":
			addColumn(map[int]string{g.Qubits[0]: "■", g.Qubits[1]: "⊕"})
		case "cz":
			addColumn(map[int]string{g.Qubits[0]: "■", g.Qubits[1]: "■"})
		default:
			addColumn(map[int]string{g.Qubits[0]: "[" + strings.ToUpper(g.Name) + "]"})
		}
	}
	if barrierAfter[len(c.Gates)] {
		col := map[int]string{}
		for q := 0; q < c.NumQubits; q++ {
			col[q] = "░"
		}
		addColumn(col)
	}

	var sb strings.Builder
	for q := 0; q < c.NumQubits; q++ {
		fmt.Fprintf(&sb, "q%d: ─", q)
		sb.WriteString(strings.Join(cells[q], ""))
		sb.WriteString("\n")
	}
	return sb.String()
}

// pad centers a glyph inside a cell of wire characters.
func pad(glyph string, width int) string {
	n := len([]rune(glyph))
	if n >= width {
		return glyph
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat("─", left) + glyph + strings.Repeat("─", right)
}
