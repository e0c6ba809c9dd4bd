package tree

// Grid is the 2D arrangement of panels: rows of cells.
type Grid [][]*Node

// IsEmpty reports whether g is uninitialized or holds a single empty row.
func (g Grid) IsEmpty() bool {
	return g == nil || len(g) == 0 || (len(g) == 1 && len(g[0]) == 0)
}

// Clone copies the row structure of g. Nodes are shared.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]*Node(nil), row...)
	}
	return out
}

// Cells returns the number of cells in g.
func (g Grid) Cells() int {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	return n
}

// Find returns the first cell whose type equals typ in row-major order.
func (g Grid) Find(typ string) (*Node, bool) {
	if typ == "" {
		return nil, false
	}
	for _, row := range g {
		for _, cell := range row {
			if cell != nil && cell.Type == typ {
				return cell, true
			}
		}
	}
	return nil, false
}
