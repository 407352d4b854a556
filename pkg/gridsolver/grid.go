package gridsolver

// Grid is the sole mutable state threaded through propagation: a linear
// array of NumCells value masks followed by an "extra_state" tail region
// that handlers use for persistent scratch (Or's live-disjunct bitset,
// and the like). Handlers may only mutate cells they declare plus the
// tail slice the StateAllocator gave them.
//
// Cell returns and SetCell mutate in place; the search driver is
// responsible for snapshotting/restoring a Grid across branches (a plain
// slice copy of the masks; Clone shares the immutable Shape pointer).
type Grid struct {
	Shape *Shape
	cells []Mask
}

// NewGrid allocates a grid with every declared cell set to fullMask and
// extraState additional tail slots, all zeroed.
func NewGrid(shape *Shape, extraState int) *Grid {
	g := &Grid{Shape: shape, cells: make([]Mask, shape.NumCells+extraState)}
	full := shape.AllValuesMask()
	for i := 0; i < shape.NumCells; i++ {
		g.cells[i] = full
	}
	return g
}

// Len returns the total number of slots (cells + tail state).
func (g *Grid) Len() int { return len(g.cells) }

// Cell returns the current mask of cell index c.
func (g *Grid) Cell(c int) Mask { return g.cells[c] }

// SetCell overwrites the mask of cell index c. Callers must only narrow
// (clear bits); gridsolver does not itself enforce monotonicity. Monotone
// pruning is a handler obligation checked by tests, not by the grid.
func (g *Grid) SetCell(c int, m Mask) { g.cells[c] = m }

// Tail returns the raw value stored at a tail-region offset (as returned
// by StateAllocator.Allocate).
func (g *Grid) Tail(offset int) Mask { return g.cells[g.Shape.NumCells+offset] }

// SetTail overwrites a tail-region slot.
func (g *Grid) SetTail(offset int, v Mask) { g.cells[g.Shape.NumCells+offset] = v }

// Clone returns an independent copy of the grid (used by the Or handler's
// scratch/result grids, and by the search driver across branches).
func (g *Grid) Clone() *Grid {
	cells := make([]Mask, len(g.cells))
	copy(cells, g.cells)
	return &Grid{Shape: g.Shape, cells: cells}
}

// CopyFrom overwrites g's contents from src in place (no allocation),
// used by Or to avoid allocating a fresh grid on every disjunct attempt.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.cells, src.cells)
}

// CellsEqual reports whether g and other agree on every cell (not tail
// state); used by fixed-point / idempotence tests.
func (g *Grid) CellsEqual(other *Grid) bool {
	n := g.Shape.NumCells
	for i := 0; i < n; i++ {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
