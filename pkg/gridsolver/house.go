package gridsolver

import "fmt"

// House enforces that k = NumValues cells contain each value exactly
// once: a row, column, box, or any other "every value
// exactly once" grouping. It runs a single branchless sweep over its
// cells to find hidden singles, and exposes its cells as exclusion cells
// so the engine can fold it into a global all-different index.
type House struct {
	id        string
	cells     []int
	numValues int
}

// NewHouse constructs a House over cells. id should be unique per
// declared house (e.g. "house:row3").
func NewHouse(id string, cells []int, numValues int) (*House, error) {
	if len(cells) != numValues {
		return nil, fmt.Errorf("gridsolver: House %q has %d cells, want %d (num_values)", id, len(cells), numValues)
	}
	return &House{id: id, cells: append([]int(nil), cells...), numValues: numValues}, nil
}

func (h *House) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (h *House) PostInitialize(*Grid)                                           {}
func (h *House) ExclusionCells() []int                                          { return h.cells }
func (h *House) Priority() int                                                  { return 100 }
func (h *House) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (h *House) WatchedCells() []int                                            { return h.cells }
func (h *House) ID() string                                                     { return h.id }
func (h *House) Essential() bool                                                { return true }
func (h *House) DebugName() string                                              { return "House(" + h.id + ")" }

// EnforceConsistency runs a single-pass sweep over the house: it
// computes all/at_least_two/fixed in one loop, fails if the house cannot
// cover every value, succeeds early if already complete, and otherwise
// writes any hidden single directly into its owning cell.
func (h *House) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	var all, atLeastTwo, fixed Mask
	for _, c := range h.cells {
		v := grid.Cell(c)
		atLeastTwo |= all & v
		all |= v
		if v.IsFixed() {
			fixed |= v
		}
	}
	full := FullMask(h.numValues)
	if all != full {
		return false
	}
	if fixed == full {
		return true
	}

	hiddenSingles := all &^ atLeastTwo &^ fixed
	if hiddenSingles == 0 {
		return true
	}
	for hs := hiddenSingles; hs != 0; hs = hs.ClearLowest() {
		v := hs.Lowest()
		owner, found := -1, false
		for _, c := range h.cells {
			if grid.Cell(c)&v != 0 {
				if found {
					return false // two cells competing for the same hidden single
				}
				owner, found = c, true
			}
		}
		if !found {
			return false
		}
		if grid.Cell(owner) != v {
			grid.SetCell(owner, v)
			acc.AddForCell(owner)
		}
	}
	return true
}
