package gridsolver

import "fmt"

// AllDifferentMode selects how an AllDifferent constraint propagates.
type AllDifferentMode int

const (
	// ExclusionCellsMode registers no watched cells; the constraint only
	// publishes its cell list as exclusion cells, and relies on the
	// engine wiring per-cell UniqueValueExclusion singletons.
	ExclusionCellsMode AllDifferentMode = iota
	// EnforcerMode watches its own cells directly and clears fixed values
	// from the rest of the group itself; used when nested inside an
	// Or/And where the engine cannot observe the constraint externally.
	EnforcerMode
)

// AllDifferent requires every named cell to take a distinct value.
type AllDifferent struct {
	id        string
	cells     []int
	mode      AllDifferentMode
	numValues int
}

// NewAllDifferent constructs an AllDifferent over cells. Initialization
// rejects the constraint if it names more cells than values, since no
// assignment could then satisfy it.
func NewAllDifferent(id string, cells []int, numValues int, mode AllDifferentMode) (*AllDifferent, error) {
	if len(cells) > numValues {
		return nil, fmt.Errorf("gridsolver: AllDifferent %q names %d cells but only %d values exist", id, len(cells), numValues)
	}
	return &AllDifferent{id: id, cells: append([]int(nil), cells...), mode: mode, numValues: numValues}, nil
}

func (a *AllDifferent) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (a *AllDifferent) PostInitialize(*Grid)                                           {}
func (a *AllDifferent) ExclusionCells() []int                                          { return a.cells }
func (a *AllDifferent) Priority() int                                                  { return 90 }
func (a *AllDifferent) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (a *AllDifferent) ID() string                                                     { return a.id }
func (a *AllDifferent) Essential() bool                                                { return true }
func (a *AllDifferent) DebugName() string                                              { return "AllDifferent(" + a.id + ")" }

// WatchedCells returns nil in ExclusionCellsMode (pruning happens through
// the per-cell singletons the engine wires) and a.cells in EnforcerMode.
func (a *AllDifferent) WatchedCells() []int {
	if a.mode == EnforcerMode {
		return a.cells
	}
	return nil
}

// EnforceConsistency is a no-op in ExclusionCellsMode. In EnforcerMode it
// iterates its cells, and for every fixed cell clears that value from
// every other cell in the group.
func (a *AllDifferent) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	if a.mode == ExclusionCellsMode {
		return true
	}
	for _, c := range a.cells {
		v := grid.Cell(c)
		if !v.IsFixed() {
			continue
		}
		for _, other := range a.cells {
			if other == c {
				continue
			}
			om := grid.Cell(other)
			if om&v == 0 {
				continue
			}
			nm := om &^ v
			if nm == 0 {
				return false
			}
			grid.SetCell(other, nm)
			acc.AddForCell(other)
		}
	}
	return true
}

// UniqueValueExclusion is the singleton handler wired per cell by the
// engine to realize the pruning side of an ExclusionCellsMode
// AllDifferent: when its cell is fixed to v, it clears v from every cell
// CellExclusions says must differ from it.
type UniqueValueExclusion struct {
	cell       int
	exclusions []int
}

// NewUniqueValueExclusion constructs the singleton for cell. exclusions
// is precomputed once at init from CellExclusions.GetArray(cell).
func NewUniqueValueExclusion(cell int) *UniqueValueExclusion {
	return &UniqueValueExclusion{cell: cell}
}

func (u *UniqueValueExclusion) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, _ *StateAllocator) bool {
	u.exclusions = ce.GetArray(u.cell)
	return true
}
func (u *UniqueValueExclusion) PostInitialize(*Grid)                     {}
func (u *UniqueValueExclusion) ExclusionCells() []int                    { return nil }
func (u *UniqueValueExclusion) Priority() int                            { return 100 }
func (u *UniqueValueExclusion) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (u *UniqueValueExclusion) WatchedCells() []int                      { return []int{u.cell} }
func (u *UniqueValueExclusion) ID() string                               { return fmt.Sprintf("uve:%d", u.cell) }
func (u *UniqueValueExclusion) Essential() bool                          { return true }
func (u *UniqueValueExclusion) DebugName() string                        { return fmt.Sprintf("UniqueValueExclusion(%d)", u.cell) }

// EnforceConsistency clears the fixed value of u.cell from every
// precomputed exclusion cell, failing if any of them is thereby emptied.
func (u *UniqueValueExclusion) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	v := grid.Cell(u.cell)
	if !v.IsFixed() {
		return true
	}
	for _, other := range u.exclusions {
		om := grid.Cell(other)
		if om&v == 0 {
			continue
		}
		nm := om &^ v
		if nm == 0 {
			return false
		}
		grid.SetCell(other, nm)
		acc.AddForCell(other)
	}
	return true
}

// ValueDependentUniqueValueExclusion generalizes UniqueValueExclusion so
// the set of excluded cells depends on the value the source cell takes,
// e.g. "if cell = 5, these specific cells may not be 5".
type ValueDependentUniqueValueExclusion struct {
	cell    int
	byValue map[int][]int // value -> exclusion cells for that value
}

// NewValueDependentUniqueValueExclusion constructs the handler with a
// precomputed value-indexed exclusion table.
func NewValueDependentUniqueValueExclusion(cell int, byValue map[int][]int) *ValueDependentUniqueValueExclusion {
	return &ValueDependentUniqueValueExclusion{cell: cell, byValue: byValue}
}

func (v *ValueDependentUniqueValueExclusion) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool {
	return true
}
func (v *ValueDependentUniqueValueExclusion) PostInitialize(*Grid)       {}
func (v *ValueDependentUniqueValueExclusion) ExclusionCells() []int      { return nil }
func (v *ValueDependentUniqueValueExclusion) Priority() int              { return 95 }
func (v *ValueDependentUniqueValueExclusion) CandidateFinders(*Grid, *Shape) []CandidateFinder {
	return nil
}
func (v *ValueDependentUniqueValueExclusion) WatchedCells() []int { return []int{v.cell} }
func (v *ValueDependentUniqueValueExclusion) ID() string          { return fmt.Sprintf("vdue:%d", v.cell) }
func (v *ValueDependentUniqueValueExclusion) Essential() bool     { return true }
func (v *ValueDependentUniqueValueExclusion) DebugName() string {
	return fmt.Sprintf("ValueDependentUniqueValueExclusion(%d)", v.cell)
}

// EnforceConsistency looks up the exclusion list for the source cell's
// fixed value and clears it from every cell in that list.
func (vd *ValueDependentUniqueValueExclusion) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	m := grid.Cell(vd.cell)
	if !m.IsFixed() {
		return true
	}
	cells, ok := vd.byValue[m.Value()]
	if !ok {
		return true
	}
	for _, other := range cells {
		om := grid.Cell(other)
		if om&m == 0 {
			continue
		}
		nm := om &^ m
		if nm == 0 {
			return false
		}
		grid.SetCell(other, nm)
		acc.AddForCell(other)
	}
	return true
}

// ValueDependentHouseExclusion is the House variant of
// ValueDependentUniqueValueExclusion: it additionally detects values
// placed in exactly two cells of a house and prunes using a pair-keyed
// exclusion table.
type ValueDependentHouseExclusion struct {
	id        string
	houseCells []int
	numValues int
	// pairExclusions[value] maps a sorted (cellA,cellB) pair that are the
	// only two candidates for value within the house to the cells that
	// value must then be excluded from elsewhere.
	pairExclusions map[int]map[[2]int][]int
}

// NewValueDependentHouseExclusion constructs the handler over a house's
// cells with a precomputed pair-keyed exclusion table.
func NewValueDependentHouseExclusion(id string, houseCells []int, numValues int, pairExclusions map[int]map[[2]int][]int) *ValueDependentHouseExclusion {
	return &ValueDependentHouseExclusion{id: id, houseCells: append([]int(nil), houseCells...), numValues: numValues, pairExclusions: pairExclusions}
}

func (h *ValueDependentHouseExclusion) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool {
	return true
}
func (h *ValueDependentHouseExclusion) PostInitialize(*Grid) {}
func (h *ValueDependentHouseExclusion) ExclusionCells() []int { return nil }
func (h *ValueDependentHouseExclusion) Priority() int         { return 80 }
func (h *ValueDependentHouseExclusion) CandidateFinders(*Grid, *Shape) []CandidateFinder {
	return nil
}
func (h *ValueDependentHouseExclusion) WatchedCells() []int { return h.houseCells }
func (h *ValueDependentHouseExclusion) ID() string          { return h.id }
func (h *ValueDependentHouseExclusion) Essential() bool     { return true }
func (h *ValueDependentHouseExclusion) DebugName() string   { return "ValueDependentHouseExclusion(" + h.id + ")" }

// EnforceConsistency finds, for each value, the cells of the house that
// still allow it; when exactly two remain and they match a precomputed
// pair, it prunes using that pair's exclusion list.
func (h *ValueDependentHouseExclusion) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	for v := 1; v <= h.numValues; v++ {
		vm := ValueMask(v)
		var holders []int
		for _, c := range h.houseCells {
			if grid.Cell(c)&vm != 0 {
				holders = append(holders, c)
				if len(holders) > 2 {
					break
				}
			}
		}
		if len(holders) != 2 {
			continue
		}
		key := [2]int{holders[0], holders[1]}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		table, ok := h.pairExclusions[v]
		if !ok {
			continue
		}
		excl, ok := table[key]
		if !ok {
			continue
		}
		for _, other := range excl {
			om := grid.Cell(other)
			if om&vm == 0 {
				continue
			}
			nm := om &^ vm
			if nm == 0 {
				return false
			}
			grid.SetCell(other, nm)
			acc.AddForCell(other)
		}
	}
	return true
}
