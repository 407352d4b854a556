package gridsolver

import "fmt"

// CountingCircles is a self-counting constraint: each cell in the group
// holds a count of how many of the group's cells hold that same count's
// value. For every candidate value v, the handler counts
// how many cells can still hold v, and how many mutually-exclusive groups
// those candidates span, to infer whether v is impossible as a count; it
// never infers that a count is forced.
type CountingCircles struct {
	id        string
	cells     []int
	numValues int
	exclusions *CellExclusions
}

// NewCountingCircles constructs the handler over cells.
func NewCountingCircles(id string, cells []int, numValues int) (*CountingCircles, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("gridsolver: CountingCircles %q has no cells", id)
	}
	return &CountingCircles{id: id, cells: append([]int(nil), cells...), numValues: numValues}, nil
}

func (cc *CountingCircles) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, _ *StateAllocator) bool {
	cc.exclusions = ce
	return true
}
func (cc *CountingCircles) PostInitialize(*Grid)                            {}
func (cc *CountingCircles) ExclusionCells() []int                          { return nil }
func (cc *CountingCircles) Priority() int                                  { return 47 }
func (cc *CountingCircles) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (cc *CountingCircles) WatchedCells() []int                            { return cc.cells }
func (cc *CountingCircles) ID() string                                     { return cc.id }
func (cc *CountingCircles) Essential() bool                                { return true }
func (cc *CountingCircles) DebugName() string                             { return "CountingCircles(" + cc.id + ")" }

// EnforceConsistency prunes each candidate count v: if fewer than v cells
// can possibly hold v, v is impossible anywhere in the group; if v is
// only reachable via a single exclusion group (so at most one cell can
// truly hold it simultaneously, since same-group cells are mutually
// exclusive), v is impossible as a count greater than 1 unless cells
// from distinct groups cover it.
func (cc *CountingCircles) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	groups, _ := PartitionExclusionGroups(cc.cells, cc.exclusions)
	groupOf := map[int]int{}
	for gi, g := range groups {
		for _, c := range g {
			groupOf[c] = gi
		}
	}

	for v := 1; v <= cc.numValues; v++ {
		vm := ValueMask(v)
		candidateCells := 0
		distinctGroups := map[int]bool{}
		fixedHolders := 0
		for _, c := range cc.cells {
			m := grid.Cell(c)
			if m&vm != 0 {
				candidateCells++
				distinctGroups[groupOf[c]] = true
			}
			if m == vm {
				fixedHolders++
			}
		}
		maxPossibleHolders := len(distinctGroups)
		if fixedHolders > 0 {
			// Already-fixed holders settle the achievable count exactly;
			// nothing further to prune for this value.
			continue
		}
		if maxPossibleHolders < v {
			// v cannot be achieved as a count: no cell may hold it.
			for _, c := range cc.cells {
				m := grid.Cell(c)
				if m&vm == 0 {
					continue
				}
				nm := m &^ vm
				if nm == 0 {
					return false
				}
				grid.SetCell(c, nm)
				acc.AddForCell(c)
			}
		}
	}
	return true
}
