package gridsolver

import "fmt"

// SumWithNegative is a cage allowing exactly one cell's value to count
// negatively toward the target. It reinterprets the negated cell's mask
// by bit-reversal so B = (numValues+1) - b, adjusts the target to
// S + numValues + 1, and delegates to an ordinary Sum. The negated
// cell's mask is always restored to its original orientation before
// returning, on both success and failure.
type SumWithNegative struct {
	id           string
	cells        []int
	negatedCell  int
	target       int
	numValues    int
	complement   []int
	groups       [][]int
}

// NewSumWithNegative constructs the handler. negatedCell must be one of
// cells.
func NewSumWithNegative(id string, cells []int, negatedCell, target, numValues int, complement []int) (*SumWithNegative, error) {
	found := false
	for _, c := range cells {
		if c == negatedCell {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("gridsolver: SumWithNegative %q: negated cell %d not in cell list", id, negatedCell)
	}
	return &SumWithNegative{
		id:          id,
		cells:       append([]int(nil), cells...),
		negatedCell: negatedCell,
		target:      target,
		numValues:   numValues,
		complement:  append([]int(nil), complement...),
	}, nil
}

func (s *SumWithNegative) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, _ *StateAllocator) bool {
	s.groups, _ = PartitionExclusionGroups(s.cells, ce)
	return true
}
func (s *SumWithNegative) PostInitialize(*Grid)                            {}
func (s *SumWithNegative) ExclusionCells() []int                          { return nil }
func (s *SumWithNegative) Priority() int                                  { return 60 }
func (s *SumWithNegative) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (s *SumWithNegative) WatchedCells() []int                            { return s.cells }
func (s *SumWithNegative) ID() string                                     { return s.id }
func (s *SumWithNegative) Essential() bool                                { return true }
func (s *SumWithNegative) DebugName() string                             { return "SumWithNegative(" + s.id + ")" }

// EnforceConsistency reverses the negated cell's mask, runs the
// equivalent plain Sum, then reverses it back regardless of outcome.
func (s *SumWithNegative) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	original := grid.Cell(s.negatedCell)
	grid.SetCell(s.negatedCell, original.ReverseBits(s.numValues))

	inner := &Sum{
		id:              s.id + ":negshadow",
		cells:           s.cells,
		target:          s.target + s.numValues + 1,
		numValues:       s.numValues,
		groups:          s.groups,
		complementCells: s.complement,
	}
	ok := inner.EnforceConsistency(grid, acc)

	// Restore orientation: whatever EnforceConsistency left in the
	// negated cell, reverse it back to the real value space.
	grid.SetCell(s.negatedCell, grid.Cell(s.negatedCell).ReverseBits(s.numValues))
	return ok
}
