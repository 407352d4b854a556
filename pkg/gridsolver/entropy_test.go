package gridsolver

import "testing"

func TestLocalEntropyHiddenSingleForcesLabel(t *testing.T) {
	// numValues=6: low={1,2}, mid={3,4}, high={5,6}. If two cells already
	// exclude the "high" label, the third must carry it.
	grid := newTestGrid(t, 6, 3)
	e, err := NewLocalEntropy("entropy:test", []int{0, 1, 2}, 6)
	if err != nil {
		t.Fatalf("NewLocalEntropy: %v", err)
	}
	low := ValueMask(1) | ValueMask(2)
	mid := ValueMask(3) | ValueMask(4)
	grid.SetCell(0, low)
	grid.SetCell(1, mid)
	// cell 2 keeps its full domain; only it can still carry the high label.

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !e.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	high := ValueMask(5) | ValueMask(6)
	if grid.Cell(2) != high {
		t.Fatalf("cell 2 = %b, want restricted to the high band %b", grid.Cell(2), high)
	}
}

func TestLocalEntropyRejectsMissingLabel(t *testing.T) {
	grid := newTestGrid(t, 6, 3)
	e, _ := NewLocalEntropy("entropy:test", []int{0, 1, 2}, 6)
	low := ValueMask(1) | ValueMask(2)
	mid := ValueMask(3) | ValueMask(4)
	// No cell can ever carry the high label.
	grid.SetCell(0, low)
	grid.SetCell(1, mid)
	grid.SetCell(2, low)

	acc := NewHandlerAccumulator(NewHandlerSet())
	if e.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction: no cell can carry the high label")
	}
}
