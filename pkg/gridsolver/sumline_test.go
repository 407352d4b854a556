package gridsolver

import "testing"

func TestSumLineForcesTheOnlyCompletingResidue(t *testing.T) {
	// cell0 fixed to 3; with modulus 5, only cell1=2 makes the line sum
	// (5) a multiple of 5.
	grid := newTestGrid(t, 5, 2)
	grid.SetCell(0, ValueMask(3))
	sl, err := NewSumLine("sumline:test", []int{0, 1}, 5, 5, false)
	if err != nil {
		t.Fatalf("NewSumLine: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !sl.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(1) != ValueMask(2) {
		t.Fatalf("cell 1 = %b, want forced to 2 (the only residue completing a multiple of 5)", grid.Cell(1))
	}
}

func TestSumLineRejectsWhenNoMultipleIsReachable(t *testing.T) {
	// A single-cell line with domain {1,2,3} and modulus 4: no value is a
	// multiple of 4.
	grid := newTestGrid(t, 3, 1)
	sl, err := NewSumLine("sumline:test", []int{0}, 4, 3, false)
	if err != nil {
		t.Fatalf("NewSumLine: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if sl.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction: no value in {1,2,3} is a multiple of 4")
	}
}
