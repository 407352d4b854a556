package gridsolver

import "testing"

func TestSumCageExactPrunesToCombination(t *testing.T) {
	// A 2-cell cage in a 1..5 alphabet summing to 9 can only be {4,5}.
	grid := newTestGrid(t, 5, 2)
	s, err := NewSum("cage:test", []int{0, 1}, 9, 5, nil)
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	ce := NewCellExclusions(grid.Shape, [][]int{{0, 1}})
	if !s.Initialize(grid, ce, grid.Shape, NewStateAllocator()) {
		t.Fatalf("Initialize reported contradiction")
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !s.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	want := ValueMask(4) | ValueMask(5)
	if grid.Cell(0) != want || grid.Cell(1) != want {
		t.Fatalf("cage cells = %b/%b, want both restricted to %b", grid.Cell(0), grid.Cell(1), want)
	}
}

func TestSumCageUnreachableTargetFails(t *testing.T) {
	grid := newTestGrid(t, 3, 2)
	s, err := NewSum("cage:test", []int{0, 1}, 20, 3, nil)
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	ce := NewCellExclusions(grid.Shape, [][]int{{0, 1}})
	s.Initialize(grid, ce, grid.Shape, NewStateAllocator())
	acc := NewHandlerAccumulator(NewHandlerSet())
	if s.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction: target 20 unreachable by two cells in 1..3")
	}
}

func TestSumWithNegativeRoundTripsOnFailure(t *testing.T) {
	grid := newTestGrid(t, 4, 2)
	grid.SetCell(0, ValueMask(1))
	sn, err := NewSumWithNegative("cage:neg", []int{0, 1}, 0, 100, 4, nil)
	if err != nil {
		t.Fatalf("NewSumWithNegative: %v", err)
	}
	ce := NewCellExclusions(grid.Shape, [][]int{{0, 1}})
	sn.Initialize(grid, ce, grid.Shape, NewStateAllocator())
	before := grid.Cell(0)
	acc := NewHandlerAccumulator(NewHandlerSet())
	if sn.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction for an unreachable target")
	}
	if grid.Cell(0) != before {
		t.Fatalf("negated cell mask was not restored after failure: got %b, want %b", grid.Cell(0), before)
	}
}
