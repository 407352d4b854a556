package gridsolver

import "testing"

func TestFullRankOrdersCluedEntriesByRank(t *testing.T) {
	// Two single-cell "entries" with ranks 1 and 2: entry 0 must end up
	// strictly less than entry 1.
	grid := newTestGrid(t, 4, 2)
	grid.SetCell(0, ValueMask(3)|ValueMask(4))
	// entry 1 keeps its full domain.

	fr, err := NewFullRank("rank:test", [][]int{{0}, {1}}, map[int]int{0: 1, 1: 2}, 4, false)
	if err != nil {
		t.Fatalf("NewFullRank: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !fr.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(0) != ValueMask(3) {
		t.Fatalf("entry 0 = %b, want forced to 3 (4 has no larger value left for entry 1)", grid.Cell(0))
	}
	if grid.Cell(1) != ValueMask(4) {
		t.Fatalf("entry 1 = %b, want forced to 4 (only value greater than entry 0's forced 3)", grid.Cell(1))
	}
}

func TestFullRankRejectsImpossibleOrder(t *testing.T) {
	// Two 2-digit entries sharing the same leading digit: the ordering
	// must be decided at the second digit, where low=5 > high=3 is
	// impossible to fix.
	grid := newTestGrid(t, 5, 4)
	grid.SetCell(0, ValueMask(2))
	grid.SetCell(1, ValueMask(5))
	grid.SetCell(2, ValueMask(2))
	grid.SetCell(3, ValueMask(3))
	fr, err := NewFullRank("rank:test", [][]int{{0, 1}, {2, 3}}, map[int]int{0: 1, 1: 2}, 5, false)
	if err != nil {
		t.Fatalf("NewFullRank: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if fr.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction: leading digits tie, second digit has low=5 > high=3")
	}
}
