package gridsolver

import "testing"

func newTestGrid(t *testing.T, numValues, numCells int) *Grid {
	t.Helper()
	shape, err := NewShape(numValues, numValues, numCells, nil)
	if err != nil {
		t.Fatalf("NewShape: %v", err)
	}
	return NewGrid(shape, 0)
}

func TestHouseHiddenSingle(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	h, err := NewHouse("house:test", []int{0, 1, 2, 3}, 4)
	if err != nil {
		t.Fatalf("NewHouse: %v", err)
	}
	// Only cell 0 can still hold value 1: every other cell has 1 excluded.
	grid.SetCell(1, FullMask(4)&^ValueMask(1))
	grid.SetCell(2, FullMask(4)&^ValueMask(1))
	grid.SetCell(3, FullMask(4)&^ValueMask(1))

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !h.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(0) != ValueMask(1) {
		t.Fatalf("cell 0 = %b, want hidden single 1", grid.Cell(0))
	}
}

func TestHouseRejectsCoverageGap(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	h, _ := NewHouse("house:test", []int{0, 1, 2, 3}, 4)
	// No cell can hold value 4 anymore: the house can never cover it.
	for _, c := range []int{0, 1, 2, 3} {
		grid.SetCell(c, FullMask(4)&^ValueMask(4))
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if h.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction when a value has no possible home")
	}
}

func TestHouseIdempotentOnSolvedGrid(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	h, _ := NewHouse("house:test", []int{0, 1, 2, 3}, 4)
	for i, c := range []int{0, 1, 2, 3} {
		grid.SetCell(c, ValueMask(i+1))
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	before := grid.Clone()
	if !h.EnforceConsistency(grid, acc) {
		t.Fatalf("unexpected contradiction on a fully solved house")
	}
	if !grid.CellsEqual(before) {
		t.Fatalf("EnforceConsistency mutated an already-solved house")
	}
}
