package gridsolver

import "testing"

func TestBetweenPrunesMiddleToOpenRange(t *testing.T) {
	grid := newTestGrid(t, 5, 3)
	b, err := NewBetween("between:test", []int{0, 1, 2}, 5)
	if err != nil {
		t.Fatalf("NewBetween: %v", err)
	}
	ce := NewCellExclusions(grid.Shape, nil)
	if !b.Initialize(grid, ce, grid.Shape, NewStateAllocator()) {
		t.Fatalf("Initialize reported contradiction")
	}
	grid.SetCell(0, ValueMask(1))
	grid.SetCell(2, ValueMask(5))

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !b.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	want := ValueMask(2) | ValueMask(3) | ValueMask(4)
	if grid.Cell(1) != want {
		t.Fatalf("middle cell = %b, want %b", grid.Cell(1), want)
	}
}

func TestLockoutExcludesInsideRange(t *testing.T) {
	grid := newTestGrid(t, 6, 3)
	l, err := NewLockout("lockout:test", []int{0, 1, 2}, 6, 4)
	if err != nil {
		t.Fatalf("NewLockout: %v", err)
	}
	ce := NewCellExclusions(grid.Shape, nil)
	l.Initialize(grid, ce, grid.Shape, NewStateAllocator())
	grid.SetCell(0, ValueMask(1))
	grid.SetCell(2, ValueMask(5))

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !l.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(1)&(ValueMask(1)|ValueMask(2)|ValueMask(3)|ValueMask(4)|ValueMask(5)) != 0 {
		t.Fatalf("middle cell %b still allows a value inside the ends' span", grid.Cell(1))
	}
}
