package gridsolver

import "testing"

func TestBinaryConstraintNotEqual(t *testing.T) {
	grid := newTestGrid(t, 3, 2)
	bc, err := NewBinaryConstraint("bin:test", 0, 1, 3, func(a, b int) bool { return a != b }, true)
	if err != nil {
		t.Fatalf("NewBinaryConstraint: %v", err)
	}
	ce := NewCellExclusions(grid.Shape, nil)
	bc.Initialize(grid, ce, grid.Shape, NewStateAllocator())
	grid.SetCell(0, ValueMask(2))

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !bc.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(1)&ValueMask(2) != 0 {
		t.Fatalf("cell 1 still allows 2 after cell 0 fixed to 2: %b", grid.Cell(1))
	}
}

func TestNewBinaryConstraintRejectsMismatchedSymmetry(t *testing.T) {
	_, err := NewBinaryConstraint("bin:bad", 0, 1, 3, func(a, b int) bool { return a < b }, true)
	if err == nil {
		t.Fatalf("expected a structural error for a non-symmetric predicate declared symmetric")
	}
}

func TestBinaryPairwiseAllDifferentSweep(t *testing.T) {
	grid := newTestGrid(t, 3, 3)
	bp := NewBinaryPairwise("pair:test", []int{0, 1, 2}, 3, func(a, b int) bool { return a != b }, true)
	ce := NewCellExclusions(grid.Shape, [][]int{{0, 1, 2}})
	bp.Initialize(grid, ce, grid.Shape, NewStateAllocator())
	grid.SetCell(0, ValueMask(1))
	grid.SetCell(1, ValueMask(2))

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !bp.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(2) != ValueMask(3) {
		t.Fatalf("cell 2 = %b, want forced to 3", grid.Cell(2))
	}
}
