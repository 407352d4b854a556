package gridsolver

import "testing"

func TestAllDifferentRejectsTooManyCells(t *testing.T) {
	if _, err := NewAllDifferent("ad:test", []int{0, 1, 2}, 2, EnforcerMode); err == nil {
		t.Fatalf("expected error for 3 cells over 2 values")
	}
}

func TestAllDifferentExclusionCellsModeIsANoOpHandler(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	a, err := NewAllDifferent("ad:test", []int{0, 1, 2, 3}, 4, ExclusionCellsMode)
	if err != nil {
		t.Fatalf("NewAllDifferent: %v", err)
	}
	grid.SetCell(0, ValueMask(1))
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !a.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(1) != FullMask(4) {
		t.Fatalf("cell 1 = %b, want untouched in ExclusionCellsMode", grid.Cell(1))
	}
	if got := a.ExclusionCells(); len(got) != 4 {
		t.Fatalf("ExclusionCells() = %v, want all 4 cells published", got)
	}
}

func TestAllDifferentEnforcerModeClearsFixedValueFromGroup(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	a, err := NewAllDifferent("ad:test", []int{0, 1, 2, 3}, 4, EnforcerMode)
	if err != nil {
		t.Fatalf("NewAllDifferent: %v", err)
	}
	grid.SetCell(0, ValueMask(1))
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !a.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	for _, c := range []int{1, 2, 3} {
		if grid.Cell(c)&ValueMask(1) != 0 {
			t.Fatalf("cell %d still allows value 1", c)
		}
	}
}

func TestAllDifferentEnforcerModeDetectsWipeout(t *testing.T) {
	grid := newTestGrid(t, 2, 2)
	a, err := NewAllDifferent("ad:test", []int{0, 1}, 2, EnforcerMode)
	if err != nil {
		t.Fatalf("NewAllDifferent: %v", err)
	}
	grid.SetCell(0, ValueMask(1))
	grid.SetCell(1, ValueMask(1))
	acc := NewHandlerAccumulator(NewHandlerSet())
	if a.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction when both cells pin the same value")
	}
}

func TestUniqueValueExclusionPrunesPrecomputedExclusions(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	u := NewUniqueValueExclusion(0)
	ce := NewCellExclusions(grid.Shape, [][]int{{0, 1, 2, 3}})
	if !u.Initialize(grid, ce, grid.Shape, nil) {
		t.Fatalf("Initialize reported failure")
	}
	grid.SetCell(0, ValueMask(2))
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !u.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	for _, c := range []int{1, 2, 3} {
		if grid.Cell(c)&ValueMask(2) != 0 {
			t.Fatalf("cell %d still allows value 2", c)
		}
	}
}

func TestValueDependentUniqueValueExclusionOnlyAppliesTableForFixedValue(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	byValue := map[int][]int{2: {1}}
	v := NewValueDependentUniqueValueExclusion(0, byValue)
	grid.SetCell(0, ValueMask(3))
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !v.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(1) != FullMask(4) {
		t.Fatalf("cell 1 = %b, want untouched since fixed value 3 has no table entry", grid.Cell(1))
	}

	grid2 := newTestGrid(t, 4, 4)
	grid2.SetCell(0, ValueMask(2))
	if !v.EnforceConsistency(grid2, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid2.Cell(1)&ValueMask(2) != 0 {
		t.Fatalf("cell 1 still allows value 2 after matching table entry fired")
	}
}

func TestValueDependentHouseExclusionFiresOnlyWhenExactlyTwoHoldersMatchThePair(t *testing.T) {
	// Cell 4 sits outside the house and is the cross-house exclusion target.
	grid := newTestGrid(t, 4, 5)
	pairExclusions := map[int]map[[2]int][]int{
		3: {{0, 1}: {4}},
	}
	h := NewValueDependentHouseExclusion("vdhe:test", []int{0, 1, 2, 3}, 4, pairExclusions)

	// Narrow so only cells 0 and 1 (within the house) can still hold value 3.
	grid.SetCell(2, FullMask(4)&^ValueMask(3))
	grid.SetCell(3, FullMask(4)&^ValueMask(3))

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !h.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(4)&ValueMask(3) != 0 {
		t.Fatalf("cell 4 still allows value 3 after pair-keyed exclusion fired")
	}
}
