package gridsolver

import "testing"

func TestLunchboxDirectRangeCheck(t *testing.T) {
	// A 5-value line with sentinels already placed at the ends (1 and 5)
	// and three interior cells, which must hold 2, 3 and 4: target=9 is the
	// only achievable interior sum.
	grid := newTestGrid(t, 5, 5)
	grid.SetCell(0, ValueMask(1))
	grid.SetCell(4, ValueMask(5))
	for _, c := range []int{1, 2, 3} {
		grid.SetCell(c, FullMask(5)&^ValueMask(1)&^ValueMask(5))
	}
	lb, err := NewLunchbox("lunchbox:test", []int{0, 1, 2, 3, 4}, 9, 5)
	if err != nil {
		t.Fatalf("NewLunchbox: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !lb.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction for a reachable interior sum")
	}
}

func TestLunchboxRejectsUnreachableSum(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	grid.SetCell(0, ValueMask(1))
	grid.SetCell(3, ValueMask(4))
	lb, err := NewLunchbox("lunchbox:test", []int{0, 1, 2, 3}, 100, 4)
	if err != nil {
		t.Fatalf("NewLunchbox: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if lb.EnforceConsistency(grid, acc) {
		t.Fatalf("expected contradiction for an unreachable interior sum")
	}
}
