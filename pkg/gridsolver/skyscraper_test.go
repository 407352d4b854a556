package gridsolver

import "testing"

func TestSkyscraperForcesTallestFirstWhenClueIsOne(t *testing.T) {
	// clue=1 means only the first building is visible, so it must be the
	// tallest and nothing else may equal numValues.
	grid := newTestGrid(t, 4, 4)
	sk, err := NewSkyscraper("sky:test", []int{0, 1, 2, 3}, 1, 4)
	if err != nil {
		t.Fatalf("NewSkyscraper: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !sk.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(0) != ValueMask(4) {
		t.Fatalf("first cell = %b, want forced to the tallest value 4", grid.Cell(0))
	}
	for _, c := range []int{1, 2, 3} {
		if grid.Cell(c)&ValueMask(4) != 0 {
			t.Fatalf("cell %d still allows the tallest value under clue=1", c)
		}
	}
}

func TestSkyscraperAllVisibleForcesIncreasingSequence(t *testing.T) {
	grid := newTestGrid(t, 3, 3)
	sk, err := NewSkyscraper("sky:test", []int{0, 1, 2}, 3, 3)
	if err != nil {
		t.Fatalf("NewSkyscraper: %v", err)
	}
	acc := NewHandlerAccumulator(NewHandlerSet())
	if !sk.EnforceConsistency(grid, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	if grid.Cell(0) != ValueMask(1) || grid.Cell(2) != ValueMask(3) {
		t.Fatalf("clue=numValues should force the strictly increasing sequence 1,2,3; got %b,%b,%b",
			grid.Cell(0), grid.Cell(1), grid.Cell(2))
	}
}
