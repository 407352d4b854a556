package gridsolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// assertMonotone captures a grid's cell masks before calling
// EnforceConsistency and asserts that every cell mask afterward is a
// subset of its prior value (the monotone-pruning property).
func assertMonotone(t *testing.T, grid *Grid, run func() bool) {
	t.Helper()
	before := make([]Mask, grid.Shape.NumCells)
	for c := range before {
		before[c] = grid.Cell(c)
	}
	run()
	for c, b := range before {
		require.Zero(t, grid.Cell(c)&^b, "cell %d gained bits not present before propagation", c)
	}
}

func TestHousePropagationIsMonotone(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	h, err := NewHouse("house:prop", []int{0, 1, 2, 3}, 4)
	require.NoError(t, err)
	grid.SetCell(1, FullMask(4)&^ValueMask(1))
	grid.SetCell(2, FullMask(4)&^ValueMask(1))
	grid.SetCell(3, FullMask(4)&^ValueMask(1))

	acc := NewHandlerAccumulator(NewHandlerSet())
	assertMonotone(t, grid, func() bool { return h.EnforceConsistency(grid, acc) })
}

func TestHousePropagationIsIdempotent(t *testing.T) {
	grid := newTestGrid(t, 4, 4)
	h, err := NewHouse("house:idem", []int{0, 1, 2, 3}, 4)
	require.NoError(t, err)
	grid.SetCell(1, FullMask(4)&^ValueMask(1))
	grid.SetCell(2, FullMask(4)&^ValueMask(1))
	grid.SetCell(3, FullMask(4)&^ValueMask(1))

	acc := NewHandlerAccumulator(NewHandlerSet())
	require.True(t, h.EnforceConsistency(grid, acc))
	after := grid.Clone()
	require.True(t, h.EnforceConsistency(grid, acc))
	require.True(t, grid.CellsEqual(after), "a second EnforceConsistency call changed an already fixed-point grid")
}

func TestDomainWipeoutReportsFalse(t *testing.T) {
	grid := newTestGrid(t, 3, 2)
	bc, err := NewBinaryConstraint("bin:wipeout", 0, 1, 3, func(a, b int) bool { return a != b }, true)
	require.NoError(t, err)
	ce := NewCellExclusions(grid.Shape, nil)
	bc.Initialize(grid, ce, grid.Shape, NewStateAllocator())
	grid.SetCell(0, ValueMask(2))
	grid.SetCell(1, ValueMask(2)) // already violates a!=b with no escape

	acc := NewHandlerAccumulator(NewHandlerSet())
	require.False(t, bc.EnforceConsistency(grid, acc))
}

func TestSumCageSoundnessAgainstBruteForce(t *testing.T) {
	// Every mask SumCombinations returns must actually sum to target.
	combos := SumCombinations(6, 3, 10)
	require.NotEmpty(t, combos)
	for _, m := range combos {
		sum, count := 0, 0
		for v := 1; v <= 6; v++ {
			if m&ValueMask(v) != 0 {
				sum += v
				count++
			}
		}
		require.Equal(t, 3, count)
		require.Equal(t, 10, sum)
	}
}
