package gridsolver

import "testing"

// fixValueHandler is a minimal test-only Handler that pins one cell to a
// specific value, used to build simple disjuncts for Or's tests.
type fixValueHandler struct {
	id    string
	cell  int
	value int
}

func (f *fixValueHandler) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (f *fixValueHandler) PostInitialize(*Grid)                                           {}
func (f *fixValueHandler) ExclusionCells() []int                                          { return nil }
func (f *fixValueHandler) Priority() int                                                  { return 10 }
func (f *fixValueHandler) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (f *fixValueHandler) WatchedCells() []int                                            { return []int{f.cell} }
func (f *fixValueHandler) ID() string                                                      { return f.id }
func (f *fixValueHandler) Essential() bool                                                { return true }
func (f *fixValueHandler) DebugName() string                                              { return "fixValueHandler(" + f.id + ")" }

func (f *fixValueHandler) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	v := grid.Cell(f.cell)
	want := ValueMask(f.value)
	nv := v & want
	if nv == 0 {
		return false
	}
	if nv != v {
		grid.SetCell(f.cell, nv)
		acc.AddForCell(f.cell)
	}
	return true
}

func TestOrMergesSurvivingDisjuncts(t *testing.T) {
	grid := newTestGrid(t, 4, 1)
	ce := NewCellExclusions(grid.Shape, nil)
	alloc := NewStateAllocator()

	or := NewOr("or:test", []Handler{
		&fixValueHandler{id: "d0", cell: 0, value: 1},
		&fixValueHandler{id: "d1", cell: 0, value: 2},
	}, 4)
	if !or.Initialize(grid, ce, grid.Shape, alloc) {
		t.Fatalf("Initialize reported contradiction")
	}
	g := NewGrid(grid.Shape, alloc.Size())
	copy(g.cells[grid.Shape.NumCells:], alloc.InitialValues())

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !or.EnforceConsistency(g, acc) {
		t.Fatalf("EnforceConsistency reported contradiction")
	}
	want := ValueMask(1) | ValueMask(2)
	if g.Cell(0) != want {
		t.Fatalf("merged cell = %b, want %b (union of both disjuncts)", g.Cell(0), want)
	}
}

func TestOrEliminatesFailingDisjunctAndGoesFinal(t *testing.T) {
	grid := newTestGrid(t, 4, 1)
	grid.SetCell(0, ValueMask(3))
	ce := NewCellExclusions(grid.Shape, nil)
	alloc := NewStateAllocator()

	or := NewOr("or:test", []Handler{
		&fixValueHandler{id: "d0", cell: 0, value: 1},
		&fixValueHandler{id: "d1", cell: 0, value: 3},
	}, 4)
	if !or.Initialize(grid, ce, grid.Shape, alloc) {
		t.Fatalf("Initialize reported contradiction")
	}
	g := NewGrid(grid.Shape, alloc.Size())
	copy(g.cells[0:grid.Shape.NumCells], grid.cells)
	copy(g.cells[grid.Shape.NumCells:], alloc.InitialValues())

	acc := NewHandlerAccumulator(NewHandlerSet())
	if !or.EnforceConsistency(g, acc) {
		t.Fatalf("EnforceConsistency reported contradiction on first pass")
	}
	if g.Cell(0) != ValueMask(3) {
		t.Fatalf("cell 0 = %b, want forced to 3 once the other disjunct is eliminated", g.Cell(0))
	}
	// A second pass should take the FINAL fast path and stay consistent.
	if !or.EnforceConsistency(g, acc) {
		t.Fatalf("EnforceConsistency reported contradiction on the FINAL-flag pass")
	}
}
