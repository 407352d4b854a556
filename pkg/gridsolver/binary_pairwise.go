package gridsolver

// BinaryPairwise enforces a symmetric predicate P over every pair of a
// cell list without the naive O(k²) pairwise loop: a
// left-to-right prefix sweep and a right-to-left suffix sweep each
// accumulate the intersection of per-cell support sets, so one full
// forward+backward pass is O(k). The sweep repeats to a fixed point.
type BinaryPairwise struct {
	id             string
	cells          []int
	numValues      int
	perValue       []Mask // perValue[y] = {x : predicate(x,y)}, 1-indexed
	isAllDifferent bool
	exclusions     *CellExclusions
}

// NewBinaryPairwise constructs the handler. predicate must be symmetric;
// passing isAllDifferent additionally engages the valid-combinations
// required-value reduction.
func NewBinaryPairwise(id string, cells []int, numValues int, predicate BinaryPredicate, isAllDifferent bool) *BinaryPairwise {
	bp := &BinaryPairwise{
		id:             id,
		cells:          append([]int(nil), cells...),
		numValues:      numValues,
		perValue:       make([]Mask, numValues+1),
		isAllDifferent: isAllDifferent,
	}
	for y := 1; y <= numValues; y++ {
		var m Mask
		for x := 1; x <= numValues; x++ {
			if predicate(x, y) {
				m |= ValueMask(x)
			}
		}
		bp.perValue[y] = m
	}
	return bp
}

// supportOf returns T[mask]: the union of supports for every value mask
// still allows.
func (bp *BinaryPairwise) supportOf(mask Mask) Mask {
	var t Mask
	for m := mask; m != 0; m = m.ClearLowest() {
		t |= bp.perValue[m.Lowest().Value()]
	}
	return t
}

func (bp *BinaryPairwise) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, _ *StateAllocator) bool {
	bp.exclusions = ce
	// A row of precomputed valid-combination info is only dropped when
	// its low 16 bits
	// (the reachable-values half) are zero, not on the negation of the
	// whole packed value — ValidCombinationInfo already splits reachable
	// and required into separate return values, so no such row exists
	// here to misapply the guard to.
	return true
}
func (bp *BinaryPairwise) PostInitialize(*Grid)                            {}
func (bp *BinaryPairwise) ExclusionCells() []int                          { return nil }
func (bp *BinaryPairwise) Priority() int                                  { return 65 }
func (bp *BinaryPairwise) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (bp *BinaryPairwise) WatchedCells() []int                            { return bp.cells }
func (bp *BinaryPairwise) ID() string                                     { return bp.id }
func (bp *BinaryPairwise) Essential() bool                                { return true }
func (bp *BinaryPairwise) DebugName() string                              { return "BinaryPairwise(" + bp.id + ")" }

// EnforceConsistency runs the prefix/suffix sweep to a fixed point, then
// (for all-different) the valid-combinations reduction.
func (bp *BinaryPairwise) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	n := len(bp.cells)
	full := FullMask(bp.numValues)

	for {
		changed := false

		prefix := full
		for i := 0; i < n; i++ {
			c := bp.cells[i]
			v := grid.Cell(c)
			nv := v & prefix
			if nv != v {
				if nv == 0 {
					return false
				}
				grid.SetCell(c, nv)
				acc.AddForCell(c)
				changed = true
				v = nv
			}
			prefix &= bp.supportOf(v)
		}

		suffix := full
		for i := n - 1; i >= 0; i-- {
			c := bp.cells[i]
			v := grid.Cell(c)
			nv := v & suffix
			if nv != v {
				if nv == 0 {
					return false
				}
				grid.SetCell(c, nv)
				acc.AddForCell(c)
				changed = true
				v = nv
			}
			suffix &= bp.supportOf(v)
		}

		if !changed {
			break
		}
	}

	if !bp.isAllDifferent {
		return true
	}
	return bp.reduceAllDifferent(grid, acc)
}

// reduceAllDifferent applies the valid-combinations table: prune every
// cell to values reachable in some valid k-subset; force any
// required value into the unique cell that can still hold it; and for
// any value present in only one cell's domain, verify it still belongs
// to some valid subset (covered here by the reachable prune itself).
func (bp *BinaryPairwise) reduceAllDifferent(grid *Grid, acc Accumulator) bool {
	var universe Mask
	for _, c := range bp.cells {
		universe |= grid.Cell(c)
	}
	reachable, required := ValidCombinationInfo(universe, len(bp.cells))

	for _, c := range bp.cells {
		v := grid.Cell(c)
		nv := v & reachable
		if nv != v {
			if nv == 0 {
				return false
			}
			grid.SetCell(c, nv)
			acc.AddForCell(c)
		}
	}

	for req := required; req != 0; req = req.ClearLowest() {
		v := req.Lowest()
		owner, count := -1, 0
		for _, c := range bp.cells {
			if grid.Cell(c)&v != 0 {
				owner, count = c, count+1
			}
		}
		if count == 0 {
			return false
		}
		if count == 1 && grid.Cell(owner) != v {
			grid.SetCell(owner, v)
			acc.AddForCell(owner)
		}
	}
	return true
}
