package gridsolver

import "fmt"

// BinaryPredicate tests whether values a (cell A) and b (cell B) may
// coexist. Symmetric predicates (P(a,b) == P(b,a) for all a,b) enable the
// required-value detection in BinaryConstraint; asymmetric predicates are
// supported but skip that step.
type BinaryPredicate func(a, b int) bool

// BinaryConstraint enforces an arbitrary predicate between two cells by
// precomputing, for every possible mask of the other cell, the set of
// values this cell may still take.
type BinaryConstraint struct {
	id          string
	a, b        int
	numValues   int
	predicate   BinaryPredicate
	symmetric   bool
	tableAB     []Mask // tableAB[bMask] = union of a-values with some support in bMask
	tableBA     []Mask
	exclusions  *CellExclusions
}

// NewBinaryConstraint constructs the handler and its support tables.
// symmetric must accurately describe predicate; passing true for a
// non-symmetric predicate is a structural-misuse error.
func NewBinaryConstraint(id string, a, b, numValues int, predicate BinaryPredicate, symmetric bool) (*BinaryConstraint, error) {
	if symmetric {
		for x := 1; x <= numValues; x++ {
			for y := 1; y <= numValues; y++ {
				if predicate(x, y) != predicate(y, x) {
					return nil, fmt.Errorf("gridsolver: BinaryConstraint %q declared symmetric but predicate(%d,%d) != predicate(%d,%d)", id, x, y, y, x)
				}
			}
		}
	}
	bc := &BinaryConstraint{id: id, a: a, b: b, numValues: numValues, predicate: predicate, symmetric: symmetric}
	bc.buildTables()
	return bc, nil
}

func (bc *BinaryConstraint) buildTables() {
	size := 1 << uint(bc.numValues)
	bc.tableAB = make([]Mask, size)
	bc.tableBA = make([]Mask, size)
	// For every candidate mask of the *other* cell, union in every
	// value that has at least one supporting value present in that mask.
	for mask := 0; mask < size; mask++ {
		var aFor Mask
		var bFor Mask
		for x := 1; x <= bc.numValues; x++ {
			supportedByB := false
			for y := 1; y <= bc.numValues; y++ {
				if mask&(1<<uint(y-1)) != 0 && bc.predicate(x, y) {
					supportedByB = true
					break
				}
			}
			if supportedByB {
				aFor |= ValueMask(x)
			}
			supportedByA := false
			for y := 1; y <= bc.numValues; y++ {
				if mask&(1<<uint(y-1)) != 0 && bc.predicate(y, x) {
					supportedByA = true
					break
				}
			}
			if supportedByA {
				bFor |= ValueMask(x)
			}
		}
		bc.tableAB[mask] = aFor
		bc.tableBA[mask] = bFor
	}
}

func (bc *BinaryConstraint) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, _ *StateAllocator) bool {
	bc.exclusions = ce
	return true
}
func (bc *BinaryConstraint) PostInitialize(*Grid)                            {}
func (bc *BinaryConstraint) ExclusionCells() []int                          { return nil }
func (bc *BinaryConstraint) Priority() int                                  { return 70 }
func (bc *BinaryConstraint) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (bc *BinaryConstraint) WatchedCells() []int                            { return []int{bc.a, bc.b} }
func (bc *BinaryConstraint) ID() string                                     { return bc.id }
func (bc *BinaryConstraint) Essential() bool                                { return true }
func (bc *BinaryConstraint) DebugName() string                              { return "BinaryConstraint(" + bc.id + ")" }

// EnforceConsistency implements a←a∧T_ab[b]; b←b∧T_ba[a], then, for a
// predicate declared symmetric and once Initialize has supplied the
// CellExclusions index, detects any value the pair requires and clears it
// from their common exclusion cells. Asymmetric predicates skip that step
// whether or not they are transitive; transitivity is not examined.
func (bc *BinaryConstraint) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	av, bv := grid.Cell(bc.a), grid.Cell(bc.b)

	na := av & bc.tableAB[bv]
	if na != av {
		if na == 0 {
			return false
		}
		grid.SetCell(bc.a, na)
		acc.AddForCell(bc.a)
		av = na
	}
	nb := bv & bc.tableBA[av]
	if nb != bv {
		if nb == 0 {
			return false
		}
		grid.SetCell(bc.b, nb)
		acc.AddForCell(bc.b)
		bv = nb
	}

	if !bc.symmetric || bc.exclusions == nil {
		return true
	}
	// Required-value detection: for each value present in both cells, if
	// removing it from one cell would eliminate all of its supports in
	// the other, the value is required somewhere in their common
	// exclusion cells.
	shared := av & bv
	for m := shared; m != 0; m = m.ClearLowest() {
		v := m.Lowest()
		withoutInA := bc.tableBA[av&^v]
		withoutInB := bc.tableAB[bv&^v]
		required := (withoutInA&bv == 0) || (withoutInB&av == 0)
		if !required {
			continue
		}
		for _, c := range bc.exclusions.GetPairExclusions(bc.a, bc.b) {
			om := grid.Cell(c)
			if om&v == 0 {
				continue
			}
			nm := om &^ v
			if nm == 0 {
				return false
			}
			grid.SetCell(c, nm)
			acc.AddForCell(c)
		}
	}
	return true
}
