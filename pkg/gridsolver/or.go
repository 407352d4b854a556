package gridsolver

import "fmt"

// orFinalFlag marks the persistent control word as settled on a single
// surviving disjunct; the low bits then hold that disjunct's index
// instead of the disjunct count written at initialization (that count is
// not updated as disjuncts are eliminated).
const orFinalFlag = Mask(0x8000)

// Or is the disjunction of several handlers: at least one of its
// disjuncts must hold. Persistent bookkeeping (the control word and the
// live-disjunct bitset) lives in the grid's tail region rather than on
// the Or value itself, since the engine may snapshot/restore a Grid
// across search branches without the Or being reconstructed.
type Or struct {
	id         string
	disjuncts  []Handler
	enforcers  []*AllDifferent // exclusion-cell ENFORCER per disjunct, nil if none declared
	initDiffs  []map[int]Mask  // per surviving disjunct, the cells its own Initialize narrowed
	numValues  int
	controlOff int
	liveOff    int
	watched    []int
}

// NewOr constructs the handler over the given candidate disjuncts. Some
// may be dropped during Initialize if their own initialization detects
// UNSAT; NewOr itself performs no filtering.
func NewOr(id string, disjuncts []Handler, numValues int) *Or {
	return &Or{id: id, disjuncts: disjuncts, numValues: numValues}
}

// Initialize runs every disjunct's own Initialize on a scratch copy,
// drops any that report UNSAT, records the cell narrowings ("init
// diffs") each survivor made, and allocates the persistent control word
// plus live-disjunct bitset.
func (o *Or) Initialize(grid *Grid, ce *CellExclusions, shape *Shape, alloc *StateAllocator) bool {
	var survivors []Handler
	var enforcers []*AllDifferent
	var diffs []map[int]Mask
	watchSet := map[int]bool{}

	for i, d := range o.disjuncts {
		scratch := grid.Clone()
		if !d.Initialize(scratch, ce, shape, alloc) {
			continue
		}
		diff := map[int]Mask{}
		for c := 0; c < shape.NumCells; c++ {
			if scratch.Cell(c) != grid.Cell(c) {
				diff[c] = scratch.Cell(c)
				watchSet[c] = true
			}
		}
		var enf *AllDifferent
		if excl := d.ExclusionCells(); len(excl) > 0 {
			var err error
			enf, err = NewAllDifferent(fmt.Sprintf("%s:excl:%d", o.id, i), excl, o.numValues, EnforcerMode)
			if err != nil {
				continue
			}
		}
		for _, c := range d.WatchedCells() {
			watchSet[c] = true
		}
		survivors = append(survivors, d)
		enforcers = append(enforcers, enf)
		diffs = append(diffs, diff)
	}
	if len(survivors) == 0 {
		return false
	}

	o.disjuncts = survivors
	o.enforcers = enforcers
	o.initDiffs = diffs
	for c := range watchSet {
		o.watched = append(o.watched, c)
	}

	o.controlOff = alloc.Allocate([]Mask{Mask(len(survivors))})
	o.liveOff = alloc.Allocate([]Mask{FullMask(len(survivors))})
	return true
}

func (o *Or) PostInitialize(grid *Grid) {
	for _, d := range o.disjuncts {
		d.PostInitialize(grid)
	}
}
func (o *Or) ExclusionCells() []int                          { return nil }
func (o *Or) Priority() int                                  { return 80 }
func (o *Or) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (o *Or) WatchedCells() []int                            { return o.watched }
func (o *Or) ID() string                                     { return o.id }
func (o *Or) Essential() bool                                { return true }
func (o *Or) DebugName() string                              { return "Or(" + o.id + ")" }

func (o *Or) applyDiff(g *Grid, diff map[int]Mask) bool {
	for c, after := range diff {
		cur := g.Cell(c)
		nm := cur & after
		if nm == 0 {
			return false
		}
		if nm != cur {
			g.SetCell(c, nm)
		}
	}
	return true
}

// EnforceConsistency runs a trial-and-merge loop: if the FINAL flag is
// already set, a single disjunct remains and is delegated to directly;
// otherwise every still-live disjunct is tried on
// a scratch grid, failures clear its live bit, and successes get merged
// (by cell-wise OR) into a result grid that replaces the live grid at
// the end.
func (o *Or) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	control := grid.Tail(o.controlOff)
	if control&orFinalFlag != 0 {
		idx := int(control &^ orFinalFlag)
		d := o.disjuncts[idx]
		if !o.applyDiff(grid, o.initDiffs[idx]) {
			return false
		}
		if o.enforcers[idx] != nil && !o.enforcers[idx].EnforceConsistency(grid, acc) {
			return false
		}
		return d.EnforceConsistency(grid, acc)
	}

	live := grid.Tail(o.liveOff)
	if live == 0 {
		return false
	}

	numCells := grid.Shape.NumCells
	result := grid.Clone()
	for c := 0; c < numCells; c++ {
		result.cells[c] = 0
	}

	for i, d := range o.disjuncts {
		bit := Mask(1) << uint(i)
		if live&bit == 0 {
			continue
		}
		scratch := grid.Clone()
		ok := o.applyDiff(scratch, o.initDiffs[i])
		if ok {
			dummy := DummyAccumulator{}
			ok = d.EnforceConsistency(scratch, dummy)
			if ok && o.enforcers[i] != nil {
				ok = o.enforcers[i].EnforceConsistency(scratch, dummy)
			}
		}
		if !ok {
			live &^= bit
			continue
		}
		for c := 0; c < numCells; c++ {
			result.cells[c] |= scratch.cells[c]
		}
		for t := numCells; t < grid.Len(); t++ {
			grid.cells[t] = scratch.cells[t]
		}
	}

	if live != grid.Tail(o.liveOff) {
		grid.SetTail(o.liveOff, live)
	}
	if live == 0 {
		return false
	}
	if live.PopCount() == 1 {
		grid.SetTail(o.controlOff, orFinalFlag|Mask(live.MinValue()-1))
	}

	if result.cells[0] == 0 {
		return false
	}
	for c := 0; c < numCells; c++ {
		if result.cells[c] != grid.cells[c] {
			grid.cells[c] = result.cells[c]
			acc.AddForCell(c)
		}
	}
	return true
}
