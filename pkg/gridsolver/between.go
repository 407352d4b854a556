package gridsolver

import "fmt"

// Between enforces that every middle cell's value lies strictly between
// the two end cells' values. The ends additionally must
// differ by at least groupSize+1, where groupSize is the largest
// exclusion group among the middles, since that many distinct values
// must fit strictly between them.
type Between struct {
	id        string
	ends      [2]int
	middles   []int
	numValues int
	minDiff   int
	binary    *BinaryConstraint
}

// NewBetween constructs a Between over line (ends at line[0] and
// line[len(line)-1], middles in between).
func NewBetween(id string, line []int, numValues int) (*Between, error) {
	if len(line) < 2 {
		return nil, fmt.Errorf("gridsolver: Between %q needs at least 2 cells", id)
	}
	b := &Between{
		id:        id,
		ends:      [2]int{line[0], line[len(line)-1]},
		middles:   append([]int(nil), line[1:len(line)-1]...),
		numValues: numValues,
		minDiff:   1,
	}
	return b, nil
}

func (b *Between) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, alloc *StateAllocator) bool {
	groupSize := 0
	if len(b.middles) > 0 {
		groups, _ := PartitionExclusionGroups(b.middles, ce)
		for _, g := range groups {
			if len(g) > groupSize {
				groupSize = len(g)
			}
		}
	}
	b.minDiff = groupSize + 1
	minDiff := b.minDiff
	bc, err := NewBinaryConstraint(b.id+":ends", b.ends[0], b.ends[1], b.numValues,
		func(a, bv int) bool { return absInt(a-bv) >= minDiff }, true)
	if err != nil {
		return false
	}
	b.binary = bc
	return b.binary.Initialize(nil, ce, nil, alloc)
}

func (b *Between) PostInitialize(*Grid)                            {}
func (b *Between) ExclusionCells() []int                          { return nil }
func (b *Between) Priority() int                                  { return 55 }
func (b *Between) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (b *Between) WatchedCells() []int {
	cells := append([]int{b.ends[0], b.ends[1]}, b.middles...)
	return cells
}
func (b *Between) ID() string        { return b.id }
func (b *Between) Essential() bool   { return true }
func (b *Between) DebugName() string { return "Between(" + b.id + ")" }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// EnforceConsistency runs the ends' binary constraint, masks every middle
// by the open value range between the ends, and once a middle is fixed,
// removes the closed value range of fixed middles from both ends.
func (b *Between) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	if !b.binary.EnforceConsistency(grid, acc) {
		return false
	}
	endsUnion := grid.Cell(b.ends[0]) | grid.Cell(b.ends[1])
	rangeMask := ValueRangeExclusive(endsUnion, b.numValues)

	var fixedMiddles Mask
	for _, c := range b.middles {
		v := grid.Cell(c)
		nv := v & rangeMask
		if nv != v {
			if nv == 0 {
				return false
			}
			grid.SetCell(c, nv)
			acc.AddForCell(c)
			v = nv
		}
		if v.IsFixed() {
			fixedMiddles |= v
		}
	}
	if fixedMiddles == 0 {
		return true
	}
	closedRange := closedSpan(fixedMiddles, b.numValues)
	for _, e := range b.ends {
		v := grid.Cell(e)
		nv := v &^ closedRange
		if nv != v {
			if nv == 0 {
				return false
			}
			grid.SetCell(e, nv)
			acc.AddForCell(e)
		}
	}
	return true
}

// closedSpan returns the mask of every value from min(m) to max(m)
// inclusive.
func closedSpan(m Mask, numValues int) Mask {
	if m == 0 {
		return 0
	}
	lo, hi := m.MinValue(), m.MaxValue()
	return FullMask(numValues) &^ FullMask(lo-1) &^ ^FullMask(hi)
}

// Lockout enforces that every middle cell's value lies OUTSIDE the
// closed interval spanned by the two ends, with a configurable minimum
// gap between the ends.
type Lockout struct {
	id        string
	ends      [2]int
	middles   []int
	numValues int
	minGap    int
	binary    *BinaryConstraint
}

// NewLockout constructs a Lockout over line with the given minimum gap
// between the two end values.
func NewLockout(id string, line []int, numValues, minGap int) (*Lockout, error) {
	if len(line) < 2 {
		return nil, fmt.Errorf("gridsolver: Lockout %q needs at least 2 cells", id)
	}
	return &Lockout{
		id:        id,
		ends:      [2]int{line[0], line[len(line)-1]},
		middles:   append([]int(nil), line[1:len(line)-1]...),
		numValues: numValues,
		minGap:    minGap,
	}, nil
}

func (l *Lockout) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, alloc *StateAllocator) bool {
	minGap := l.minGap
	bc, err := NewBinaryConstraint(l.id+":ends", l.ends[0], l.ends[1], l.numValues,
		func(a, b int) bool { return absInt(a-b) >= minGap }, true)
	if err != nil {
		return false
	}
	l.binary = bc
	return l.binary.Initialize(nil, ce, nil, alloc)
}

func (l *Lockout) PostInitialize(*Grid)                            {}
func (l *Lockout) ExclusionCells() []int                          { return nil }
func (l *Lockout) Priority() int                                  { return 55 }
func (l *Lockout) CandidateFinders(*Grid, *Shape) []CandidateFinder { return nil }
func (l *Lockout) WatchedCells() []int {
	return append([]int{l.ends[0], l.ends[1]}, l.middles...)
}
func (l *Lockout) ID() string        { return l.id }
func (l *Lockout) Essential() bool   { return true }
func (l *Lockout) DebugName() string { return "Lockout(" + l.id + ")" }

// EnforceConsistency mirrors Between but masks middles to the complement
// of the ends' closed interval.
func (l *Lockout) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	if !l.binary.EnforceConsistency(grid, acc) {
		return false
	}
	endsUnion := grid.Cell(l.ends[0]) | grid.Cell(l.ends[1])
	insideMask := ValueRangeExclusive(endsUnion, l.numValues)
	// Middles may be anything except strictly between the ends' extremes,
	// and except the extremes themselves if an end is fixed there.
	forbidden := insideMask
	if grid.Cell(l.ends[0]).IsFixed() {
		forbidden |= grid.Cell(l.ends[0])
	}
	if grid.Cell(l.ends[1]).IsFixed() {
		forbidden |= grid.Cell(l.ends[1])
	}
	for _, c := range l.middles {
		v := grid.Cell(c)
		nv := v &^ forbidden
		if nv != v {
			if nv == 0 {
				return false
			}
			grid.SetCell(c, nv)
			acc.AddForCell(c)
		}
	}
	return true
}
