package gridsolver

import "fmt"

// Lunchbox (a.k.a. Sandwich) enforces that the values strictly between
// the occurrences of the two sentinel values (1 and numValues) on a full
// house line sum to target (Between is the two-end version of the same
// idea).
type Lunchbox struct {
	id        string
	cells     []int
	target    int
	numValues int
}

// NewLunchbox constructs the handler over a full-house line.
func NewLunchbox(id string, cells []int, target, numValues int) (*Lunchbox, error) {
	if len(cells) != numValues {
		return nil, fmt.Errorf("gridsolver: Lunchbox %q has %d cells, want %d (num_values, a full house line)", id, len(cells), numValues)
	}
	return &Lunchbox{id: id, cells: append([]int(nil), cells...), target: target, numValues: numValues}, nil
}

func (l *Lunchbox) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (l *Lunchbox) PostInitialize(*Grid)                                           {}
func (l *Lunchbox) ExclusionCells() []int                                          { return nil }
func (l *Lunchbox) Priority() int                                                  { return 50 }
func (l *Lunchbox) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (l *Lunchbox) WatchedCells() []int                                            { return l.cells }
func (l *Lunchbox) ID() string                                                      { return l.id }
func (l *Lunchbox) Essential() bool                                                { return true }
func (l *Lunchbox) DebugName() string                                              { return "Lunchbox(" + l.id + ")" }

// EnforceConsistency runs a four-step sweep: locate the sentinels,
// bound the interior sum, then prune and detect forced values.
func (l *Lunchbox) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	n := len(l.cells)
	loV, hiV := ValueMask(1), ValueMask(l.numValues)

	masks := make([]Mask, n)
	sentinelCapable := 0
	for i, c := range l.cells {
		masks[i] = grid.Cell(c)
		if masks[i]&(loV|hiV) != 0 {
			sentinelCapable++
		}
	}
	if sentinelCapable < 2 {
		return false
	}

	// Step 2: both sentinels already located — a direct range check.
	loPos, hiPos := fixedSentinelPos(masks, loV), fixedSentinelPos(masks, hiV)
	if loPos >= 0 && hiPos >= 0 {
		lo, hi := loPos, hiPos
		if lo > hi {
			lo, hi = hi, lo
		}
		k := hi - lo - 1
		return len(SandwichCombinations(l.numValues, l.target, k)) > 0
	}

	// Step 3: iterate all feasible (first-sentinel, second-sentinel)
	// position pairs, accumulating the value sets each cell may still
	// hold across every feasible pair.
	valid := make([]Mask, n)
	feasibleAny := false

	tryPair := func(loPos, hiPos int) {
		if loPos == hiPos {
			return
		}
		if masks[loPos]&loV == 0 || masks[hiPos]&hiV == 0 {
			return
		}
		lo, hi := loPos, hiPos
		if lo > hi {
			lo, hi = hi, lo
		}
		k := hi - lo - 1
		combos := SandwichCombinations(l.numValues, l.target, k)
		if len(combos) == 0 {
			return
		}
		var innerUnion, innerMaskUnion Mask
		for p := lo + 1; p < hi; p++ {
			innerMaskUnion |= masks[p]
		}
		ok := false
		for _, combo := range combos {
			if combo&^innerMaskUnion == 0 {
				ok = true
				innerUnion |= combo
			}
		}
		if !ok {
			return
		}
		feasibleAny = true
		valid[loPos] |= loV
		valid[hiPos] |= hiV
		for p := 0; p < n; p++ {
			switch {
			case p == loPos || p == hiPos:
			case p > lo && p < hi:
				valid[p] |= masks[p] & innerUnion
			default:
				valid[p] |= masks[p] &^ (loV | hiV)
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			tryPair(i, j)
		}
	}
	if !feasibleAny {
		return false
	}

	// Step 4: clamp every cell to its accumulated valid mask.
	for i, c := range l.cells {
		nv := masks[i] & valid[i]
		if nv == 0 {
			return false
		}
		if nv != masks[i] {
			grid.SetCell(c, nv)
			acc.AddForCell(c)
		}
	}
	return true
}

func fixedSentinelPos(masks []Mask, sentinel Mask) int {
	for i, m := range masks {
		if m == sentinel {
			return i
		}
	}
	return -1
}
