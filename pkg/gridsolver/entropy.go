package gridsolver

import "fmt"

// triadLabel maps a cell value (1-indexed) to one of three labels
// (0, 1, 2).
type triadLabel func(v int) int

// lowMidHighLabel splits {1..numValues} into three contiguous bands
// (LocalEntropy).
func lowMidHighLabel(numValues int) triadLabel {
	third := (numValues + 2) / 3
	return func(v int) int {
		switch {
		case v <= third:
			return 0
		case v <= 2*third:
			return 1
		default:
			return 2
		}
	}
}

// mod3Label groups values by residue mod 3 (LocalMod3).
func mod3Label(int) triadLabel {
	return func(v int) int { return (v - 1) % 3 }
}

// Entropy is the shared engine for LocalEntropy and LocalMod3: it
// squishes each cell's domain down to the 3-bit set of labels still
// reachable, runs House-style hidden-single reduction on that squished
// domain over a 3-cell group, then unsquishes the result back onto the
// original values.
type Entropy struct {
	id        string
	cells     []int // exactly 3 cells
	numValues int
	label     triadLabel
	byLabel   [3]Mask // byLabel[l] = mask of original values carrying label l
}

// NewLocalEntropy constructs a low/mid/high triad propagator.
func NewLocalEntropy(id string, cells []int, numValues int) (*Entropy, error) {
	return newEntropy(id, cells, numValues, lowMidHighLabel(numValues))
}

// NewLocalMod3 constructs a residue-mod-3 triad propagator.
func NewLocalMod3(id string, cells []int, numValues int) (*Entropy, error) {
	return newEntropy(id, cells, numValues, mod3Label(numValues))
}

func newEntropy(id string, cells []int, numValues int, label triadLabel) (*Entropy, error) {
	if len(cells) != 3 {
		return nil, fmt.Errorf("gridsolver: Entropy %q needs exactly 3 cells, got %d", id, len(cells))
	}
	e := &Entropy{id: id, cells: append([]int(nil), cells...), numValues: numValues, label: label}
	for v := 1; v <= numValues; v++ {
		e.byLabel[label(v)] |= ValueMask(v)
	}
	return e, nil
}

func (e *Entropy) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (e *Entropy) PostInitialize(*Grid)                                           {}
func (e *Entropy) ExclusionCells() []int                                          { return nil }
func (e *Entropy) Priority() int                                                  { return 52 }
func (e *Entropy) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (e *Entropy) WatchedCells() []int                                            { return e.cells }
func (e *Entropy) ID() string                                                      { return e.id }
func (e *Entropy) Essential() bool                                                { return true }
func (e *Entropy) DebugName() string                                              { return "Entropy(" + e.id + ")" }

func (e *Entropy) squish(m Mask) Mask {
	var s Mask
	for l := 0; l < 3; l++ {
		if m&e.byLabel[l] != 0 {
			s |= 1 << uint(l)
		}
	}
	return s
}

// EnforceConsistency runs the House hidden-singles sweep over the
// squished 3-label domain, then restricts each original cell's mask to
// the values whose label survived.
func (e *Entropy) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	const fullLabels = Mask(0b111)

	squished := make([]Mask, 3)
	var all, atLeastTwo, fixed Mask
	for i, c := range e.cells {
		squished[i] = e.squish(grid.Cell(c))
		atLeastTwo |= all & squished[i]
		all |= squished[i]
		if squished[i].IsFixed() {
			fixed |= squished[i]
		}
	}
	if all != fullLabels {
		return false
	}
	if fixed != fullLabels {
		hiddenSingles := all &^ atLeastTwo &^ fixed
		for hs := hiddenSingles; hs != 0; hs = hs.ClearLowest() {
			lbl := hs.Lowest()
			owner := -1
			for i := range e.cells {
				if squished[i]&lbl != 0 {
					if owner >= 0 {
						owner = -2
						break
					}
					owner = i
				}
			}
			if owner == -2 {
				return false
			}
			if owner >= 0 {
				squished[owner] = lbl
			}
		}
	}

	for i, c := range e.cells {
		v := grid.Cell(c)
		var allowed Mask
		for l := 0; l < 3; l++ {
			if squished[i]&(1<<uint(l)) != 0 {
				allowed |= e.byLabel[l]
			}
		}
		nv := v & allowed
		if nv == 0 {
			return false
		}
		if nv != v {
			grid.SetCell(c, nv)
			acc.AddForCell(c)
		}
	}
	return true
}
