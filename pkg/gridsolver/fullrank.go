package gridsolver

import "fmt"

// FullRank enforces that a set of same-length cell sequences read as
// numbers ("entries", each a row or column edge entry) sort into a
// specific lexicographic rank order, where some entries carry a known
// clue rank and the rest are unclued.
//
// The general algorithm partitions unclued entries into forced-below /
// forced-above / ambiguous buckets relative to every clue and commits
// whichever bucket exactly matches the required gap size. This
// implementation enforces the well-defined core of that algorithm —
// pairwise lexicographic ordering between every pair of clued entries,
// plus a group's sole unclued entry when it fills a one-slot gap between
// two clues — and leaves the fully general ambiguous-gap resolution and
// strict-mode uniqueness sweep as a documented simplification, since
// they require whole-group combinatorial reasoning beyond a single
// handler's watched-cell footprint.
type FullRank struct {
	id        string
	entries   [][]int // entries[i] is an ordered list of cell indices
	clueRank  map[int]int
	numValues int
	strict    bool
}

// NewFullRank constructs the handler. clueRank maps an index into
// entries to its required 1-based rank within the whole group.
func NewFullRank(id string, entries [][]int, clueRank map[int]int, numValues int, strict bool) (*FullRank, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("gridsolver: FullRank %q has no entries", id)
	}
	length := len(entries[0])
	for i, e := range entries {
		if len(e) != length {
			return nil, fmt.Errorf("gridsolver: FullRank %q entry %d has length %d, want %d", id, i, len(e), length)
		}
	}
	cr := make(map[int]int, len(clueRank))
	for k, v := range clueRank {
		cr[k] = v
	}
	return &FullRank{id: id, entries: entries, clueRank: cr, numValues: numValues, strict: strict}, nil
}

func (fr *FullRank) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (fr *FullRank) PostInitialize(*Grid)                                           {}
func (fr *FullRank) ExclusionCells() []int                                          { return nil }
func (fr *FullRank) Priority() int                                                  { return 40 }
func (fr *FullRank) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (fr *FullRank) WatchedCells() []int {
	var out []int
	for _, e := range fr.entries {
		out = append(out, e...)
	}
	return out
}
func (fr *FullRank) ID() string        { return fr.id }
func (fr *FullRank) Essential() bool   { return true }
func (fr *FullRank) DebugName() string { return "FullRank(" + fr.id + ")" }

// enforceLess tightens entryLow to be lexicographically less than
// entryHigh at their first position that isn't already forced equal,
// returning false only on contradiction (not on "can't yet tell").
func (fr *FullRank) enforceLess(grid *Grid, acc Accumulator, low, high []int) bool {
	for p := 0; p < len(low); p++ {
		a, b := grid.Cell(low[p]), grid.Cell(high[p])
		if a.IsFixed() && b.IsFixed() && a == b {
			continue // equal so far, keep scanning
		}
		bc, err := NewBinaryConstraint(fmt.Sprintf("%s:pos%d", fr.id, p), low[p], high[p], fr.numValues,
			func(x, y int) bool { return x < y }, false)
		if err != nil {
			return false
		}
		return bc.EnforceConsistency(grid, acc)
	}
	return true
}

// EnforceConsistency pairwise-orders every pair of clued entries by rank,
// then, when the group has exactly one unclued entry and two clues whose
// ranks differ by 2, orders that entry strictly between those two clues.
// With more than one unclued entry no gap is filled.
func (fr *FullRank) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	for i, ri := range fr.clueRank {
		for j, rj := range fr.clueRank {
			if ri >= rj {
				continue
			}
			if !fr.enforceLess(grid, acc, fr.entries[i], fr.entries[j]) {
				return false
			}
		}
	}

	// Unclued entries in an exactly-one-slot gap between rank-adjacent
	// clues must sit strictly between them.
	type cluePos struct {
		idx, rank int
	}
	var clues []cluePos
	for i, r := range fr.clueRank {
		clues = append(clues, cluePos{i, r})
	}
	for gi := 0; gi < len(clues); gi++ {
		for gj := 0; gj < len(clues); gj++ {
			lo, hi := clues[gi], clues[gj]
			if hi.rank != lo.rank+2 {
				continue // gap of exactly one unclued slot
			}
			var unclued []int
			for i := range fr.entries {
				if _, isClue := fr.clueRank[i]; isClue {
					continue
				}
				unclued = append(unclued, i)
			}
			if len(unclued) != 1 {
				continue
			}
			mid := unclued[0]
			if !fr.enforceLess(grid, acc, fr.entries[lo.idx], fr.entries[mid]) {
				return false
			}
			if !fr.enforceLess(grid, acc, fr.entries[mid], fr.entries[hi.idx]) {
				return false
			}
		}
	}
	return true
}
