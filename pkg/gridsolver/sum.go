package gridsolver

import "fmt"

// sumCellCap bounds how large a single cage can be before the
// combination-table approach becomes impractical; chosen generously
// relative to the 16-value alphabet cap since a cage can span several
// exclusion groups, and cages larger than this are rejected rather than
// handled by the lookup tables.
const sumCellCap = 64

// Sum is a killer cage: a set of cells whose values must sum to target,
// partitioned into exclusion groups (maximal within-group mutual
// distinctness) by PartitionExclusionGroups.
type Sum struct {
	id              string
	cells           []int
	target          int
	numValues       int
	groups          [][]int
	complementCells []int
}

// NewSum constructs a Sum cage. complementCells, if non-nil, names the
// other cells of a house containing the cage, enabling the paired
// combination-scan reduction in EnforceConsistency.
func NewSum(id string, cells []int, target, numValues int, complementCells []int) (*Sum, error) {
	if len(cells) > sumCellCap {
		return nil, fmt.Errorf("gridsolver: Sum %q has %d cells, exceeds cap %d", id, len(cells), sumCellCap)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("gridsolver: Sum %q has no cells", id)
	}
	return &Sum{
		id:              id,
		cells:           append([]int(nil), cells...),
		target:          target,
		numValues:       numValues,
		complementCells: append([]int(nil), complementCells...),
	}, nil
}

// Initialize partitions cells into exclusion groups using the engine's
// CellExclusions index.
func (s *Sum) Initialize(_ *Grid, ce *CellExclusions, _ *Shape, _ *StateAllocator) bool {
	s.groups, _ = PartitionExclusionGroups(s.cells, ce)
	return true
}

func (s *Sum) PostInitialize(*Grid)                               {}
func (s *Sum) ExclusionCells() []int                               { return nil }
func (s *Sum) Priority() int                                       { return 60 }
func (s *Sum) CandidateFinders(*Grid, *Shape) []CandidateFinder    { return nil }
func (s *Sum) WatchedCells() []int                                 { return s.cells }
func (s *Sum) ID() string                                          { return s.id }
func (s *Sum) Essential() bool                                     { return true }
func (s *Sum) DebugName() string                                   { return "Sum(" + s.id + ")" }

// hasComplementCells reports whether a complement set was declared. The
// boolean is returned explicitly rather than left as an unused
// expression.
func (s *Sum) hasComplementCells() bool { return len(s.complementCells) > 0 }

// EnforceConsistency runs a six-step sweep: bound the sum, reject if
// unreachable, and otherwise reduce by whichever group structure applies.
func (s *Sum) EnforceConsistency(grid *Grid, acc Accumulator) bool {
	minSum, maxSum, fixedSum, numUnfixed := 0, 0, 0, 0
	var fixedMask Mask
	for _, c := range s.cells {
		v := grid.Cell(c)
		if v == 0 {
			return false
		}
		if v.IsFixed() {
			val := v.Value()
			minSum += val
			maxSum += val
			fixedSum += val
			fixedMask |= v
		} else {
			minSum += v.MinValue()
			maxSum += v.MaxValue()
			numUnfixed++
		}
	}
	if s.target < minSum || maxSum < s.target {
		return false
	}
	if minSum == maxSum {
		return true
	}

	// Step 2: few-remaining fast path.
	if numUnfixed <= 3 {
		return s.solveFewRemaining(grid, acc, fixedSum)
	}

	// Step 3: narrow each cell's range from the slack at both ends. For an
	// unfixed cell c with its own [min,max] = [mn,mx], the rest of the
	// cage spans [minSum-mn, maxSum-mx], so c's value must lie in
	// [target-(maxSum-mx), target-(minSum-mn)] for some assignment of the
	// others to reach target exactly.
	if s.target-minSum < s.numValues || maxSum-s.target < s.numValues {
		for _, c := range s.cells {
			v := grid.Cell(c)
			if v.IsFixed() {
				continue
			}
			mn, mx := v.MinValue(), v.MaxValue()
			lo := s.target - (maxSum - mx)
			hi := s.target - (minSum - mn)
			nm := v
			if lo > 1 {
				nm &^= FullMask(lo - 1)
			}
			if hi < s.numValues {
				nm &^= ^FullMask(hi)
			}
			if nm != v {
				if nm == 0 {
					return false
				}
				grid.SetCell(c, nm)
				acc.AddForCell(c)
			}
		}
	}

	// Step 4: complement-set paired combination scan.
	if s.hasComplementCells() {
		if !s.applyComplement(grid, acc, fixedSum, fixedMask) {
			return false
		}
	}

	// Step 5/6: single vs multi exclusion-group reduction.
	if len(s.groups) <= 1 {
		return s.reduceSingleGroup(grid, acc, fixedSum, fixedMask, numUnfixed)
	}
	return s.reduceMultiGroup(grid, acc)
}

// solveFewRemaining brute-forces the <=3 unfixed cells exactly,
// respecting within-group distinctness, and unions the surviving
// per-cell value sets via direct enumeration, which is exact and cheap
// at this size (<=16^3 tuples).
func (s *Sum) solveFewRemaining(grid *Grid, acc Accumulator, fixedSum int) bool {
	var unfixed []int
	for _, c := range s.cells {
		if !grid.Cell(c).IsFixed() {
			unfixed = append(unfixed, c)
		}
	}
	groupOf := s.groupIndexLookup()
	remaining := s.target - fixedSum

	survivors := make([]Mask, len(unfixed))
	var rec func(i int, sum int, used map[int]Mask)
	rec = func(i int, sum int, used map[int]Mask) {
		if i == len(unfixed) {
			if sum == remaining {
				for k, c := range unfixed {
					survivors[k] |= grid.Cell(c) & ValueMask(valueFromAssignment(used, c))
				}
			}
			return
		}
		c := unfixed[i]
		g := groupOf[c]
		for m := grid.Cell(c); m != 0; m = m.ClearLowest() {
			v := m.Lowest()
			if used[g]&v != 0 {
				continue
			}
			nu := cloneUsed(used)
			nu[g] |= v
			nu[-1-c] = v // stash assignment for this cell, keyed distinctly
			rec(i+1, sum+v.Value(), nu)
		}
	}
	rec(0, 0, map[int]Mask{})

	ok := true
	for k, c := range unfixed {
		nm := survivors[k]
		if nm == 0 {
			ok = false
			continue
		}
		if nm != grid.Cell(c) {
			grid.SetCell(c, nm)
			acc.AddForCell(c)
		}
	}
	return ok
}

func cloneUsed(m map[int]Mask) map[int]Mask {
	out := make(map[int]Mask, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func valueFromAssignment(used map[int]Mask, cell int) int {
	return used[-1-cell].Value()
}

func (s *Sum) groupIndexLookup() map[int]int {
	out := map[int]int{}
	for gi, g := range s.groups {
		for _, c := range g {
			out[c] = gi
		}
	}
	return out
}

// reduceSingleGroup enumerates combinations of numUnfixed distinct values
// summing to target-fixedSum that are subsets of the unfixed cells' union
// mask, taking the union to prune forbidden values and the intersection
// to discover hidden singles.
func (s *Sum) reduceSingleGroup(grid *Grid, acc Accumulator, fixedSum int, fixedMask Mask, numUnfixed int) bool {
	if numUnfixed == 0 {
		return true
	}
	var unfixed []int
	var unionMask Mask
	for _, c := range s.cells {
		if !grid.Cell(c).IsFixed() {
			unfixed = append(unfixed, c)
			unionMask |= grid.Cell(c)
		}
	}
	combos := SumCombinations(s.numValues, numUnfixed, s.target-fixedSum)
	var validUnion, validIntersect Mask
	first := true
	for _, combo := range combos {
		if combo&fixedMask != 0 {
			continue // reuses an already-fixed value
		}
		if combo&^unionMask != 0 {
			continue // uses a value no unfixed cell can take
		}
		validUnion |= combo
		if first {
			validIntersect = combo
			first = false
		} else {
			validIntersect &= combo
		}
	}
	if first {
		return false // no valid combination
	}
	for _, c := range unfixed {
		nm := grid.Cell(c) & validUnion
		if nm == 0 {
			return false
		}
		if nm != grid.Cell(c) {
			grid.SetCell(c, nm)
			acc.AddForCell(c)
		}
	}
	// A value present in every valid combination is required somewhere
	// in the group; if only one unfixed cell can still hold it, that cell
	// must take it (a cage-level hidden single).
	for req := validIntersect; req != 0; req = req.ClearLowest() {
		v := req.Lowest()
		owner, count := -1, 0
		for _, c := range unfixed {
			if grid.Cell(c)&v != 0 {
				owner, count = c, count+1
			}
		}
		if count == 1 && grid.Cell(owner) != v {
			grid.SetCell(owner, v)
			acc.AddForCell(owner)
		}
	}
	return true
}

// reduceMultiGroup computes per-group reachable [min,max] sums (honoring
// within-group distinctness) and prunes each cell to what is reachable
// given the degrees of freedom at both ends.
func (s *Sum) reduceMultiGroup(grid *Grid, acc Accumulator) bool {
	for gi, g := range s.groups {
		var otherMin, otherMax int
		for gj, og := range s.groups {
			if gj == gi {
				continue
			}
			mn, mx := s.groupBounds(grid, og)
			otherMin += mn
			otherMax += mx
		}
		loAllow := s.target - otherMax
		hiAllow := s.target - otherMin
		for _, c := range g {
			v := grid.Cell(c)
			if v.IsFixed() {
				continue
			}
			otherFixed, otherUnfixedCount := 0, 0
			for _, c2 := range g {
				if c2 == c {
					continue
				}
				v2 := grid.Cell(c2)
				if v2.IsFixed() {
					otherFixed += v2.Value()
				} else {
					otherUnfixedCount++
				}
			}
			gmin, gmax := KillerCageRange(s.numValues, otherUnfixedCount)
			cellLo := loAllow - otherFixed - gmax
			cellHi := hiAllow - otherFixed - gmin
			nm := v
			if cellLo > 1 {
				nm &^= FullMask(cellLo - 1)
			}
			if cellHi < s.numValues {
				nm &^= ^FullMask(cellHi)
			}
			if nm != v {
				if nm == 0 {
					return false
				}
				grid.SetCell(c, nm)
				acc.AddForCell(c)
			}
		}
	}
	return true
}

func (s *Sum) groupBounds(grid *Grid, group []int) (min, max int) {
	fixedSum, unfixedCount := 0, 0
	for _, c := range group {
		v := grid.Cell(c)
		if v.IsFixed() {
			fixedSum += v.Value()
		} else {
			unfixedCount++
		}
	}
	gmin, gmax := KillerCageRange(s.numValues, unfixedCount)
	return fixedSum + gmin, fixedSum + gmax
}

// applyComplement narrows the complement cells via the combinations
// table. The complement cells fill out the rest of a house containing
// the cage, so they must collectively sum to the house's fixed total
// (1+...+numValues) minus target: each unfixed complement cell is
// restricted to the union of the valid combinations for that remainder.
// The cage's own cells are not narrowed here, and no hidden singles are
// derived for the complement.
func (s *Sum) applyComplement(grid *Grid, acc Accumulator, fixedSum int, fixedMask Mask) bool {
	houseTotal := s.numValues * (s.numValues + 1) / 2
	complementTarget := houseTotal - s.target

	complementFixedSum, complementUnfixed := 0, 0
	var complementFixedMask Mask
	for _, c := range s.complementCells {
		v := grid.Cell(c)
		if v.IsFixed() {
			complementFixedSum += v.Value()
			complementFixedMask |= v
		} else {
			complementUnfixed++
		}
	}
	if complementUnfixed == 0 {
		return complementFixedSum == complementTarget
	}

	var complementUnion Mask
	for _, c := range s.complementCells {
		if !grid.Cell(c).IsFixed() {
			complementUnion |= grid.Cell(c)
		}
	}
	combos := SumCombinations(s.numValues, complementUnfixed, complementTarget-complementFixedSum)
	var validUnion Mask
	for _, combo := range combos {
		if combo&complementFixedMask == 0 && combo&^complementUnion == 0 {
			validUnion |= combo
		}
	}
	if validUnion == 0 {
		return false
	}
	for _, c := range s.complementCells {
		v := grid.Cell(c)
		if v.IsFixed() {
			continue
		}
		nm := v & validUnion
		if nm == 0 {
			return false
		}
		if nm != v {
			grid.SetCell(c, nm)
			acc.AddForCell(c)
		}
	}
	return true
}
