package gridsolver

import "math/rand"

// PartitionExclusionGroups partitions cells into the minimal number of
// groups such that every cell within a group is mutually exclusive with
// every other cell in that group (a clique cover of the mutual-exclusion
// graph restricted to cells). Used by Sum to know
// which cells may legally repeat a value.
//
// Two greedy placement strategies are tried on the given cell order
// (first-available and max-intersection), first-available is also run
// from 4 randomly shuffled cell orders, and the run producing the highest
// sum-of-squares of group sizes
// is kept: concentrating cells into fewer, larger cliques is both a
// tighter clique cover and, since sum-of-squares is maximized by
// concentration for a fixed cell count, the natural scoring rule for it.
func PartitionExclusionGroups(cells []int, ce *CellExclusions) (groups [][]int, sumOfSquares int) {
	best := groupCandidate{}
	rng := rand.New(rand.NewSource(1))

	try := func(order []int, strategy func([][]int, int, *CellExclusions) int) {
		groups := placeGreedy(order, ce, strategy)
		ss := sumOfSquaresOf(groups)
		if ss > best.sumOfSquares || best.groups == nil {
			best = groupCandidate{groups: groups, sumOfSquares: ss}
		}
	}

	try(cells, firstAvailable)
	try(cells, maxIntersection)
	for i := 0; i < 4; i++ {
		shuffled := append([]int(nil), cells...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		try(shuffled, firstAvailable)
	}

	return best.groups, best.sumOfSquares
}

type groupCandidate struct {
	groups       [][]int
	sumOfSquares int
}

func sumOfSquaresOf(groups [][]int) int {
	ss := 0
	for _, g := range groups {
		ss += len(g) * len(g)
	}
	return ss
}

// placeGreedy walks order, placing each cell into the first group the
// strategy selects (or a new group if none fit).
func placeGreedy(order []int, ce *CellExclusions, strategy func(groups [][]int, cell int, ce *CellExclusions) int) [][]int {
	var groups [][]int
	for _, cell := range order {
		target := strategy(groups, cell, ce)
		if target == -1 {
			groups = append(groups, []int{cell})
		} else {
			groups[target] = append(groups[target], cell)
		}
	}
	return groups
}

func fitsGroup(group []int, cell int, ce *CellExclusions) bool {
	for _, c := range group {
		if !ce.IsMutuallyExclusive(cell, c) {
			return false
		}
	}
	return true
}

// firstAvailable returns the index of the first group cell fits into, or
// -1 if none do.
func firstAvailable(groups [][]int, cell int, ce *CellExclusions) int {
	for i, g := range groups {
		if fitsGroup(g, cell, ce) {
			return i
		}
	}
	return -1
}

// maxIntersection returns the index of the fitting group with the most
// members already mutually exclusive with cell (ties broken by first
// found), or -1 if none fit.
func maxIntersection(groups [][]int, cell int, ce *CellExclusions) int {
	best, bestScore := -1, -1
	for i, g := range groups {
		if !fitsGroup(g, cell, ce) {
			continue
		}
		score := 0
		for _, c := range g {
			if ce.IsMutuallyExclusive(cell, c) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// ExclusionGroupSumInfo computes, for a partition of groups (each of
// known size, using uniqueness within a group), the overall achievable
// [min,max] sum, returned together with the width of that range
// (max-min).
func ExclusionGroupSumInfo(groups [][]int, numValues int) (rangeSpan, min, max int) {
	for _, g := range groups {
		gmin, gmax := KillerCageRange(numValues, len(g))
		min += gmin
		max += gmax
	}
	return max - min, min, max
}
