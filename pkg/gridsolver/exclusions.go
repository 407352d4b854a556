package gridsolver

import "sort"

// CellExclusions is the derived mutual-exclusion index: for every cell,
// which other cells must differ from it. Built once from the
// declared all-different / house constraints and never mutated again
// during solving, so it is safe to share by reference across a search
// driver's branches.
type CellExclusions struct {
	shape *Shape
	// adjacency[c] is the sorted list of cells mutually exclusive with c.
	adjacency [][]int
	// set[c] mirrors adjacency[c] as a membership set, for O(1) pair tests.
	set []map[int]bool
}

// NewCellExclusions builds the index from a list of exclusion groups
// (each group a list of cells that are pairwise mutually exclusive, e.g.
// a house, a cage's exclusion group, or an AllDifferent's cell list).
func NewCellExclusions(shape *Shape, groups [][]int) *CellExclusions {
	ce := &CellExclusions{
		shape:     shape,
		adjacency: make([][]int, shape.NumCells),
		set:       make([]map[int]bool, shape.NumCells),
	}
	for c := range ce.set {
		ce.set[c] = map[int]bool{}
	}
	for _, g := range groups {
		for i, a := range g {
			for j, b := range g {
				if i == j || a == b {
					continue
				}
				if !ce.set[a][b] {
					ce.set[a][b] = true
					ce.adjacency[a] = append(ce.adjacency[a], b)
				}
			}
		}
	}
	for c := range ce.adjacency {
		sort.Ints(ce.adjacency[c])
	}
	return ce
}

// GetArray returns the sorted list of cells mutually exclusive with cell.
// Callers must not mutate the returned slice.
func (ce *CellExclusions) GetArray(cell int) []int { return ce.adjacency[cell] }

// IsMutuallyExclusive reports whether a and b must differ.
func (ce *CellExclusions) IsMutuallyExclusive(a, b int) bool {
	if a == b {
		return false
	}
	return ce.set[a][b]
}

// GetPairExclusions returns the cells mutually exclusive with BOTH cell1
// and cell2, keyed conceptually as cell1<<8|cell2 but exposed as a
// two-argument call
// since Go has no natural packed-int map key idiom here.
func (ce *CellExclusions) GetPairExclusions(cell1, cell2 int) []int {
	a := ce.adjacency[cell1]
	bset := ce.set[cell2]
	out := make([]int, 0, len(a))
	for _, c := range a {
		if c != cell2 && bset[c] {
			out = append(out, c)
		}
	}
	return out
}

// GetListExclusions returns the cells mutually exclusive with every cell
// in cells.
func (ce *CellExclusions) GetListExclusions(cells []int) []int {
	if len(cells) == 0 {
		return nil
	}
	counts := map[int]int{}
	for _, c := range cells {
		for _, x := range ce.adjacency[c] {
			counts[x]++
		}
	}
	out := make([]int, 0, len(counts))
	for x, n := range counts {
		if n == len(cells) {
			excluded := false
			for _, c := range cells {
				if x == c {
					excluded = true
					break
				}
			}
			if !excluded {
				out = append(out, x)
			}
		}
	}
	sort.Ints(out)
	return out
}

// AreMutuallyExclusive reports whether every pair within cells is
// mutually exclusive (a clique in the exclusion graph).
func (ce *CellExclusions) AreMutuallyExclusive(cells []int) bool {
	for i, a := range cells {
		for _, b := range cells[i+1:] {
			if !ce.IsMutuallyExclusive(a, b) {
				return false
			}
		}
	}
	return true
}
