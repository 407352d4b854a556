package gridsolver

import (
	"sync"

	"gonum.org/v1/gonum/stat/combin"
)

// Lookup tables are process-wide, keyed by (num_values, ...), computed on
// demand and memoized. They are read-only after first construction, so
// concurrent search workers can share them without locking beyond the
// memoization map itself.
//
// Enumeration of k-subsets of {1..num_values} is delegated to
// gonum.org/v1/gonum/stat/combin (the pack's reference numerical library,
// see SPEC_FULL.md §10) instead of hand-rolled recursive subset
// generation, since "enumerate all k-combinations of n items" is exactly
// what combin.Combinations provides.

var tablesMu sync.Mutex

type sumComboKey struct{ n, k, sum int }

var sumComboCache = map[sumComboKey][]Mask{}

// SumCombinations returns every mask representing a distinct k-value
// subset of {1..numValues} whose values sum to target. Used by Sum's
// single-exclusion-group reduction and its complement-set scan.
func SumCombinations(numValues, k, target int) []Mask {
	key := sumComboKey{numValues, k, target}
	tablesMu.Lock()
	if v, ok := sumComboCache[key]; ok {
		tablesMu.Unlock()
		return v
	}
	tablesMu.Unlock()

	var out []Mask
	if k >= 0 && k <= numValues {
		for _, combo := range combin.Combinations(numValues, k) {
			sum := 0
			var m Mask
			for _, idx := range combo {
				v := idx + 1
				sum += v
				m |= ValueMask(v)
			}
			if sum == target {
				out = append(out, m)
			}
		}
	}
	tablesMu.Lock()
	sumComboCache[key] = out
	tablesMu.Unlock()
	return out
}

type rangeKey struct{ n, k int }

var rangeCache = map[rangeKey][2]int{}

// KillerCageRange returns the achievable [min,max] sum of k distinct
// values drawn from {1..numValues}: min is the sum of the k smallest
// values, max the sum of the k largest.
func KillerCageRange(numValues, k int) (min, max int) {
	key := rangeKey{numValues, k}
	tablesMu.Lock()
	if v, ok := rangeCache[key]; ok {
		tablesMu.Unlock()
		return v[0], v[1]
	}
	tablesMu.Unlock()
	if k <= 0 {
		tablesMu.Lock()
		rangeCache[key] = [2]int{0, 0}
		tablesMu.Unlock()
		return 0, 0
	}
	for i := 1; i <= k; i++ {
		min += i
	}
	for i := numValues - k + 1; i <= numValues; i++ {
		max += i
	}
	tablesMu.Lock()
	rangeCache[key] = [2]int{min, max}
	tablesMu.Unlock()
	return min, max
}

type validComboKey struct {
	universe Mask
	k        int
}

var validComboCache = map[validComboKey][2]Mask{}

// ValidCombinationInfo answers, for k all-different cells whose masks OR
// together to universe: which values can appear in SOME valid k-subset of
// universe (reachable), and which values appear in EVERY valid k-subset
// (required). With no further restriction beyond "k distinct values drawn
// from universe", a value is reachable iff universe has at least k
// members, and a value is required only in the degenerate case
// popcount(universe) == k, where the unique k-subset is universe itself.
func ValidCombinationInfo(universe Mask, k int) (reachable, required Mask) {
	key := validComboKey{universe, k}
	tablesMu.Lock()
	if v, ok := validComboCache[key]; ok {
		tablesMu.Unlock()
		return v[0], v[1]
	}
	tablesMu.Unlock()

	n := universe.PopCount()
	if n >= k && k > 0 {
		reachable = universe
	}
	if n == k && k > 0 {
		required = universe
	}
	tablesMu.Lock()
	validComboCache[key] = [2]Mask{reachable, required}
	tablesMu.Unlock()
	return reachable, required
}

type sandwichKey struct{ n, sum, d int }

var sandwichCache = map[sandwichKey][]Mask{}

// SandwichCombinations returns every mask of exactly d interior values
// drawn from {2..numValues-1} (the sentinels 1 and numValues excluded)
// summing to target.
func SandwichCombinations(numValues, target, d int) []Mask {
	key := sandwichKey{numValues, target, d}
	tablesMu.Lock()
	if v, ok := sandwichCache[key]; ok {
		tablesMu.Unlock()
		return v
	}
	tablesMu.Unlock()

	interior := numValues - 2
	var out []Mask
	if d >= 0 && d <= interior {
		for _, combo := range combin.Combinations(interior, d) {
			sum, var_ := 0, Mask(0)
			for _, idx := range combo {
				v := idx + 2 // skip sentinel value 1
				sum += v
				var_ |= ValueMask(v)
			}
			if sum == target {
				out = append(out, var_)
			}
		}
	}
	tablesMu.Lock()
	sandwichCache[key] = out
	tablesMu.Unlock()
	return out
}

// SandwichDistanceRange returns the minimum and maximum gap distance d
// (number of interior cells + 1) for which some combination of d-1
// interior values sums to target.
func SandwichDistanceRange(numValues, target int) (dMin, dMax int) {
	dMin, dMax = -1, -1
	for d := 0; d <= numValues-2; d++ {
		if len(SandwichCombinations(numValues, target, d)) > 0 {
			if dMin == -1 {
				dMin = d + 1
			}
			dMax = d + 1
		}
	}
	return dMin, dMax
}
