package gridsolver

import "math/bits"

// Mask is a bitmask over {1..NumValues}, bit (v-1) set meaning v is still
// possible. A zero Mask is a contradiction; a single set bit is a fixed
// value. NumValues is capped at 16, so a uint32 has ample headroom for any
// packed per-cell flags a handler's tail state might also carry.
type Mask uint32

// FullMask returns the mask with the low n bits set (all values possible).
func FullMask(n int) Mask {
	if n >= 32 {
		return ^Mask(0)
	}
	return Mask(1)<<uint(n) - 1
}

// ValueMask returns the singleton mask for value v (1-indexed).
func ValueMask(v int) Mask {
	return Mask(1) << uint(v-1)
}

// PopCount returns the number of possible values remaining in m.
func (m Mask) PopCount() int { return bits.OnesCount32(uint32(m)) }

// IsFixed reports whether m has exactly one bit set.
func (m Mask) IsFixed() bool { return m != 0 && m&(m-1) == 0 }

// Lowest isolates the lowest set bit: v & -v.
func (m Mask) Lowest() Mask { return m & Mask(-int32(m)) }

// ClearLowest clears the lowest set bit: v & (v-1).
func (m Mask) ClearLowest() Mask { return m & (m - 1) }

// Value returns the value encoded by a singleton mask (1-indexed). The
// result is unspecified if m is not a singleton.
func (m Mask) Value() int { return bits.TrailingZeros32(uint32(m)) + 1 }

// MinValue returns the smallest value still possible in m, or 0 if m == 0.
func (m Mask) MinValue() int {
	if m == 0 {
		return 0
	}
	return bits.TrailingZeros32(uint32(m)) + 1
}

// MaxValue returns the largest value still possible in m, or 0 if m == 0.
func (m Mask) MaxValue() int {
	if m == 0 {
		return 0
	}
	return 32 - bits.LeadingZeros32(uint32(m))
}

// ReverseBits reverses the low width bits of m, used by symmetric
// constraints and SumWithNegative's value-negation trick.
func (m Mask) ReverseBits(width int) Mask {
	return Mask(bits.Reverse32(uint32(m)) >> uint(32-width))
}

// ValueRangeExclusive returns the mask of values strictly between the
// minimum and maximum value present in m. Values at or outside [min,max]
// are cleared; every value strictly between them is set, whether or not m
// itself contains it.
func ValueRangeExclusive(m Mask, numValues int) Mask {
	if m == 0 {
		return 0
	}
	lo, hi := m.MinValue(), m.MaxValue()
	if hi-lo < 2 {
		return 0
	}
	full := FullMask(numValues)
	below := FullMask(lo) // bits 0..lo-1 -> values 1..lo
	atOrAbove := ^FullMask(hi - 1)
	return full &^ below &^ atOrAbove
}

// HasAtLeastTwo reports whether m has two or more set bits, computed
// branchlessly: m has a second bit iff ClearLowest() != 0.
func (m Mask) HasAtLeastTwo() bool { return m.ClearLowest() != 0 }
