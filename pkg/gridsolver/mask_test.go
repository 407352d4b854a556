package gridsolver

import "testing"

func TestFullMaskAndValueMask(t *testing.T) {
	if FullMask(4) != 0b1111 {
		t.Fatalf("FullMask(4) = %b, want 1111", FullMask(4))
	}
	if ValueMask(3) != 0b100 {
		t.Fatalf("ValueMask(3) = %b, want 100", ValueMask(3))
	}
}

func TestMaskBitTricks(t *testing.T) {
	m := ValueMask(2) | ValueMask(5)
	if m.PopCount() != 2 {
		t.Fatalf("PopCount = %d, want 2", m.PopCount())
	}
	if m.IsFixed() {
		t.Fatalf("two-bit mask reported fixed")
	}
	if m.Lowest() != ValueMask(2) {
		t.Fatalf("Lowest = %v, want ValueMask(2)", m.Lowest())
	}
	if m.ClearLowest() != ValueMask(5) {
		t.Fatalf("ClearLowest = %v, want ValueMask(5)", m.ClearLowest())
	}
	if m.MinValue() != 2 || m.MaxValue() != 5 {
		t.Fatalf("MinValue/MaxValue = %d/%d, want 2/5", m.MinValue(), m.MaxValue())
	}
	single := ValueMask(7)
	if !single.IsFixed() || single.Value() != 7 {
		t.Fatalf("singleton mask not reported fixed at 7")
	}
}

func TestReverseBitsRoundTrips(t *testing.T) {
	m := ValueMask(1) | ValueMask(9)
	r := m.ReverseBits(9)
	back := r.ReverseBits(9)
	if back != m {
		t.Fatalf("ReverseBits round trip failed: got %b, want %b", back, m)
	}
}

func TestValueRangeExclusive(t *testing.T) {
	m := ValueMask(2) | ValueMask(7)
	r := ValueRangeExclusive(m, 9)
	want := FullMask(9) &^ FullMask(2) &^ (^FullMask(6))
	if r != want {
		t.Fatalf("ValueRangeExclusive = %b, want %b", r, want)
	}
	adjacent := ValueMask(3) | ValueMask(4)
	if ValueRangeExclusive(adjacent, 9) != 0 {
		t.Fatalf("adjacent values should have an empty exclusive range")
	}
}
