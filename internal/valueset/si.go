package valueset

import (
	"fmt"
	"math/big"
)

// SI is a strided interval: the set {low + k*stride | 0 <= k, low+k*stride
// <= high}, taken modulo 2^width. low and high are stored in their
// canonical unsigned bit pattern; low > high denotes a range that wraps
// through the top of the width (e.g. a signed "x <= 9" refinement on an
// 8-bit value wraps from 128 through 255 then 0 through 9).
//
// The zero SI is not meaningful on its own; use Top, EmptySI, or one of
// the constructors.
type SI struct {
	width  uint32
	stride *big.Int // >= 0; 0 means a single point (low == high)
	low    *big.Int // canonical unsigned, in [0, 2^width)
	high   *big.Int // canonical unsigned, in [0, 2^width)
	top    bool
	empty  bool
}

// Width returns the bit width of the interval.
func (s SI) Width() uint32 { return s.width }

// Top returns the top strided interval of the given width: every value is
// possible.
func Top(width uint32) SI {
	return SI{width: width, top: true}
}

// EmptySI returns the empty strided interval of the given width.
func EmptySI(width uint32) SI {
	return SI{width: width, empty: true}
}

// IsTop reports whether s is the universal top of its width.
func (s SI) IsTop() bool { return s.top }

// IsEmpty reports whether s denotes no values.
func (s SI) IsEmpty() bool { return s.empty }

// OfInt returns the singleton strided interval containing exactly v,
// reduced to the canonical bit pattern of the given width.
func OfInt(v int64, width uint32) SI {
	return OfBigInt(big.NewInt(v), width)
}

// OfBigInt is OfInt for an arbitrary-precision value.
func OfBigInt(v *big.Int, width uint32) SI {
	c := reduce(v, width)
	return SI{width: width, stride: big.NewInt(0), low: c, high: new(big.Int).Set(c)}
}

// ofRange builds a non-top, non-empty SI directly; canonicalizes the
// all-values-with-stride-<=1 case down to Top for a tidy representation.
func ofRange(width uint32, stride, low, high *big.Int) SI {
	if stride.Sign() <= 0 {
		stride = big.NewInt(0)
	}
	low = reduce(low, width)
	high = reduce(high, width)
	if stride.Cmp(big.NewInt(1)) <= 0 && low.Sign() == 0 && high.Cmp(mask(width)) == 0 {
		return Top(width)
	}
	return SI{width: width, stride: stride, low: low, high: high}
}

// span returns the number of steps between low and high (count-1),
// handling wraparound (low > high).
func (s SI) span() *big.Int {
	if s.low.Cmp(s.high) <= 0 {
		return new(big.Int).Sub(s.high, s.low)
	}
	// wraps: low .. max, then 0 .. high
	d := new(big.Int).Sub(modulus(s.width), s.low)
	d.Add(d, s.high)
	return d
}

// count returns the number of concrete elements in s (0 for empty/top is
// undefined; callers must check those first).
func (s SI) count() *big.Int {
	if s.stride.Sign() == 0 {
		return big.NewInt(1)
	}
	sp := s.span()
	n := new(big.Int).Div(sp, s.stride)
	return n.Add(n, big.NewInt(1))
}

// Equal reports structural equality.
func (s SI) Equal(o SI) bool {
	if s.width != o.width {
		return false
	}
	if s.top || o.top {
		return s.top == o.top
	}
	if s.empty || o.empty {
		return s.empty == o.empty
	}
	return s.stride.Cmp(o.stride) == 0 && s.low.Cmp(o.low) == 0 && s.high.Cmp(o.high) == 0
}

// Union computes the smallest strided interval enclosing both s and o
// (the classic SI-join: new stride is the gcd of both strides and the
// distance between their low bounds; new bounds are the min/max of the
// two). This matches, e.g., {1} union {5} = stride-4 interval [1,5].
func (s SI) Union(o SI) SI {
	if s.width != o.width {
		return Top(s.width)
	}
	if s.top || o.top {
		return Top(s.width)
	}
	if s.empty {
		return o
	}
	if o.empty {
		return s
	}
	if s.low.Cmp(s.high) > 0 || o.low.Cmp(o.high) > 0 {
		// One side already wraps; joining precisely is not attempted.
		return Top(s.width)
	}
	stride := gcdBig(gcdBig(s.stride, o.stride), new(big.Int).Sub(s.low, o.low))
	low := minBig(s.low, o.low)
	high := maxBig(s.high, o.high)
	return ofRange(s.width, stride, low, high)
}

// Intersection computes the overlap of s and o. Disjoint bounds give
// Empty. When strides match it computes the overlapping sub-interval
// aligned to s's phase. When strides differ, a singleton side lying in
// the overlap is returned as is; otherwise the result is the stride-1
// interval spanning the overlap (no CRT-style combination is attempted).
// If either side wraps, the result is s when both are equal and Top
// otherwise.
func (s SI) Intersection(o SI) SI {
	if s.width != o.width {
		return EmptySI(s.width)
	}
	if s.top {
		return o
	}
	if o.top {
		return s
	}
	if s.empty || o.empty {
		return EmptySI(s.width)
	}
	if s.low.Cmp(s.high) > 0 || o.low.Cmp(o.high) > 0 {
		// wraparound operand: fall back to equality-only precision
		if s.Equal(o) {
			return s
		}
		return Top(s.width)
	}
	lo := maxBig(s.low, o.low)
	hi := minBig(s.high, o.high)
	if lo.Cmp(hi) > 0 {
		return EmptySI(s.width)
	}
	if s.stride.Cmp(o.stride) == 0 {
		// Align lo to the common stride/phase if possible.
		if s.stride.Sign() > 0 {
			diff := new(big.Int).Sub(lo, s.low)
			rem := new(big.Int).Mod(diff, s.stride)
			if rem.Sign() != 0 {
				lo = new(big.Int).Add(lo, new(big.Int).Sub(s.stride, rem))
				if lo.Cmp(hi) > 0 {
					return EmptySI(s.width)
				}
			}
		}
		return ofRange(s.width, s.stride, lo, hi)
	}
	if s.stride.Sign() == 0 {
		if lo.Cmp(s.low) == 0 && hi.Cmp(s.low) == 0 {
			return s
		}
	}
	if o.stride.Sign() == 0 {
		if lo.Cmp(o.low) == 0 && hi.Cmp(o.low) == 0 {
			return o
		}
	}
	// Strides differ and neither is a singleton pin: conservative result.
	return ofRange(s.width, big.NewInt(1), lo, hi)
}

// Widen extrapolates from s (the old value) toward o (the new value) by
// jumping the growing bound straight to the extreme of the width, so that
// ascending chains in this lattice are finite.
func (s SI) Widen(o SI) SI {
	if s.width != o.width {
		return Top(s.width)
	}
	if s.top || o.top {
		return Top(s.width)
	}
	if s.empty {
		return o
	}
	if o.empty {
		return s
	}
	if s.Equal(o) {
		return s
	}
	stride := gcdBig(gcdBig(s.stride, o.stride), new(big.Int).Sub(s.low, o.low))
	low := s.low
	if o.low.Cmp(s.low) < 0 {
		low = big.NewInt(0)
	}
	high := s.high
	if o.high.Cmp(s.high) > 0 {
		high = mask(s.width)
	}
	return ofRange(s.width, stride, low, high)
}

// Points enumerates up to limit concrete values of s. If s would yield
// more than limit points, ok is false and the slice is nil.
func (s SI) Points(limit int) (points []*big.Int, ok bool) {
	if s.top {
		return nil, false
	}
	if s.empty {
		return nil, true
	}
	n := s.count()
	if !n.IsInt64() || n.Int64() > int64(limit) {
		return nil, false
	}
	cnt := int(n.Int64())
	out := make([]*big.Int, 0, cnt)
	cur := new(big.Int).Set(s.low)
	for i := 0; i < cnt; i++ {
		out = append(out, new(big.Int).Set(cur))
		cur = reduce(new(big.Int).Add(cur, s.stride), s.width)
	}
	return out, true
}

// RemoveUpperBound returns an SI identical to s but with the upper bound
// relaxed to the top of the width (stride dropped to 1, since the bound
// that gave the stride meaning is gone).
func (s SI) RemoveUpperBound() SI {
	if s.top || s.empty {
		return s
	}
	return ofRange(s.width, big.NewInt(1), s.low, mask(s.width))
}

// RemoveLowerBound is the dual of RemoveUpperBound.
func (s SI) RemoveLowerBound() SI {
	if s.top || s.empty {
		return s
	}
	return ofRange(s.width, big.NewInt(1), big.NewInt(0), s.high)
}

// String renders a debug form such as "4[1,9]" (stride 4, bounds [1,9]),
// "T:8" for top of width 8, or "_|_:8" for empty of width 8.
func (s SI) String() string {
	if s.top {
		return fmt.Sprintf("T:%d", s.width)
	}
	if s.empty {
		return fmt.Sprintf("_|_:%d", s.width)
	}
	return fmt.Sprintf("%s[%s,%s]", s.stride.String(), s.low.String(), s.high.String())
}
