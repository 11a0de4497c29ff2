package valueset

import (
	"math/big"
	"sort"
	"strings"

	"github.com/kolkov/vsa/internal/region"
)

// VS is a value set: a finite union of (region, SI) pairs sharing one
// width, interpreted as the union of each region's interval read as
// offsets within that region (original spec §3).
type VS struct {
	width uint32
	top   bool
	pairs map[region.Region]SI // absent top; never stores an SI.IsEmpty()
}

// TopVS returns the region-universal top value set of the given width.
func TopVS(width uint32) VS {
	return VS{width: width, top: true}
}

// EmptyVS returns the empty value set of the given width.
func EmptyVS(width uint32) VS {
	return VS{width: width, pairs: map[region.Region]SI{}}
}

// OfIntVS returns the singleton value set {(Global, v)}.
func OfIntVS(v int64, width uint32) VS {
	return VS{width: width, pairs: map[region.Region]SI{region.Global: OfInt(v, width)}}
}

// OfBigIntVS is OfIntVS for an arbitrary-precision value.
func OfBigIntVS(v *big.Int, width uint32) VS {
	return VS{width: width, pairs: map[region.Region]SI{region.Global: OfBigInt(v, width)}}
}

// OfRegionOffset returns the singleton value set placing a single
// concrete offset within a named region — used to seed a stack-pointer
// variable in its own region at offset 0 (original spec §4.6, init).
func OfRegionOffset(r region.Region, offset int64, width uint32) VS {
	return VS{width: width, pairs: map[region.Region]SI{r: OfInt(offset, width)}}
}

// Width returns the value set's bit width.
func (v VS) Width() uint32 { return v.width }

// IsTop reports whether v is the universal top.
func (v VS) IsTop() bool { return v.top }

// IsEmpty reports whether v denotes no values at all (not top, and no
// pairs).
func (v VS) IsEmpty() bool { return !v.top && len(v.pairs) == 0 }

// Pairs returns the (region, SI) pairs of v in a deterministic order. The
// caller must not mutate the returned SIs (they are immutable values, so
// this is safe by construction).
func (v VS) Pairs() []struct {
	Region region.Region
	SI     SI
} {
	out := make([]struct {
		Region region.Region
		SI     SI
	}, 0, len(v.pairs))
	keys := make([]region.Region, 0, len(v.pairs))
	for r := range v.pairs {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for _, r := range keys {
		out = append(out, struct {
			Region region.Region
			SI     SI
		}{r, v.pairs[r]})
	}
	return out
}

// SIIn returns the strided interval v assigns to region r: Top(width) if
// v is itself Top, EmptySI if r is absent (including when v is empty).
func (v VS) SIIn(r region.Region) SI {
	if v.top {
		return Top(v.width)
	}
	if si, ok := v.pairs[r]; ok {
		return si
	}
	return EmptySI(v.width)
}

func withPair(width uint32, r region.Region, si SI) VS {
	if si.IsEmpty() {
		return VS{width: width, pairs: map[region.Region]SI{}}
	}
	return VS{width: width, pairs: map[region.Region]SI{r: si}}
}

// Equal reports structural equality.
func (v VS) Equal(o VS) bool {
	if v.width != o.width {
		return false
	}
	if v.top || o.top {
		return v.top == o.top
	}
	if len(v.pairs) != len(o.pairs) {
		return false
	}
	for r, si := range v.pairs {
		osi, ok := o.pairs[r]
		if !ok || !si.Equal(osi) {
			return false
		}
	}
	return true
}

// Union computes the regionwise union: the interval for a region present
// in both sides is merged with SI.Union; a region present in only one
// side is carried through unchanged (unlike MemStore.union, a ValueSet
// has no "absence means top" convention — absence just means that region
// contributes nothing).
func (v VS) Union(o VS) VS {
	if v.width != o.width {
		return TopVS(v.width)
	}
	if v.top || o.top {
		return TopVS(v.width)
	}
	out := map[region.Region]SI{}
	for r, si := range v.pairs {
		out[r] = si
	}
	for r, si := range o.pairs {
		if existing, ok := out[r]; ok {
			out[r] = existing.Union(si)
		} else {
			out[r] = si
		}
	}
	return VS{width: v.width, pairs: out}
}

// Intersection computes the regionwise intersection: only regions present
// in both sides survive, merged with SI.Intersection.
func (v VS) Intersection(o VS) VS {
	if v.width != o.width {
		return EmptyVS(v.width)
	}
	if v.top {
		return o
	}
	if o.top {
		return v
	}
	out := map[region.Region]SI{}
	for r, si := range v.pairs {
		if osi, ok := o.pairs[r]; ok {
			merged := si.Intersection(osi)
			if !merged.IsEmpty() {
				out[r] = merged
			}
		}
	}
	return VS{width: v.width, pairs: out}
}

// Widen computes the regionwise widen: same region-matching discipline as
// Intersection, but merges with SI.Widen.
func (v VS) Widen(o VS) VS {
	if v.width != o.width {
		return TopVS(v.width)
	}
	if v.top {
		return v
	}
	if o.top {
		return o
	}
	out := map[region.Region]SI{}
	for r, si := range v.pairs {
		if osi, ok := o.pairs[r]; ok {
			out[r] = si.Widen(osi)
		}
	}
	return VS{width: v.width, pairs: out}
}

// BinOp applies a scalar/pointer binary operator across the cartesian
// product of v's and o's (region, SI) pairs, producing a result of
// resultWidth. Region combination follows the usual VSA pointer-
// arithmetic rules:
//
//   - global OP global            -> global, SI op SI
//   - pointer + global (either order) on Add -> same pointer region
//   - pointer - global on Sub      -> same pointer region
//   - pointer - pointer (same region) on Sub -> global (a byte offset)
//   - anything else                -> contributes nothing
//
// If no combination contributes a pair, the result is Top(resultWidth)
// (original spec's "unimplemented" / "any other form" degrades to top).
func (v VS) BinOp(op BinOp, o VS, resultWidth uint32) VS {
	if v.top || o.top {
		return TopVS(resultWidth)
	}
	out := map[region.Region]SI{}
	contribute := func(r region.Region, si SI) {
		if si.IsEmpty() {
			return
		}
		if existing, ok := out[r]; ok {
			out[r] = existing.Union(si)
		} else {
			out[r] = si
		}
	}
	for _, p := range v.Pairs() {
		for _, q := range o.Pairs() {
			switch {
			case p.Region.IsGlobal() && q.Region.IsGlobal():
				contribute(region.Global, BinOpSI(op, p.SI, q.SI, resultWidth))
			case !p.Region.IsGlobal() && q.Region.IsGlobal() && (op == Add || op == Sub):
				contribute(p.Region, BinOpSI(op, p.SI, q.SI, resultWidth))
			case p.Region.IsGlobal() && !q.Region.IsGlobal() && op == Add:
				contribute(q.Region, BinOpSI(op, q.SI, p.SI, resultWidth))
			case !p.Region.IsGlobal() && !q.Region.IsGlobal() && p.Region == q.Region && op == Sub:
				contribute(region.Global, BinOpSI(Sub, p.SI, q.SI, resultWidth))
			}
		}
	}
	if len(out) == 0 {
		return TopVS(resultWidth)
	}
	return VS{width: resultWidth, pairs: out}
}

// UnOp applies a unary operator regionwise: every region's interval,
// pointer regions included, is transformed with UnOpSI and keeps its
// region tag.
func (v VS) UnOp(op UnOp, resultWidth uint32) VS {
	if v.top {
		return TopVS(resultWidth)
	}
	out := map[region.Region]SI{}
	for _, p := range v.Pairs() {
		out[p.Region] = UnOpSI(op, p.SI, resultWidth)
	}
	if len(out) == 0 {
		return TopVS(resultWidth)
	}
	return VS{width: resultWidth, pairs: out}
}

// Cast applies a width-changing conversion regionwise.
func (v VS) Cast(kind CastKind, targetWidth uint32) VS {
	if v.top {
		return TopVS(targetWidth)
	}
	out := map[region.Region]SI{}
	for _, p := range v.Pairs() {
		out[p.Region] = CastSI(kind, p.SI, targetWidth)
	}
	if len(out) == 0 {
		return TopVS(targetWidth)
	}
	return VS{width: targetWidth, pairs: out}
}

// RemoveUpperBound relaxes every region's upper bound to the top of the
// width (used by the variable-to-variable edge refinement pattern,
// original spec §4.5 rule 3).
func (v VS) RemoveUpperBound() VS {
	if v.top {
		return v
	}
	out := map[region.Region]SI{}
	for r, si := range v.pairs {
		out[r] = si.RemoveUpperBound()
	}
	return VS{width: v.width, pairs: out}
}

// RemoveLowerBound is the dual of RemoveUpperBound.
func (v VS) RemoveLowerBound() VS {
	if v.top {
		return v
	}
	out := map[region.Region]SI{}
	for r, si := range v.pairs {
		out[r] = si.RemoveLowerBound()
	}
	return VS{width: v.width, pairs: out}
}

// SingleRegionTop reports whether v consists of exactly one region whose
// interval is the width-universal top — "all addresses in region r"
// (original spec §4.1 write case 2).
func (v VS) SingleRegionTop() (region.Region, bool) {
	if v.top || len(v.pairs) != 1 {
		return region.Region{}, false
	}
	for r, si := range v.pairs {
		return r, si.IsTop()
	}
	return region.Region{}, false
}

// SingleConcretePoint reports whether v is exactly one concrete address:
// one region, stride 0 (original spec §4.1 write case 3, "strong update").
func (v VS) SingleConcretePoint() (region.Region, *big.Int, bool) {
	if v.top || len(v.pairs) != 1 {
		return region.Region{}, nil, false
	}
	for r, si := range v.pairs {
		off, ok := singleton(si)
		return r, off, ok
	}
	return region.Region{}, nil, false
}

// Point is one concrete (region, offset) pair yielded by Points.
type Point struct {
	Region region.Region
	Offset *big.Int
}

// Points enumerates every concrete (region, offset) point in v. If v is
// Top, or the total point count exceeds limit, ok is false: the caller
// (MemStore) must collapse to Top rather than enumerate (original spec
// §5, "Bounded iteration over address sets").
func (v VS) Points(limit int) (points []Point, ok bool) {
	if v.top {
		return nil, false
	}
	var out []Point
	for _, p := range v.Pairs() {
		pts, pok := p.SI.Points(limit - len(out))
		if !pok {
			return nil, false
		}
		for _, off := range pts {
			out = append(out, Point{Region: p.Region, Offset: off})
		}
		if len(out) > limit {
			return nil, false
		}
	}
	return out, true
}

// BeloweqVS/BelowVS/AboveeqVS/AboveVS/signed variants build a Global-region
// value set from the matching SI constructor — the "vs_c" of original
// spec §4.5, built at the VS level because edge refinement intersects
// against a full VS, not a bare SI.
func BeloweqVS(k int64, width uint32) VS   { return withPair(width, region.Global, Beloweq(k, width)) }
func BelowVS(k int64, width uint32) VS     { return withPair(width, region.Global, Below(k, width)) }
func AboveeqVS(k int64, width uint32) VS   { return withPair(width, region.Global, Aboveeq(k, width)) }
func AboveVS(k int64, width uint32) VS     { return withPair(width, region.Global, Above(k, width)) }
func SBeloweqVS(k int64, width uint32) VS  { return withPair(width, region.Global, SBeloweq(k, width)) }
func SBelowVS(k int64, width uint32) VS    { return withPair(width, region.Global, SBelow(k, width)) }
func SAboveeqVS(k int64, width uint32) VS  { return withPair(width, region.Global, SAboveeq(k, width)) }
func SAboveVS(k int64, width uint32) VS    { return withPair(width, region.Global, SAbove(k, width)) }

// String renders a debug form, e.g. "{global:1[1,1], region(sp):0[0,0]}".
func (v VS) String() string {
	if v.top {
		return "T"
	}
	if len(v.pairs) == 0 {
		return "_|_"
	}
	var b strings.Builder
	b.WriteString("{")
	for i, p := range v.Pairs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Region.String())
		b.WriteString(":")
		b.WriteString(p.SI.String())
	}
	b.WriteString("}")
	return b.String()
}
