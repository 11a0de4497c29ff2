// Package memstore implements MemStore, the abstract heap: a persistent,
// sparse map from (region, offset) to a value set (original spec §4.1).
//
// MemStore mirrors the teacher's internal/race/shadowmem package — a
// concurrent address → VarState map — generalized from "concurrent shadow
// cell per address" to "persistent value set per (region, offset)", and
// from sync.Map to a plain Go map with copy-on-write, because this
// analysis is single-threaded and its lattice elements must support pure
// functional update (original spec §3, "Lifecycle").
package memstore

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/kolkov/vsa/internal/region"
	"github.com/kolkov/vsa/internal/valueset"
)

// DefaultMemMax is the default bound on the number of concrete addresses
// any single operation will enumerate before collapsing to top (original
// spec §5, "mem_max ... default 2^16").
const DefaultMemMax = 1 << 16

type entry struct {
	offset *big.Int
	width  uint32
	value  valueset.VS
}

type regionMap = map[string]entry

// MemStore is a persistent mapping region -> offset -> value set. The
// zero value is ⊤ (every address reads top) and is ready to use;
// absence of an entry for (r, i) means unknown, per original spec §3.
type MemStore struct {
	regions *map[region.Region]regionMap
}

// New returns the top MemStore (no materialized entries).
func New() MemStore {
	m := map[region.Region]regionMap{}
	return MemStore{regions: &m}
}

func (m MemStore) regionsMap() map[region.Region]regionMap {
	if m.regions == nil {
		empty := map[region.Region]regionMap{}
		return empty
	}
	return *m.regions
}

func key(offset *big.Int) string { return offset.String() }

// Equal reports whether m and o denote identical maps. A reference-
// identity fast path (original spec §9, "the ==-fast-path optimization…
// is load-bearing for performance, not correctness") short-circuits when
// both stores share their underlying map (e.g. after a no-op write).
func (m MemStore) Equal(o MemStore) bool {
	if m.regions == o.regions {
		return true
	}
	mr, or := m.regionsMap(), o.regionsMap()
	if len(mr) != len(or) {
		return false
	}
	for r, slots := range mr {
		oslots, ok := or[r]
		if !ok || len(slots) != len(oslots) {
			return false
		}
		for k, e := range slots {
			oe, ok := oslots[k]
			if !ok || e.width != oe.width || !e.value.Equal(oe.value) {
				return false
			}
		}
	}
	return true
}

// withRegion returns a new MemStore sharing every region map except r,
// which is replaced by slots.
func (m MemStore) withRegion(r region.Region, slots regionMap) MemStore {
	old := m.regionsMap()
	next := make(map[region.Region]regionMap, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	if slots == nil || len(slots) == 0 {
		delete(next, r)
	} else {
		next[r] = slots
	}
	return MemStore{regions: &next}
}

func cloneRegion(slots regionMap) regionMap {
	next := make(regionMap, len(slots)+1)
	for k, v := range slots {
		next[k] = v
	}
	return next
}

// ---- read ----

// Read returns the value set of width k stored at addr_vs (original spec
// §4.1, "read"). memMax bounds how many concrete addresses are
// enumerated before collapsing to top.
func (m MemStore) Read(k uint32, addrVS valueset.VS, memMax int) valueset.VS {
	if addrVS.IsEmpty() {
		return valueset.EmptyVS(k)
	}
	points, ok := addrVS.Points(memMax)
	if !ok {
		return valueset.TopVS(k)
	}
	result := valueset.EmptyVS(k)
	for _, p := range points {
		one := m.readOne(k, p.Region, p.Offset)
		if one.IsTop() {
			return valueset.TopVS(k)
		}
		result = result.Union(one)
	}
	return result
}

// readOne reads width k at the single concrete address (r, offset),
// recursing to assemble a wide read from narrower writes little-endian
// (original spec §4.1, "read", and §9 on endianness).
func (m MemStore) readOne(k uint32, r region.Region, offset *big.Int) valueset.VS {
	slots, ok := m.regionsMap()[r]
	if !ok {
		return valueset.TopVS(k)
	}
	e, ok := slots[key(offset)]
	if !ok {
		return valueset.TopVS(k)
	}
	switch {
	case e.width == k:
		return e.value
	case e.width > k:
		return valueset.TopVS(k)
	default:
		nextOffset := new(big.Int).Add(offset, big.NewInt(int64(e.width/8)))
		high := m.readOne(k-e.width, r, nextOffset)
		return concatLE(e.value, e.width, high, k-e.width, k)
	}
}

// concatLE concatenates a low part (width loWidth, lower address) with a
// high part (width hiWidth, higher address) into a totalWidth value,
// little-endian. Precise only when both parts are concrete Global
// scalars; otherwise degrades to top, per the conservative-arithmetic
// policy documented on internal/valueset.
func concatLE(lo valueset.VS, loWidth uint32, hi valueset.VS, hiWidth uint32, total uint32) valueset.VS {
	if lo.IsTop() || hi.IsTop() {
		return valueset.TopVS(total)
	}
	loSI := lo.SIIn(region.Global)
	hiSI := hi.SIIn(region.Global)
	loVal, loOK := concreteValue(loSI)
	hiVal, hiOK := concreteValue(hiSI)
	if !loOK || !hiOK {
		return valueset.TopVS(total)
	}
	combined := new(big.Int).Lsh(hiVal, uint(loWidth))
	combined.Or(combined, loVal)
	return valueset.OfBigIntVS(combined, total)
}

func concreteValue(si valueset.SI) (*big.Int, bool) {
	pts, ok := si.Points(1)
	if !ok || len(pts) != 1 {
		return nil, false
	}
	return pts[0], true
}

// ---- write ----

// Write returns the MemStore resulting from writing valueVS (width k) to
// addrVS (original spec §4.1, "write").
func (m MemStore) Write(k uint32, addrVS, valueVS valueset.VS, memMax int) MemStore {
	if addrVS.IsTop() {
		if valueVS.IsTop() {
			return New()
		}
		if m.entryCount() >= memMax {
			return New()
		}
		return m.weakWriteEverywhere(k, valueVS)
	}
	if r, ok := addrVS.SingleRegionTop(); ok {
		return m.withRegion(r, nil)
	}
	if r, offset, ok := addrVS.SingleConcretePoint(); ok {
		return m.strongWrite(k, r, offset, valueVS)
	}
	points, ok := addrVS.Points(memMax)
	if !ok {
		return New()
	}
	return m.weakWritePoints(k, points, valueVS, memMax)
}

func (m MemStore) entryCount() int {
	n := 0
	for _, slots := range m.regionsMap() {
		n += len(slots)
	}
	return n
}

func (m MemStore) strongWrite(k uint32, r region.Region, offset *big.Int, valueVS valueset.VS) MemStore {
	slots := m.regionsMap()[r]
	kk := key(offset)
	if valueVS.IsTop() {
		if _, ok := slots[kk]; !ok {
			return m
		}
		next := cloneRegion(slots)
		delete(next, kk)
		return m.withRegion(r, next)
	}
	if existing, ok := slots[kk]; ok && existing.width == k && existing.value.Equal(valueVS) {
		return m // preserve structural sharing (original spec §9)
	}
	next := cloneRegion(slots)
	next[kk] = entry{offset: offset, width: k, value: valueVS}
	return m.withRegion(r, next)
}

func (m MemStore) weakWritePoints(k uint32, points []valueset.Point, valueVS valueset.VS, memMax int) MemStore {
	touched := map[region.Region]bool{}
	cur := m
	for _, p := range points {
		cur = cur.weakWriteOne(k, p.Region, p.Offset, valueVS)
		touched[p.Region] = true
	}
	for r := range touched {
		cur = cur.widenRegion(r, memMax)
	}
	return cur
}

func (m MemStore) weakWriteOne(k uint32, r region.Region, offset *big.Int, valueVS valueset.VS) MemStore {
	slots := m.regionsMap()[r]
	kk := key(offset)
	next := cloneRegion(slots)
	if existing, ok := next[kk]; ok && existing.width == k {
		next[kk] = entry{offset: offset, width: k, value: existing.value.Union(valueVS)}
	} else {
		next[kk] = entry{offset: offset, width: k, value: valueVS}
	}
	return m.withRegion(r, next)
}

func (m MemStore) weakWriteEverywhere(k uint32, valueVS valueset.VS) MemStore {
	cur := m
	for r, slots := range m.regionsMap() {
		next := cloneRegion(slots)
		for kk, e := range slots {
			if e.width == k {
				next[kk] = entry{offset: e.offset, width: k, value: e.value.Union(valueVS)}
			}
		}
		cur = cur.withRegion(r, next)
	}
	return cur
}

// WriteIntersection intersects the entry at a singleton concrete address
// with valueVS; any other address shape leaves the store unchanged
// (original spec §4.1, "write_intersection").
func (m MemStore) WriteIntersection(k uint32, addrVS, valueVS valueset.VS) MemStore {
	r, offset, ok := addrVS.SingleConcretePoint()
	if !ok {
		return m
	}
	slots := m.regionsMap()[r]
	kk := key(offset)
	existing, found := slots[kk]
	var merged valueset.VS
	if found && existing.width == k {
		merged = existing.value.Intersection(valueVS)
	} else if !found {
		merged = valueVS
	} else {
		return m // width mismatch: no over-approximation loss, leave unchanged
	}
	if merged.IsTop() {
		return m
	}
	next := cloneRegion(slots)
	next[kk] = entry{offset: offset, width: k, value: merged}
	return m.withRegion(r, next)
}

// widenRegion collapses region r's entries to empty once its entry count
// exceeds memMax (original spec §4.1, "widen_region").
func (m MemStore) widenRegion(r region.Region, memMax int) MemStore {
	slots := m.regionsMap()[r]
	if len(slots) <= memMax {
		return m
	}
	return m.withRegion(r, regionMap{})
}

// ---- merges ----

// Union computes the exclusive regionwise/offsetwise merge (original spec
// §4.1, "union"): an address present on only one side is dropped (absence
// already means top, and top ∪ x = top).
func (m MemStore) Union(o MemStore) MemStore {
	if m.regions == o.regions {
		return m
	}
	out := map[region.Region]regionMap{}
	mr, or := m.regionsMap(), o.regionsMap()
	for r, slots := range mr {
		oslots, ok := or[r]
		if !ok {
			continue
		}
		merged := regionMap{}
		for kk, e := range slots {
			if oe, ok := oslots[kk]; ok && oe.width == e.width {
				merged[kk] = entry{offset: e.offset, width: e.width, value: e.value.Union(oe.value)}
			}
		}
		if len(merged) > 0 {
			out[r] = merged
		}
	}
	return MemStore{regions: &out}
}

// Intersection computes the inclusive regionwise/offsetwise merge
// (original spec §4.1, "intersection"): an address present on only one
// side is retained as-is.
func (m MemStore) Intersection(o MemStore) MemStore {
	if m.regions == o.regions {
		return m
	}
	return m.inclusiveMerge(o, func(a, b valueset.VS) valueset.VS { return a.Intersection(b) })
}

// Widen computes the inclusive regionwise/offsetwise merge using VS.Widen
// for entries present on both sides (original spec §4.1, "widen").
func (m MemStore) Widen(o MemStore) MemStore {
	if m.regions == o.regions {
		return m
	}
	return m.inclusiveMerge(o, func(a, b valueset.VS) valueset.VS { return a.Widen(b) })
}

func (m MemStore) inclusiveMerge(o MemStore, combine func(a, b valueset.VS) valueset.VS) MemStore {
	out := map[region.Region]regionMap{}
	mr, or := m.regionsMap(), o.regionsMap()
	regions := map[region.Region]bool{}
	for r := range mr {
		regions[r] = true
	}
	for r := range or {
		regions[r] = true
	}
	for r := range regions {
		merged := regionMap{}
		aslots, aok := mr[r]
		bslots, bok := or[r]
		if aok {
			for kk, e := range aslots {
				if bok {
					if oe, ok := bslots[kk]; ok {
						if oe.width != e.width {
							continue // width mismatch: drop
						}
						merged[kk] = entry{offset: e.offset, width: e.width, value: combine(e.value, oe.value)}
						continue
					}
				}
				merged[kk] = e
			}
		}
		if bok {
			for kk, e := range bslots {
				if _, already := merged[kk]; already {
					continue
				}
				if aok {
					if _, ok := aslots[kk]; ok {
						continue // handled above (and was a width mismatch, so dropped)
					}
				}
				merged[kk] = e
			}
		}
		if len(merged) > 0 {
			out[r] = merged
		}
	}
	return MemStore{regions: &out}
}

// ForEach visits every materialized (region, offset, width, value) entry
// in a deterministic order (original spec §4.1, "fold").
func (m MemStore) ForEach(visit func(r region.Region, offset *big.Int, width uint32, value valueset.VS)) {
	regions := make([]region.Region, 0, len(m.regionsMap()))
	for r := range m.regionsMap() {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Less(regions[j]) })
	for _, r := range regions {
		slots := m.regionsMap()[r]
		offs := make([]string, 0, len(slots))
		for kk := range slots {
			offs = append(offs, kk)
		}
		sort.Strings(offs)
		for _, kk := range offs {
			e := slots[kk]
			visit(r, e.offset, e.width, e.value)
		}
	}
}

// String renders a debug form of the store (original spec §4.1, "pp").
func (m MemStore) String() string {
	var b strings.Builder
	b.WriteString("MemStore{")
	first := true
	m.ForEach(func(r region.Region, offset *big.Int, width uint32, value valueset.VS) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s[%s:%d]=%s", r, offset, width, value)
	})
	b.WriteString("}")
	return b.String()
}
