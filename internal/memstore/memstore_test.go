package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/vsa/internal/region"
	"github.com/kolkov/vsa/internal/valueset"
)

func TestStrongWriteThenRead(t *testing.T) {
	m := New()
	addr := valueset.OfIntVS(100, 32)
	val := valueset.OfIntVS(42, 8)
	m2 := m.Write(8, addr, val, DefaultMemMax)

	got := m2.Read(8, addr, DefaultMemMax)
	assert.True(t, got.Equal(val))
}

func TestWriteTopAtConcreteAddressDeletesEntry(t *testing.T) {
	m := New()
	addr := valueset.OfIntVS(8, 32)
	m2 := m.Write(8, addr, valueset.OfIntVS(1, 8), DefaultMemMax)
	m3 := m2.Write(8, addr, valueset.TopVS(8), DefaultMemMax)
	assert.True(t, m3.Equal(New()))
}

func TestStrongWriteUnchangedValuePreservesSharing(t *testing.T) {
	m := New()
	addr := valueset.OfIntVS(8, 32)
	val := valueset.OfIntVS(1, 8)
	m2 := m.Write(8, addr, val, DefaultMemMax)
	m3 := m2.Write(8, addr, val, DefaultMemMax)
	assert.True(t, m2.regions == m3.regions, "writing an unchanged value must return the same underlying map")
}

func TestReadMissIsTop(t *testing.T) {
	m := New()
	got := m.Read(8, valueset.OfIntVS(5, 32), DefaultMemMax)
	assert.True(t, got.IsTop())
}

func TestReadEmptyAddressIsEmpty(t *testing.T) {
	m := New()
	got := m.Read(8, valueset.EmptyVS(32), DefaultMemMax)
	assert.True(t, got.IsEmpty())
}

func TestLittleEndianWideRead(t *testing.T) {
	m := New()
	// Write byte 0x01 at address 0, 0x02 at address 1: a little-endian
	// 16-bit read at address 0 should assemble 0x0201.
	m = m.Write(8, valueset.OfIntVS(0, 32), valueset.OfIntVS(0x01, 8), DefaultMemMax)
	m = m.Write(8, valueset.OfIntVS(1, 32), valueset.OfIntVS(0x02, 8), DefaultMemMax)

	got := m.Read(16, valueset.OfIntVS(0, 32), DefaultMemMax)
	r, off, ok := got.SingleConcretePoint()
	require.True(t, ok)
	assert.True(t, r.IsGlobal())
	assert.Equal(t, int64(0x0201), off.Int64())
}

func TestWriteTopAddressCollapsesWhenOverCapacity(t *testing.T) {
	m := New()
	m = m.Write(8, valueset.OfIntVS(0, 32), valueset.OfIntVS(1, 8), 1)
	m2 := m.Write(8, valueset.TopVS(32), valueset.OfIntVS(2, 8), 1)
	assert.True(t, m2.Equal(New()))
}

func TestWriteSingleRegionTopDropsRegion(t *testing.T) {
	heap := region.New("heap")
	m := New()
	m = m.Write(8, valueset.OfRegionOffset(heap, 0, 32), valueset.OfIntVS(9, 8), DefaultMemMax)

	regionTop := valueset.OfRegionOffset(heap, 0, 32).RemoveUpperBound().RemoveLowerBound()
	m2 := m.Write(8, regionTop, valueset.TopVS(8), DefaultMemMax)
	assert.True(t, m2.Equal(New()))
}

func TestWeakWriteReachesEveryAddress(t *testing.T) {
	m := New()
	addr1 := valueset.OfIntVS(0, 32).Union(valueset.OfIntVS(4, 32))
	m = m.Write(8, addr1, valueset.OfIntVS(1, 8), DefaultMemMax)
	got0 := m.Read(8, valueset.OfIntVS(0, 32), DefaultMemMax)
	got4 := m.Read(8, valueset.OfIntVS(4, 32), DefaultMemMax)
	assert.True(t, got0.Equal(valueset.OfIntVS(1, 8)))
	assert.True(t, got4.Equal(valueset.OfIntVS(1, 8)))
}

func TestUnionExcludesOneSidedEntries(t *testing.T) {
	a := New().Write(8, valueset.OfIntVS(0, 32), valueset.OfIntVS(1, 8), DefaultMemMax)
	b := New()
	merged := a.Union(b)
	assert.True(t, merged.Equal(New()))
}

func TestIntersectionRetainsOneSidedEntries(t *testing.T) {
	a := New().Write(8, valueset.OfIntVS(0, 32), valueset.OfIntVS(1, 8), DefaultMemMax)
	b := New()
	merged := a.Intersection(b)
	assert.True(t, merged.Equal(a))
}
