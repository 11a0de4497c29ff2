package valueset

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSIUnion(t *testing.T) {
	tests := []struct {
		name       string
		a, b       SI
		wantStride int64
		wantLow    int64
		wantHigh   int64
	}{
		{
			name:       "disjoint singletons form a stride-4 range",
			a:          OfInt(1, 8),
			b:          OfInt(5, 8),
			wantStride: 4,
			wantLow:    1,
			wantHigh:   5,
		},
		{
			name:       "identical singletons stay a point",
			a:          OfInt(3, 8),
			b:          OfInt(3, 8),
			wantStride: 0,
			wantLow:    3,
			wantHigh:   3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Union(tt.b)
			require.False(t, got.IsTop())
			assert.Equal(t, big.NewInt(tt.wantStride), got.stride)
			assert.Equal(t, big.NewInt(tt.wantLow), got.low)
			assert.Equal(t, big.NewInt(tt.wantHigh), got.high)
		})
	}
}

func TestSIWiden(t *testing.T) {
	// A loop counter growing from a fixed [5,5] to [5,6] should jump its
	// rising bound straight to the width's extreme, not creep.
	first := OfInt(5, 8)
	second := ofRange(8, big.NewInt(1), big.NewInt(5), big.NewInt(6))
	widened := first.Widen(second)
	require.False(t, widened.IsTop())
	assert.Equal(t, big.NewInt(5), widened.low)
	assert.Equal(t, mask(8), widened.high)
}

func TestSIPointsBounded(t *testing.T) {
	si := ofRange(8, big.NewInt(1), big.NewInt(0), big.NewInt(255))
	_, ok := si.Points(4)
	assert.False(t, ok, "enumerating 256 points past a limit of 4 must fail")

	small := ofRange(8, big.NewInt(1), big.NewInt(10), big.NewInt(12))
	pts, ok := small.Points(10)
	require.True(t, ok)
	assert.Len(t, pts, 3)
}

func TestOfRangeCollapsesFullRangeToTop(t *testing.T) {
	full := ofRange(8, big.NewInt(1), big.NewInt(0), big.NewInt(255))
	assert.True(t, full.IsTop())
}
