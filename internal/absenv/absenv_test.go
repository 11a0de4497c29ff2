package absenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

func TestFindScalarAbsentIsTop(t *testing.T) {
	env := New()
	v := ssa.NewScalar("x", 32)
	assert.True(t, env.FindScalar(v).IsTop())
}

func TestBindIsFunctional(t *testing.T) {
	env := New()
	v := ssa.NewScalar("x", 8)
	env2 := env.Bind(v, ScalarValue(valueset.OfIntVS(5, 8)))

	assert.True(t, env.FindScalar(v).IsTop(), "original environment must be untouched")
	assert.True(t, env2.FindScalar(v).Equal(valueset.OfIntVS(5, 8)))
}

func TestFindScalarPanicsOnArrayBinding(t *testing.T) {
	env := New()
	v := ssa.NewArray("mem")
	env2 := env.Bind(v, ArrayValue(memstore.New()))
	assert.Panics(t, func() {
		env2.FindScalar(v)
	})
}

func TestMeetUnionsOverlappingBindings(t *testing.T) {
	v := ssa.NewScalar("x", 8)
	a := New().Bind(v, ScalarValue(valueset.OfIntVS(1, 8)))
	b := New().Bind(v, ScalarValue(valueset.OfIntVS(5, 8)))
	merged := a.Meet(b)
	want := valueset.OfIntVS(1, 8).Union(valueset.OfIntVS(5, 8))
	assert.True(t, merged.FindScalar(v).Equal(want))
}

func TestMeetRetainsOneSidedBindings(t *testing.T) {
	v := ssa.NewScalar("x", 8)
	a := New().Bind(v, ScalarValue(valueset.OfIntVS(1, 8)))
	b := New()
	merged := a.Meet(b)
	assert.True(t, merged.FindScalar(v).Equal(valueset.OfIntVS(1, 8)))
}

func TestMeetLatticeTopIsIdentity(t *testing.T) {
	v := ssa.NewScalar("x", 8)
	a := New().Bind(v, ScalarValue(valueset.OfIntVS(1, 8)))
	require.True(t, MeetLattice(nil, a) == a)
	require.True(t, MeetLattice(a, nil) == a)
}
