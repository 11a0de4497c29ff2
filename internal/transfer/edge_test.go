package transfer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

func lit(v int64, bits uint32) ssa.IntLit { return ssa.IntLit{Value: big.NewInt(v), Bits: bits} }

func TestEdgeComparisonToBooleanTakenBranch(t *testing.T) {
	x := ssa.NewScalar("x", 8)
	env := absenv.New().Bind(x, absenv.ScalarValue(valueset.TopVS(8)))

	// EQ(Cmp(LT, x, 10), 1): x < 10 holds on the taken edge.
	pred := ssa.Cmp{
		Op: ssa.EQ,
		X:  ssa.Cmp{Op: ssa.LT, X: ssa.VarRef{Var: x}, Y: lit(10, 8)},
		Y:  lit(1, 1),
	}
	label := &ssa.EdgeLabel{Taken: true, Predicate: pred}

	out := Edge(env, label, true, 1024)
	want := valueset.BelowVS(10, 8)
	assert.True(t, out.FindScalar(x).Equal(want))
}

func TestEdgeComparisonToBooleanFalseLiteralInverts(t *testing.T) {
	x := ssa.NewScalar("x", 8)
	env := absenv.New().Bind(x, absenv.ScalarValue(valueset.TopVS(8)))

	// EQ(Cmp(LT, x, 10), 0): x < 10 is false, so x >= 10 on this edge.
	pred := ssa.Cmp{
		Op: ssa.EQ,
		X:  ssa.Cmp{Op: ssa.LT, X: ssa.VarRef{Var: x}, Y: lit(10, 8)},
		Y:  lit(0, 1),
	}
	label := &ssa.EdgeLabel{Taken: false, Predicate: pred}

	out := Edge(env, label, true, 1024)
	want := valueset.AboveeqVS(10, 8)
	assert.True(t, out.FindScalar(x).Equal(want))
}

func TestEdgeUnsignedComparisonRejectedWithoutSignednessHack(t *testing.T) {
	x := ssa.NewScalar("x", 8)
	env := absenv.New().Bind(x, absenv.ScalarValue(valueset.TopVS(8)))
	pred := ssa.Cmp{
		Op: ssa.EQ,
		X:  ssa.Cmp{Op: ssa.LT, X: ssa.VarRef{Var: x}, Y: lit(10, 8)},
		Y:  lit(1, 1),
	}
	label := &ssa.EdgeLabel{Taken: true, Predicate: pred}

	out := Edge(env, label, false, 1024)
	assert.True(t, env == out, "unsigned comparisons must be rejected when the signedness hack is disabled")
}

func TestEdgeEqualityToConstant(t *testing.T) {
	v := ssa.NewScalar("v", 8)
	env := absenv.New().Bind(v, absenv.ScalarValue(valueset.TopVS(8)))
	pred := ssa.Cmp{
		Op: ssa.EQ,
		X:  ssa.Cmp{Op: ssa.EQ, X: ssa.VarRef{Var: v}, Y: lit(5, 8)},
		Y:  lit(1, 1),
	}
	label := &ssa.EdgeLabel{Taken: true, Predicate: pred}

	out := Edge(env, label, true, 1024)
	assert.True(t, out.FindScalar(v).Equal(valueset.OfIntVS(5, 8)))
}

func TestEdgeDisequalityDirectionIsNoop(t *testing.T) {
	v := ssa.NewScalar("v", 8)
	env := absenv.New().Bind(v, absenv.ScalarValue(valueset.TopVS(8)))
	pred := ssa.Cmp{
		Op: ssa.EQ,
		X:  ssa.Cmp{Op: ssa.NEQ, X: ssa.VarRef{Var: v}, Y: lit(5, 8)},
		Y:  lit(1, 1),
	}
	label := &ssa.EdgeLabel{Taken: true, Predicate: pred}
	out := Edge(env, label, true, 1024)
	assert.True(t, env == out)
}

func TestEdgeVariableToVariableSignedComparison(t *testing.T) {
	v1 := ssa.NewScalar("v1", 16)
	v2 := ssa.NewScalar("v2", 16)
	// v1 in [50,100], v2 in [20,80]: neither bound already sits at the
	// width's extreme, so remove-lower/remove-upper-bound has room to
	// narrow rather than immediately re-collapsing to top.
	v1Range := valueset.BeloweqVS(100, 16).Intersection(valueset.AboveeqVS(50, 16))
	v2Range := valueset.BeloweqVS(80, 16).Intersection(valueset.AboveeqVS(20, 16))
	env := absenv.New().
		Bind(v1, absenv.ScalarValue(v1Range)).
		Bind(v2, absenv.ScalarValue(v2Range))

	pred := ssa.Cmp{Op: ssa.SLT, X: ssa.VarRef{Var: v2}, Y: ssa.VarRef{Var: v1}}
	label := &ssa.EdgeLabel{Taken: true, Predicate: pred}

	out := Edge(env, label, true, 1024)
	require.False(t, out.FindScalar(v1).IsTop())
	require.False(t, out.FindScalar(v2).IsTop())
	want := valueset.BeloweqVS(80, 16).Intersection(valueset.AboveeqVS(50, 16))
	assert.True(t, out.FindScalar(v1).Equal(want))
	assert.True(t, out.FindScalar(v2).Equal(want))
}

func TestEdgeNilLabelIsIdentity(t *testing.T) {
	env := absenv.New()
	out := Edge(env, nil, true, 1024)
	assert.True(t, env == out)
}

func TestEdgeUnrecognizedPatternIsIdentity(t *testing.T) {
	env := absenv.New()
	label := &ssa.EdgeLabel{Taken: true, Predicate: ssa.Unknown{Bits: 1}}
	out := Edge(env, label, true, 1024)
	assert.True(t, env == out)
}
