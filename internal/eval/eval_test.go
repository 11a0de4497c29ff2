package eval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

func memstoreEmpty() memstore.MemStore { return memstore.New() }

func memstoreWithByte(t *testing.T, addr int64, value int64) memstore.MemStore {
	t.Helper()
	m := memstore.New()
	return m.Write(8, valueset.OfIntVS(addr, 32), valueset.OfIntVS(value, 8), memstore.DefaultMemMax)
}

func TestScalarIntLit(t *testing.T) {
	env := absenv.New()
	got := Scalar(env, ssa.IntLit{Value: big.NewInt(7), Bits: 8}, 1024)
	assert.True(t, got.Equal(valueset.OfIntVS(7, 8)))
}

func TestScalarBinOpAdd(t *testing.T) {
	x := ssa.NewScalar("x", 8)
	env := absenv.New().Bind(x, absenv.ScalarValue(valueset.OfIntVS(3, 8)))
	expr := ssa.BinOp{
		Op:   valueset.Add,
		X:    ssa.VarRef{Var: x},
		Y:    ssa.IntLit{Value: big.NewInt(4), Bits: 8},
		Bits: 8,
	}
	got := Scalar(env, expr, 1024)
	assert.True(t, got.Equal(valueset.OfIntVS(7, 8)))
}

func TestScalarLoadReadsWrittenMemory(t *testing.T) {
	mem := ssa.NewArray("mem")
	store := memstoreWithByte(t, 0, 42)
	env := absenv.New().Bind(mem, absenv.ArrayValue(store))

	expr := ssa.Load{Mem: mem, Index: ssa.IntLit{Value: big.NewInt(0), Bits: 32}, Bits: 8}
	got := Scalar(env, expr, 1024)
	assert.True(t, got.Equal(valueset.OfIntVS(42, 8)))
}

func TestArrayStoreThenLoadRoundTrips(t *testing.T) {
	mem := ssa.NewArray("mem")
	env := absenv.New().Bind(mem, absenv.ArrayValue(memstoreEmpty()))

	storeExpr := ssa.Store{
		Mem:   mem,
		Index: ssa.IntLit{Value: big.NewInt(4), Bits: 32},
		Value: ssa.IntLit{Value: big.NewInt(9), Bits: 8},
	}
	newMem := Array(env, storeExpr, 1024)
	env2 := env.Bind(mem, absenv.ArrayValue(newMem))

	loadExpr := ssa.Load{Mem: mem, Index: ssa.IntLit{Value: big.NewInt(4), Bits: 32}, Bits: 8}
	got := Scalar(env2, loadExpr, 1024)
	assert.True(t, got.Equal(valueset.OfIntVS(9, 8)))
}

func TestScalarUnknownIsTop(t *testing.T) {
	env := absenv.New()
	got := Scalar(env, ssa.Unknown{Bits: 16}, 1024)
	assert.True(t, got.IsTop())
}

func TestEvalCmpConcrete(t *testing.T) {
	env := absenv.New()
	cmp := ssa.Cmp{Op: ssa.LT, X: ssa.IntLit{Value: big.NewInt(1), Bits: 8}, Y: ssa.IntLit{Value: big.NewInt(2), Bits: 8}}
	got := evalCmp(env, cmp, 1024)
	require.True(t, got.Equal(valueset.OfIntVS(1, 1)))
}
