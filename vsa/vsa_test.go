package vsa

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

func baseConfig() Config {
	return Config{SP: NewScalar("sp", 64), Mem: NewArray("mem")}
}

func TestAnalyzeConstantPropagation(t *testing.T) {
	x := NewScalar("x", 8)
	bb0 := &Vertex{ID: "bb0", Stmts: []Stmt{
		ssa.Move{V: x, E: ssa.IntLit{Value: big.NewInt(5), Bits: 8}},
		ssa.Jmp{Target: "bb1"},
	}}
	bb1 := &Vertex{ID: "bb1", Stmts: []Stmt{ssa.Halt{}}}
	prog := NewProgram("bb0", []*Vertex{bb0, bb1}, []Edge{{From: "bb0", To: "bb1"}})

	d, err := Analyze(prog, baseConfig())
	require.NoError(t, err)

	state := d.StateAt("bb1")
	require.NotNil(t, state)
	got := EvalScalar(state, ssa.VarRef{Var: x}, 1024)
	assert.True(t, got.Equal(valueset.OfIntVS(5, 8)))
	assert.NotEqual(t, "T", Pretty(state))
	assert.Equal(t, "T", Pretty(nil))
}

func TestAnalyzeUnreachedVertexIsTop(t *testing.T) {
	bb0 := &Vertex{ID: "bb0", Stmts: []Stmt{ssa.Halt{}}}
	bb1 := &Vertex{ID: "bb1", Stmts: []Stmt{ssa.Halt{}}}
	prog := NewProgram("bb0", []*Vertex{bb0, bb1}, nil)

	d, err := Analyze(prog, baseConfig())
	require.NoError(t, err)
	assert.Nil(t, d.StateAt("bb1"))
	assert.Equal(t, "T", Pretty(d.StateAt("bb1")))
}

func TestAnalyzeReportsStats(t *testing.T) {
	bb0 := &Vertex{ID: "bb0", Stmts: []Stmt{ssa.Halt{}}}
	prog := NewProgram("bb0", []*Vertex{bb0}, nil)

	d, err := Analyze(prog, baseConfig())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d.Stats().VerticesVisited, 1)
}

func TestAnalyzeFailsFastOnUnconfiguredSP(t *testing.T) {
	bb0 := &Vertex{ID: "bb0", Stmts: []Stmt{ssa.Halt{}}}
	prog := NewProgram("bb0", []*Vertex{bb0}, nil)

	_, err := Analyze(prog, Config{})
	assert.Error(t, err)
}

func TestEvalArrayThroughFacade(t *testing.T) {
	got := EvalArray(nil, ssa.Unknown{Bits: 32}, 1024)
	assert.True(t, got.Equal(memstore.New()))
}
