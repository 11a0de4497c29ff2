package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/vsa/internal/ssa"
)

func raw(t *testing.T, v string) json.RawMessage {
	t.Helper()
	return json.RawMessage(v)
}

func TestLoadProgramBuildsVerticesAndEdges(t *testing.T) {
	pf := programFile{
		Entry: "bb0",
		Vars: map[string]varSpec{
			"x":   {Width: 8, Kind: "scalar"},
			"mem": {Kind: "array"},
		},
		Vertices: map[string][]stmtSpec{
			"bb0": {
				{Op: "move", Var: "x", Expr: raw(t, `{"kind":"lit","value":"5","bits":8}`)},
				{Op: "jmp", Target: "bb1"},
			},
			"bb1": {
				{Op: "halt"},
			},
		},
		Edges: []edgeSpec{
			{From: "bb0", To: "bb1"},
		},
	}

	prog, vars, err := loadProgram(pf)
	require.NoError(t, err)
	require.Contains(t, vars, "x")
	require.Contains(t, vars, "mem")

	assert.Equal(t, ssa.VertexID("bb0"), prog.Entry)
	bb0 := prog.Vertex("bb0")
	require.Len(t, bb0.Stmts, 2)
	move, ok := bb0.Stmts[0].(ssa.Move)
	require.True(t, ok)
	assert.Equal(t, vars["x"], move.V)

	succ := prog.Successors("bb0")
	require.Len(t, succ, 1)
	assert.Equal(t, ssa.VertexID("bb1"), succ[0].To)
}

func TestLoadProgramRejectsUnknownVarKind(t *testing.T) {
	pf := programFile{
		Entry: "bb0",
		Vars:  map[string]varSpec{"x": {Kind: "weird"}},
	}
	_, _, err := loadProgram(pf)
	assert.Error(t, err)
}

func TestDecodeExprNestedBinOp(t *testing.T) {
	vars := map[string]ssa.Var{"x": ssa.NewScalar("x", 8)}
	e, err := decodeExpr(raw(t, `{
		"kind": "binop",
		"op": "add",
		"bits": 8,
		"x": {"kind":"var","var":"x"},
		"y": {"kind":"lit","value":"3","bits":8}
	}`), vars)
	require.NoError(t, err)

	bo, ok := e.(ssa.BinOp)
	require.True(t, ok)
	assert.Equal(t, uint32(8), bo.Bits)
	vr, ok := bo.X.(ssa.VarRef)
	require.True(t, ok)
	assert.Equal(t, vars["x"], vr.Var)
}

func TestDecodeExprUnknownKindErrors(t *testing.T) {
	_, err := decodeExpr(raw(t, `{"kind":"bogus"}`), map[string]ssa.Var{})
	assert.Error(t, err)
}

func TestDecodeExprMissingIsError(t *testing.T) {
	_, err := decodeExpr(nil, map[string]ssa.Var{})
	assert.Error(t, err)
}

func TestDecodeCmpEdgeRoundTrips(t *testing.T) {
	vars := map[string]ssa.Var{"x": ssa.NewScalar("x", 8)}
	pf := programFile{
		Entry: "bb0",
		Vars:  map[string]varSpec{"x": {Width: 8, Kind: "scalar"}},
		Vertices: map[string][]stmtSpec{
			"bb0": {{Op: "cjmp", Cond: raw(t, `{"kind":"cmp","op":"slt","x":{"kind":"var","var":"x"},"y":{"kind":"lit","value":"10","bits":8}}`), IfTrue: "bb1", IfFalse: "bb2"}},
			"bb1": {{Op: "halt"}},
			"bb2": {{Op: "halt"}},
		},
		Edges: []edgeSpec{
			{From: "bb0", To: "bb1", Taken: true, Predicate: raw(t, `{"kind":"cmp","op":"eq","x":{"kind":"cmp","op":"slt","x":{"kind":"var","var":"x"},"y":{"kind":"lit","value":"10","bits":8}},"y":{"kind":"lit","value":"1","bits":1}}`)},
		},
	}
	prog, gotVars, err := loadProgram(pf)
	require.NoError(t, err)
	assert.Equal(t, vars["x"].Width, gotVars["x"].Width)

	succ := prog.Successors("bb0")
	require.Len(t, succ, 1)
	require.NotNil(t, succ[0].Label)
	assert.True(t, succ[0].Label.Taken)
}
