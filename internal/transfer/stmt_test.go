package transfer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

func TestStmtMoveBindsScalar(t *testing.T) {
	x := ssa.NewScalar("x", 8)
	env := absenv.New()
	out := Stmt(env, ssa.Move{V: x, E: ssa.IntLit{Value: big.NewInt(3), Bits: 8}}, 1024)
	assert.True(t, out.FindScalar(x).Equal(valueset.OfIntVS(3, 8)))
}

func TestStmtSpecialHavocsDefs(t *testing.T) {
	x := ssa.NewScalar("x", 8)
	env := absenv.New().Bind(x, absenv.ScalarValue(valueset.OfIntVS(3, 8)))
	out := Stmt(env, ssa.Special{Name: "syscall", Defs: []ssa.Var{x}}, 1024)
	assert.True(t, out.FindScalar(x).IsTop())
}

func TestStmtIdentityForms(t *testing.T) {
	env := absenv.New()
	for _, s := range []ssa.Stmt{
		ssa.Assert{E: ssa.Unknown{Bits: 1}},
		ssa.Assume{E: ssa.Unknown{Bits: 1}},
		ssa.Jmp{Target: "bb1"},
		ssa.Label{Name: "L"},
		ssa.Comment{Text: "note"},
		ssa.Halt{},
	} {
		out := Stmt(env, s, 1024)
		assert.True(t, env == out, "%T must be an identity statement", s)
	}
}
