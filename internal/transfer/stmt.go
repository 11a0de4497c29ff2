// Package transfer implements the statement transfer function (original
// spec §4.4) and the edge transfer function (original spec §4.5): the
// two places AbsEnv actually changes shape within a single vertex visit.
//
// Grounded on the per-event dispatch of internal/race/detector/detector.go
// (one case per statement shape, an explicit pass-through default) and
// on sampler.go's tolerance for "recognized but doesn't change anything"
// outcomes, which is exactly original spec §4.5's stance on unrecognized
// edge labels.
package transfer

import (
	"fmt"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/eval"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// Stmt applies one statement's transfer function, returning the
// resulting environment. Assert, Assume, Jmp, CJmp, Label, Comment, and
// Halt are identity at this level — control transfer is the driver's
// concern, not the statement transfer's (original spec §4.4).
func Stmt(env *absenv.AbsEnv, s ssa.Stmt, memMax int) *absenv.AbsEnv {
	switch st := s.(type) {
	case ssa.Move:
		if st.V.Kind == ssa.Array {
			m := eval.Array(env, st.E, memMax)
			return env.Bind(st.V, absenv.ArrayValue(m))
		}
		vs := eval.Scalar(env, st.E, memMax)
		return env.Bind(st.V, absenv.ScalarValue(vs))

	case ssa.Special:
		// Only register-typed defs are havocked; memory bindings are
		// left as they are.
		out := env
		for _, v := range st.Defs {
			if v.Kind != ssa.Array {
				out = out.Bind(v, absenv.ScalarValue(valueset.TopVS(v.Width)))
			}
		}
		return out

	case ssa.Assert, ssa.Assume, ssa.Jmp, ssa.CJmp, ssa.Label, ssa.Comment, ssa.Halt:
		return env
	}
	panic(fmt.Sprintf("transfer: unhandled statement %T", s))
}
