// Package eval implements the expression transfer function: evaluating
// an ssa.Expr against an AbsEnv to produce either a scalar value set or
// a memory store (original spec §4.3). Dispatch is total — every Expr
// case has a defined result, and the forms this module does not model
// precisely degrade to top rather than erroring, mirroring the dispatch
// table in internal/race/detector/detector.go (one case per event kind,
// an explicit default) generalized with the interval-walking shape of
// ericlagergren's go-vrp.
package eval

import (
	"fmt"
	"math/big"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// Scalar evaluates e, which must produce a Scalar-kind result, against
// env. memMax bounds the address-set enumeration a Load may need to
// perform against the referenced memory store (original spec §5).
func Scalar(env *absenv.AbsEnv, e ssa.Expr, memMax int) valueset.VS {
	switch x := e.(type) {
	case ssa.IntLit:
		return valueset.OfBigIntVS(x.Value, x.Bits)

	case ssa.VarRef:
		return env.FindScalar(x.Var)

	case ssa.Phi:
		if x.Kind != ssa.Scalar {
			return valueset.TopVS(x.Bits)
		}
		out := valueset.EmptyVS(x.Bits)
		for _, arg := range x.Args {
			out = out.Union(Scalar(env, arg, memMax))
		}
		return out

	case ssa.BinOp:
		a := Scalar(env, x.X, memMax)
		b := Scalar(env, x.Y, memMax)
		return a.BinOp(x.Op, b, x.Bits)

	case ssa.UnOp:
		a := Scalar(env, x.X, memMax)
		return a.UnOp(x.Op, x.Bits)

	case ssa.Cast:
		a := Scalar(env, x.X, memMax)
		return a.Cast(x.Kind, x.Bits)

	case ssa.Load:
		mem := env.FindArray(x.Mem)
		addr := Scalar(env, x.Index, memMax)
		return mem.Read(x.Bits, addr, memMax)

	case ssa.Store:
		// A Store expression in scalar context is the one form original
		// spec §4.3/§7 explicitly calls out as unimplemented.
		return valueset.TopVS(1)

	case ssa.Cmp:
		return evalCmp(env, x, memMax)

	case ssa.Unknown:
		return valueset.TopVS(x.Bits)
	}
	panic(fmt.Sprintf("eval: unhandled scalar expression %T", e))
}

// Array evaluates e, which must produce an Array-kind result, against
// env.
func Array(env *absenv.AbsEnv, e ssa.Expr, memMax int) memstore.MemStore {
	switch x := e.(type) {
	case ssa.VarRef:
		return env.FindArray(x.Var)

	case ssa.Phi:
		out := memstore.New()
		first := true
		for _, arg := range x.Args {
			m := Array(env, arg, memMax)
			if first {
				out = m
				first = false
				continue
			}
			out = out.Union(m)
		}
		return out

	case ssa.Store:
		mem := env.FindArray(x.Mem)
		addr := Scalar(env, x.Index, memMax)
		value := Scalar(env, x.Value, memMax)
		return mem.Write(x.Value.Width(), addr, value, memMax)

	}
	// Unknown and every scalar-only form: the top store.
	return memstore.New()
}

// evalCmp evaluates a comparison to a 1-bit boolean value set: {1} if
// both operands are concrete and the comparison certainly holds, {0} if
// it certainly fails, and Top(1) (standing for "could be either") in
// every other case — the same precision trade-off original spec §4.5's
// edge-refinement patterns are built to recover from when the
// comparison instead drives a branch.
func evalCmp(env *absenv.AbsEnv, c ssa.Cmp, memMax int) valueset.VS {
	x := Scalar(env, c.X, memMax)
	y := Scalar(env, c.Y, memMax)
	xr, xOff, xOK := x.SingleConcretePoint()
	yr, yOff, yOK := y.SingleConcretePoint()
	if !xOK || !yOK || !xr.IsGlobal() || !yr.IsGlobal() {
		return valueset.TopVS(1)
	}
	cmp := xOff.Cmp(yOff)
	if c.Op == ssa.SLT || c.Op == ssa.SLE {
		// Offsets are canonical unsigned bit patterns; reinterpret them
		// as two's-complement values before a signed comparison.
		xs, ys := new(big.Int).Set(xOff), new(big.Int).Set(yOff)
		if w := x.Width(); w > 0 && xs.Bit(int(w-1)) == 1 {
			xs.Sub(xs, new(big.Int).Lsh(big.NewInt(1), uint(w)))
		}
		if w := y.Width(); w > 0 && ys.Bit(int(w-1)) == 1 {
			ys.Sub(ys, new(big.Int).Lsh(big.NewInt(1), uint(w)))
		}
		cmp = xs.Cmp(ys)
	}
	var holds bool
	switch c.Op {
	case ssa.EQ:
		holds = cmp == 0
	case ssa.NEQ:
		holds = cmp != 0
	case ssa.LT, ssa.SLT:
		holds = cmp < 0
	case ssa.LE, ssa.SLE:
		holds = cmp <= 0
	default:
		return valueset.TopVS(1)
	}
	if holds {
		return valueset.OfIntVS(1, 1)
	}
	return valueset.OfIntVS(0, 1)
}
