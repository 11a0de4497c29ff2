package transfer

import (
	"math/big"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/eval"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// acceptCmp reports whether op is refinable. With the signedness hack
// disabled only the signed operators are trusted; enabling it (the
// default) additionally accepts the unsigned operators, which is sound
// only so long as the compared values never wrap — original spec §4.5's
// ACCEPT_CMP.
func acceptCmp(op ssa.CmpOp, signednessHack bool) bool {
	switch op {
	case ssa.SLE, ssa.SLT:
		return true
	case ssa.LE, ssa.LT:
		return signednessHack
	}
	return false
}

// invert swaps a comparison operator for its "other side" form, used
// when a comparison-to-boolean predicate carries a false boolean
// literal: NOT(x <= k) rewrites to (k < x), i.e. op flips and the
// operand order swaps (original spec §4.5 rule 1, "invert the
// comparison... and swap sides").
func invert(op ssa.CmpOp) ssa.CmpOp {
	switch op {
	case ssa.SLE:
		return ssa.SLT
	case ssa.SLT:
		return ssa.SLE
	case ssa.LE:
		return ssa.LT
	case ssa.LT:
		return ssa.LE
	}
	return op
}

// matchOuterEQ recognizes EQ(inner, bool_literal) in either argument
// order, returning the inner comparison and the literal's value.
func matchOuterEQ(pred ssa.Cmp) (inner ssa.Cmp, lit int64, ok bool) {
	if pred.Op != ssa.EQ {
		return ssa.Cmp{}, 0, false
	}
	if c, isCmp := pred.X.(ssa.Cmp); isCmp {
		if l, isLit := pred.Y.(ssa.IntLit); isLit {
			return c, l.Value.Int64(), true
		}
	}
	if c, isCmp := pred.Y.(ssa.Cmp); isCmp {
		if l, isLit := pred.X.(ssa.IntLit); isLit {
			return c, l.Value.Int64(), true
		}
	}
	return ssa.Cmp{}, 0, false
}

// splitConstant recognizes which side of a binary comparison is the
// integer-literal constant, in either argument order.
func splitConstant(x, y ssa.Expr) (nonConst ssa.Expr, k *big.Int, constOnRight bool, ok bool) {
	if l, isLit := y.(ssa.IntLit); isLit {
		return x, l.Value, true, true
	}
	if l, isLit := x.(ssa.IntLit); isLit {
		return y, l.Value, false, true
	}
	return nil, nil, false, false
}

// matchComparisonToBoolean recognizes original spec §4.5 rule 1 and
// builds the constraining value set the matched side must be
// intersected with.
func matchComparisonToBoolean(pred ssa.Cmp, signednessHack bool) (ssa.Expr, valueset.VS, bool) {
	inner, lit, ok := matchOuterEQ(pred)
	if !ok {
		return nil, valueset.VS{}, false
	}
	op := inner.Op
	switch op {
	case ssa.SLE, ssa.SLT, ssa.LE, ssa.LT:
	default:
		return nil, valueset.VS{}, false
	}
	if !acceptCmp(op, signednessHack) {
		return nil, valueset.VS{}, false
	}
	x, y := inner.X, inner.Y
	if lit == 0 {
		op = invert(op)
		x, y = y, x
	}
	nonConst, k, constOnRight, ok2 := splitConstant(x, y)
	if !ok2 {
		return nil, valueset.VS{}, false
	}
	width := nonConst.Width()
	signed := op == ssa.SLE || op == ssa.SLT
	strict := op == ssa.SLT || op == ssa.LT
	ki := k.Int64()

	var vs valueset.VS
	switch {
	case constOnRight && signed && strict:
		vs = valueset.SBelowVS(ki, width)
	case constOnRight && signed && !strict:
		vs = valueset.SBeloweqVS(ki, width)
	case constOnRight && !signed && strict:
		vs = valueset.BelowVS(ki, width)
	case constOnRight && !signed && !strict:
		vs = valueset.BeloweqVS(ki, width)
	case !constOnRight && signed && strict:
		vs = valueset.SAboveVS(ki, width)
	case !constOnRight && signed && !strict:
		vs = valueset.SAboveeqVS(ki, width)
	case !constOnRight && !signed && strict:
		vs = valueset.AboveVS(ki, width)
	case !constOnRight && !signed && !strict:
		vs = valueset.AboveeqVS(ki, width)
	}
	return nonConst, vs, true
}

// matchEqualityToConstant recognizes original spec §4.5 rule 2. noop is
// true when the pattern matches but names the disequality direction
// (refining to top, i.e. a no-op, while still being "recognized").
func matchEqualityToConstant(pred ssa.Cmp) (nonConst ssa.Expr, k *big.Int, noop bool, ok bool) {
	inner, lit, ok := matchOuterEQ(pred)
	if !ok {
		return nil, nil, false, false
	}
	if inner.Op != ssa.EQ && inner.Op != ssa.NEQ {
		return nil, nil, false, false
	}
	nc, kk, _, ok2 := splitConstant(inner.X, inner.Y)
	if !ok2 {
		return nil, nil, false, false
	}
	refines := (inner.Op == ssa.EQ && lit == 1) || (inner.Op == ssa.NEQ && lit == 0)
	return nc, kk, !refines, true
}

// refineAddress intersects constraint into the current value of target
// and rebinds it: directly for a bare variable, or via
// MemStore.WriteIntersection for a memory load (original spec §4.5 rule
// 1, "If x is a memory Load... perform write_intersection").
func refineAddress(env *absenv.AbsEnv, target ssa.Expr, constraint valueset.VS, memMax int) *absenv.AbsEnv {
	switch v := target.(type) {
	case ssa.VarRef:
		cur := env.FindScalar(v.Var)
		return env.Bind(v.Var, absenv.ScalarValue(cur.Intersection(constraint)))
	case ssa.Load:
		cur := eval.Scalar(env, v, memMax)
		refined := cur.Intersection(constraint)
		mem := env.FindArray(v.Mem)
		addr := eval.Scalar(env, v.Index, memMax)
		return env.Bind(v.Mem, absenv.ArrayValue(mem.WriteIntersection(v.Bits, addr, refined)))
	default:
		return env
	}
}

// refineVarVar implements original spec §4.5 rule 3: v1 gets v2's
// lower bound removed and intersected in, and (using v1's pre-
// refinement value) v2 gets v1's upper bound removed and intersected
// in.
func refineVarVar(env *absenv.AbsEnv, v2, v1 ssa.Var) *absenv.AbsEnv {
	v1Orig := env.FindScalar(v1)
	v2Orig := env.FindScalar(v2)
	v1New := v1Orig.Intersection(v2Orig.RemoveLowerBound())
	v2New := v2Orig.Intersection(v1Orig.RemoveUpperBound())
	return env.Bind(v1, absenv.ScalarValue(v1New)).Bind(v2, absenv.ScalarValue(v2New))
}

// Edge refines env along a CFG edge carrying label, using signednessHack
// to decide which comparisons are trusted. Any evaluation failure
// (a malformed refinement target) is caught and degrades to identity
// rather than poisoning the state (original spec §4.5, "recognized as
// catch, not poison").
func Edge(env *absenv.AbsEnv, label *ssa.EdgeLabel, signednessHack bool, memMax int) (result *absenv.AbsEnv) {
	result = env
	if label == nil || label.Predicate == nil {
		return env
	}
	defer func() {
		if recover() != nil {
			result = env
		}
	}()

	pred, ok := label.Predicate.(ssa.Cmp)
	if !ok {
		return env
	}

	if label.Taken && (pred.Op == ssa.SLT || pred.Op == ssa.SLE) {
		if v2, ok1 := pred.X.(ssa.VarRef); ok1 {
			if v1, ok2 := pred.Y.(ssa.VarRef); ok2 {
				return refineVarVar(env, v2.Var, v1.Var)
			}
		}
	}

	if pred.Op != ssa.EQ {
		return env
	}

	if target, constraint, ok := matchComparisonToBoolean(pred, signednessHack); ok {
		return refineAddress(env, target, constraint, memMax)
	}

	if target, k, noop, ok := matchEqualityToConstant(pred); ok {
		if noop {
			return env
		}
		return refineAddress(env, target, valueset.OfBigIntVS(k, target.Width()), memMax)
	}

	return env
}
