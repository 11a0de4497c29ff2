package valueset

import "math/big"

// BinOp names a scalar binary operator for SI/VS dispatch (original spec
// §4.3, "Binary op → dispatch to VS's binop table using the operand
// width").
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	UDiv
	SDiv
	UMod
	SMod
	And
	Or
	Xor
	Shl
	LShr
	AShr
)

// UnOp names a scalar unary operator.
type UnOp uint8

const (
	Neg UnOp = iota
	Not
)

// CastKind names a width-changing conversion.
type CastKind uint8

const (
	ZeroExtend CastKind = iota
	SignExtend
	Truncate
)

// BinOpSI applies op to a and b, producing a result of the given width.
// Add/Sub are computed precisely using the strided-interval join formula;
// every other operator is computed precisely only when both operands are
// singletons (concrete values), and degrades to Top otherwise — see the
// package doc for why that's a sound simplification here.
func BinOpSI(op BinOp, a, b SI, width uint32) SI {
	if a.top || b.top {
		return Top(width)
	}
	if a.empty || b.empty {
		return EmptySI(width)
	}
	switch op {
	case Add:
		return addSI(a, b, width)
	case Sub:
		return addSI(a, negSI(b, width), width)
	default:
		av, aok := singleton(a)
		bv, bok := singleton(b)
		if !aok || !bok {
			return Top(width)
		}
		return OfBigInt(applyBinOpConcrete(op, av, bv, width), width)
	}
}

func singleton(s SI) (*big.Int, bool) {
	if s.stride.Sign() == 0 {
		return s.low, true
	}
	return nil, false
}

func applyBinOpConcrete(op BinOp, a, b *big.Int, width uint32) *big.Int {
	as := toSigned(a, width)
	bs := toSigned(b, width)
	r := new(big.Int)
	switch op {
	case Mul:
		r.Mul(a, b)
	case UDiv:
		if b.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Div(a, b)
	case SDiv:
		if bs.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Quo(as, bs)
		return fromSigned(r, width)
	case UMod:
		if b.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Mod(a, b)
	case SMod:
		if bs.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Rem(as, bs)
		return fromSigned(r, width)
	case And:
		r.And(a, b)
	case Or:
		r.Or(a, b)
	case Xor:
		r.Xor(a, b)
	case Shl:
		r.Lsh(a, uint(b.Uint64()))
	case LShr:
		r.Rsh(a, uint(b.Uint64()))
	case AShr:
		r.Rsh(as, uint(b.Uint64()))
		return fromSigned(r, width)
	default:
		r.Set(a)
	}
	return r
}

// addSI computes a + b precisely via the strided-interval sum formula:
// stride' = gcd(stride_a, stride_b), low' = low_a+low_b, count' =
// count_a+count_b-1; collapses to Top if the result would cover (or
// exceed) the whole width.
func addSI(a, b SI, width uint32) SI {
	stride := gcdBig(a.stride, b.stride)
	low := reduce(new(big.Int).Add(a.low, b.low), width)
	na := a.count()
	nb := b.count()
	n := new(big.Int).Add(na, nb)
	n.Sub(n, big.NewInt(1))
	if stride.Sign() == 0 {
		if n.Cmp(big.NewInt(1)) > 0 {
			// Multiple points but no stride to space them: fall back.
			return Top(width)
		}
		return ofRange(width, big.NewInt(0), low, low)
	}
	steps := new(big.Int).Sub(n, big.NewInt(1))
	span := new(big.Int).Mul(steps, stride)
	if span.Cmp(modulus(width)) >= 0 {
		return Top(width)
	}
	high := reduce(new(big.Int).Add(low, span), width)
	return ofRange(width, stride, low, high)
}

// negSI computes -b (two's-complement negation) preserving stride.
func negSI(b SI, width uint32) SI {
	if b.top || b.empty {
		return b
	}
	newLow := reduce(new(big.Int).Neg(b.high), width)
	newHigh := reduce(new(big.Int).Neg(b.low), width)
	return ofRange(width, b.stride, newLow, newHigh)
}

// UnOpSI applies a unary operator to s.
func UnOpSI(op UnOp, s SI, width uint32) SI {
	if s.top {
		return Top(width)
	}
	if s.empty {
		return EmptySI(width)
	}
	switch op {
	case Neg:
		return negSI(s, width)
	case Not:
		v, ok := singleton(s)
		if !ok {
			return Top(width)
		}
		r := new(big.Int).Xor(v, mask(width))
		return OfBigInt(r, width)
	}
	return Top(width)
}

// CastSI converts s (of its own width) to a value of targetWidth.
func CastSI(kind CastKind, s SI, targetWidth uint32) SI {
	if s.top {
		return Top(targetWidth)
	}
	if s.empty {
		return EmptySI(targetWidth)
	}
	switch kind {
	case Truncate:
		if targetWidth >= s.width {
			return s
		}
		if s.stride.Sign() == 0 {
			return OfBigInt(s.low, targetWidth)
		}
		// Truncation can fracture a stride unpredictably; precise only
		// for singletons.
		return Top(targetWidth)
	case ZeroExtend:
		if targetWidth <= s.width {
			return s
		}
		if s.low.Cmp(s.high) > 0 {
			// wrapped interval: extension is not representable precisely
			return Top(targetWidth)
		}
		return ofRange(targetWidth, s.stride, s.low, s.high)
	case SignExtend:
		if targetWidth <= s.width {
			return s
		}
		if s.stride.Sign() == 0 {
			return OfBigInt(toSigned(s.low, s.width), targetWidth)
		}
		if s.low.Cmp(s.high) > 0 {
			return Top(targetWidth)
		}
		lo := toSigned(s.low, s.width)
		hi := toSigned(s.high, s.width)
		return ofRange(targetWidth, s.stride, lo, hi)
	}
	return Top(targetWidth)
}
