package valueset

import "math/big"

// modulus returns 2^width.
func modulus(width uint32) *big.Int {
	m := big.NewInt(1)
	m.Lsh(m, uint(width))
	return m
}

// mask returns 2^width - 1.
func mask(width uint32) *big.Int {
	m := modulus(width)
	return m.Sub(m, big.NewInt(1))
}

// reduce normalizes v into the canonical unsigned range [0, 2^width).
func reduce(v *big.Int, width uint32) *big.Int {
	m := modulus(width)
	r := new(big.Int).Mod(v, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

// signedMinCanonical returns the minimum value representable as a signed integer
// of the given width (i.e. -2^(width-1)), as its unsigned canonical form.
func signedMinCanonical(width uint32) *big.Int {
	if width == 0 {
		return big.NewInt(0)
	}
	half := big.NewInt(1)
	half.Lsh(half, uint(width-1))
	return half // 2^(width-1), which IS the canonical (unsigned) bit pattern of the signed minimum
}

// toSigned reinterprets a canonical unsigned value as a signed big.Int.
func toSigned(v *big.Int, width uint32) *big.Int {
	half := signedMinCanonical(width)
	if v.Cmp(half) >= 0 {
		return new(big.Int).Sub(v, modulus(width))
	}
	return new(big.Int).Set(v)
}

// fromSigned reduces a (possibly negative) signed big.Int into its
// canonical unsigned bit pattern for the given width.
func fromSigned(v *big.Int, width uint32) *big.Int {
	return reduce(v, width)
}

func gcdBig(a, b *big.Int) *big.Int {
	aa := new(big.Int).Abs(a)
	bb := new(big.Int).Abs(b)
	return new(big.Int).GCD(nil, nil, aa, bb)
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
