package valueset

import "math/big"

// Beloweq returns the unsigned strided interval {v | v <= k}.
func Beloweq(k int64, width uint32) SI {
	return ofRange(width, big.NewInt(1), big.NewInt(0), big.NewInt(k))
}

// Below returns the unsigned strided interval {v | v < k}.
func Below(k int64, width uint32) SI {
	if reduce(big.NewInt(k), width).Sign() == 0 {
		return EmptySI(width)
	}
	return Beloweq(k-1, width)
}

// Aboveeq returns the unsigned strided interval {v | v >= k}.
func Aboveeq(k int64, width uint32) SI {
	return ofRange(width, big.NewInt(1), big.NewInt(k), mask(width))
}

// Above returns the unsigned strided interval {v | v > k}.
func Above(k int64, width uint32) SI {
	if reduce(big.NewInt(k), width).Cmp(mask(width)) == 0 {
		return EmptySI(width)
	}
	return Aboveeq(k+1, width)
}

// SBeloweq returns the signed strided interval {v | v <= k}.
func SBeloweq(k int64, width uint32) SI {
	low := signedMinCanonical(width)
	high := fromSigned(big.NewInt(k), width)
	return ofRange(width, big.NewInt(1), low, high)
}

// SBelow returns the signed strided interval {v | v < k}.
func SBelow(k int64, width uint32) SI {
	if reduce(big.NewInt(k), width).Cmp(signedMinCanonical(width)) == 0 {
		return EmptySI(width)
	}
	return SBeloweq(k-1, width)
}

// SAboveeq returns the signed strided interval {v | v >= k}.
func SAboveeq(k int64, width uint32) SI {
	low := fromSigned(big.NewInt(k), width)
	half := signedMinCanonical(width)
	high := new(big.Int).Sub(half, big.NewInt(1))
	return ofRange(width, big.NewInt(1), low, high)
}

// SAbove returns the signed strided interval {v | v > k}.
func SAbove(k int64, width uint32) SI {
	signedMax := new(big.Int).Sub(signedMinCanonical(width), big.NewInt(1))
	if reduce(big.NewInt(k), width).Cmp(signedMax) == 0 {
		return EmptySI(width)
	}
	return SAboveeq(k+1, width)
}
