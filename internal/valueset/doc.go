// Package valueset implements the strided-interval / value-set algebra
// that the abstract interpreter treats as an external library (see
// SPEC_FULL.md §6, "VS/SI library contract").
//
// A StridedInterval (SI) is a tuple (width, stride, low, high) denoting
// the arithmetic progression {low + k*stride | 0 <= k, low+k*stride <=
// high}, modulo 2^width, with a distinguished Top (every value of the
// width) and Empty. A ValueSet (VS) is a finite union of (region, SI)
// pairs sharing one width, with its own distinguished Top and Empty.
//
// This package has no published ecosystem equivalent for binary-analysis
// style value-set arithmetic, so it is implemented here rather than
// imported; see DESIGN.md for why. It leans on the shape of two pack
// references for precedent: ericlagergren's go-vrp range-analysis package
// (an interval lattice for an SSA value-range analysis) and the teacher's
// own vectorclock.Join for "merge is a small pure function over two
// immutable value structs."
//
// Several operations (general multiplication, bitwise ops on non-singleton
// operands, wraparound-precise union across the whole circle) are
// intentionally conservative: they degrade to Top rather than attempt
// exact strided-interval arithmetic the literature shows is expensive to
// compute precisely. Every core transfer function this package backs is
// already required to tolerate operations degrading to Top (original
// spec §4.3, §7), so conservative arithmetic here is sound, just less
// precise than a production implementation might be.
package valueset
