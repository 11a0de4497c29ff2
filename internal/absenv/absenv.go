// Package absenv implements AbsEnv, the per-program-point lattice element
// mapping SSA variables to scalar value sets or memory stores (original
// spec §4.2).
//
// Grounded on the teacher's internal/race/goroutine.Context (a per-
// identity mapping with a well-known default for absence) and on
// vectorclock.Join's point-wise merge, generalized here from "per-thread
// clock" to "per-variable value set or memory store".
package absenv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// Value is the tagged lattice value bound to one SSA variable: exactly
// one of Scalar or Array is meaningful, discriminated by IsArray. This is
// the sum type original spec §3/§9 requires to be exhaustively matched,
// never silently coerced.
type Value struct {
	IsArray bool
	Scalar  valueset.VS
	Array   memstore.MemStore
}

// ScalarValue wraps a VS as a scalar binding.
func ScalarValue(vs valueset.VS) Value { return Value{Scalar: vs} }

// ArrayValue wraps a MemStore as a memory binding.
func ArrayValue(m memstore.MemStore) Value { return Value{IsArray: true, Array: m} }

// AbsEnv maps SSA variable identity to a tagged lattice value. A variable
// absent from the map denotes top of its declared width/shape (original
// spec §3).
type AbsEnv struct {
	bindings map[ssa.Var]Value
}

// New returns the empty environment (every variable denotes top).
func New() *AbsEnv {
	return &AbsEnv{bindings: map[ssa.Var]Value{}}
}

// FindScalar returns the scalar value set bound to v, or Top(v.Width) if
// v is absent. It panics if v is bound to an Array — a malformed-SSA
// scalar/array confusion is a fatal programmer error (original spec
// §4.2, §7).
func (e *AbsEnv) FindScalar(v ssa.Var) valueset.VS {
	val, ok := e.bindings[v]
	if !ok {
		return valueset.TopVS(v.Width)
	}
	if val.IsArray {
		panic(fmt.Sprintf("absenv: %s is bound as an array, not a scalar", v))
	}
	return val.Scalar
}

// FindArray is the Array-side symmetric twin of FindScalar.
func (e *AbsEnv) FindArray(v ssa.Var) memstore.MemStore {
	val, ok := e.bindings[v]
	if !ok {
		return memstore.New()
	}
	if !val.IsArray {
		panic(fmt.Sprintf("absenv: %s is bound as a scalar, not an array", v))
	}
	return val.Array
}

// Bind returns a new environment identical to e except that v now maps to
// value (a pure functional update, original spec §4.2, "bind").
func (e *AbsEnv) Bind(v ssa.Var, value Value) *AbsEnv {
	next := make(map[ssa.Var]Value, len(e.bindings)+1)
	for k, val := range e.bindings {
		next[k] = val
	}
	next[v] = value
	return &AbsEnv{bindings: next}
}

// Equal reports whether e and o bind exactly the same variables to
// structurally equal values.
func (e *AbsEnv) Equal(o *AbsEnv) bool {
	if e == o {
		return true
	}
	if len(e.bindings) != len(o.bindings) {
		return false
	}
	for v, val := range e.bindings {
		oval, ok := o.bindings[v]
		if !ok || val.IsArray != oval.IsArray {
			return false
		}
		if val.IsArray {
			if !val.Array.Equal(oval.Array) {
				return false
			}
		} else if !val.Scalar.Equal(oval.Scalar) {
			return false
		}
	}
	return true
}

// combine merges e and o variable-by-variable with scalarOp/arrayOp. It
// is always inclusive: a variable bound on only one side is kept as-is
// (original spec §4.2 "meet"). There is no exclusive variant; Meet and
// Widen below both use this one.
func (e *AbsEnv) combine(o *AbsEnv, scalarOp func(a, b valueset.VS) valueset.VS, arrayOp func(a, b memstore.MemStore) memstore.MemStore) *AbsEnv {
	out := make(map[ssa.Var]Value, len(e.bindings)+len(o.bindings))
	for v, val := range e.bindings {
		out[v] = val
	}
	for v, oval := range o.bindings {
		eval, ok := out[v]
		if !ok {
			out[v] = oval
			continue
		}
		if eval.IsArray != oval.IsArray {
			panic(fmt.Sprintf("absenv: %s bound to incompatible tags across merge sides", v))
		}
		if eval.IsArray {
			out[v] = ArrayValue(arrayOp(eval.Array, oval.Array))
		} else {
			out[v] = ScalarValue(scalarOp(eval.Scalar, oval.Scalar))
		}
	}
	return &AbsEnv{bindings: out}
}

// Meet computes the widening join used at control-flow merges (original
// spec §4.2, "meet"): scalar/array union where both sides bind a
// variable, the defined side's value where only one does.
func (e *AbsEnv) Meet(o *AbsEnv) *AbsEnv {
	return e.combine(o,
		func(a, b valueset.VS) valueset.VS { return a.Union(b) },
		func(a, b memstore.MemStore) memstore.MemStore { return a.Union(b) },
	)
}

// Widen computes the widening merge (original spec §4.2, "widen"): like
// Meet, but two-sided bindings use VS/MemStore widen instead of union.
func (e *AbsEnv) Widen(o *AbsEnv) *AbsEnv {
	return e.combine(o,
		func(a, b valueset.VS) valueset.VS { return a.Widen(b) },
		func(a, b memstore.MemStore) memstore.MemStore { return a.Widen(b) },
	)
}

// MeetLattice and WidenLattice lift Meet/Widen through the lattice's top
// element, represented as a nil *AbsEnv ("no map yet", original spec §3):
// ⊤ ⊔ x = x and ⊤ ∇ x = x.
func MeetLattice(a, b *AbsEnv) *AbsEnv {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return a.Meet(b)
}

// WidenLattice is the widen-lattice counterpart of MeetLattice.
func WidenLattice(a, b *AbsEnv) *AbsEnv {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return a.Widen(b)
}

// String renders a debug form of the environment in variable-name order.
func (e *AbsEnv) String() string {
	names := make([]string, 0, len(e.bindings))
	byName := map[string]ssa.Var{}
	for v := range e.bindings {
		names = append(names, v.Name)
		byName[v.Name] = v
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("AbsEnv{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		v := byName[name]
		val := e.bindings[v]
		b.WriteString(name)
		b.WriteString(" = ")
		if val.IsArray {
			b.WriteString(val.Array.String())
		} else {
			b.WriteString(val.Scalar.String())
		}
	}
	b.WriteString("}")
	return b.String()
}
