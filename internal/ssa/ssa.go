// Package ssa defines the SSA/CFG program representation the abstract
// interpreter's transfer functions pattern-match against.
//
// Original spec §6 treats SSA construction, three-address-code lowering,
// copy propagation, and condition simplification as client pre-passes
// that have already run by the time a Program reaches this module — this
// package only needs to describe the *shape* those pre-passes produce.
// It is grounded on the naming conventions of golang.org/x/tools/ssa (see
// tmc-mirror-go.tools/ssa in the retrieval pack: BasicBlock, Instruction,
// Value) and on the expression-walking shape of ericlagergren's go-vrp
// range-analysis package, both read-only precedent rather than vendored
// code.
package ssa

import "fmt"

// VarKind distinguishes register-typed (scalar) SSA variables from
// memory-typed (array) ones (original spec §3, "AbsEnv").
type VarKind uint8

const (
	Scalar VarKind = iota
	Array
)

func (k VarKind) String() string {
	if k == Array {
		return "array"
	}
	return "scalar"
}

// Var is an SSA variable identity: a name, its declared bit width (for
// Scalar variables; ignored for Array ones), and its kind.
type Var struct {
	Name  string
	Width uint32
	Kind  VarKind
}

// String renders "name:width" for scalars and "name" for arrays.
func (v Var) String() string {
	if v.Kind == Array {
		return v.Name
	}
	return fmt.Sprintf("%s:%d", v.Name, v.Width)
}

// NewScalar declares a register-typed variable of the given width.
func NewScalar(name string, width uint32) Var {
	return Var{Name: name, Width: width, Kind: Scalar}
}

// NewArray declares a memory-typed variable.
func NewArray(name string) Var {
	return Var{Name: name, Kind: Array}
}
