package ssa

import (
	"fmt"
	"math/big"

	"github.com/kolkov/vsa/internal/valueset"
)

// Expr is the expression sum type the evaluator dispatches on (original
// spec §4.3): literals, variable references, phi nodes, scalar operators,
// memory reads/writes, comparisons, and an explicit catch-all. Concrete
// cases implement expr() as a marker; callers type-switch rather than
// calling virtual methods, matching the dispatch-table shape of go-vrp's
// range-propagation walker.
type Expr interface {
	expr()
	// Width reports the bit width an evaluated Scalar result would carry.
	// Array-producing expressions (Store) report 0; callers must not use
	// Width for those.
	Width() uint32
	String() string
}

// IntLit is a constant of a fixed width.
type IntLit struct {
	Value *big.Int
	Bits  uint32
}

func (IntLit) expr()            {}
func (l IntLit) Width() uint32  { return l.Bits }
func (l IntLit) String() string { return fmt.Sprintf("%s:%d", l.Value.String(), l.Bits) }

// VarRef reads the current binding of an SSA variable (scalar or array).
type VarRef struct {
	Var Var
}

func (VarRef) expr()            {}
func (r VarRef) Width() uint32  { return r.Var.Width }
func (r VarRef) String() string { return r.Var.String() }

// Phi merges the bindings flowing in along each predecessor edge. Args
// lists one operand per predecessor, in predecessor-edge order; an
// operand may itself be any Expr (typically a VarRef), matching the
// generalized phi original spec §4.3/§4.4 describes rather than
// restricting phi to bare variable operands.
type Phi struct {
	Args []Expr
	Bits uint32
	Kind VarKind
}

func (Phi) expr()           {}
func (p Phi) Width() uint32 { return p.Bits }
func (p Phi) String() string {
	return fmt.Sprintf("phi(%d args)", len(p.Args))
}

// BinOp applies a scalar binary operator to two operands.
type BinOp struct {
	Op   valueset.BinOp
	X, Y Expr
	Bits uint32
}

func (BinOp) expr()            {}
func (b BinOp) Width() uint32  { return b.Bits }
func (b BinOp) String() string { return fmt.Sprintf("binop(%v, %v)", b.X, b.Y) }

// UnOp applies a scalar unary operator.
type UnOp struct {
	Op   valueset.UnOp
	X    Expr
	Bits uint32
}

func (UnOp) expr()            {}
func (u UnOp) Width() uint32  { return u.Bits }
func (u UnOp) String() string { return fmt.Sprintf("unop(%v)", u.X) }

// Cast changes the width of a scalar expression.
type Cast struct {
	Kind valueset.CastKind
	X    Expr
	Bits uint32
}

func (Cast) expr()            {}
func (c Cast) Width() uint32  { return c.Bits }
func (c Cast) String() string { return fmt.Sprintf("cast(%v -> %d)", c.X, c.Bits) }

// Load reads Bits bits starting at byte address Index out of memory
// variable Mem (original spec §4.3, "memory read: dispatch into
// MemStore.Read at the evaluated address").
type Load struct {
	Mem   Var
	Index Expr
	Bits  uint32
}

func (Load) expr()            {}
func (l Load) Width() uint32  { return l.Bits }
func (l Load) String() string { return fmt.Sprintf("load(%s, %v)", l.Mem.Name, l.Index) }

// Store writes Value at byte address Index into memory variable Mem,
// producing an updated MemStore (an Array-kind result, original spec
// §4.3 "memory write"). Store normally appears only in Array-typed
// contexts (the right-hand side of a Move to an Array variable); if it
// is ever evaluated in a Scalar context that is the one explicitly
// unimplemented case original spec §4.3/§7 calls out, and the evaluator
// degrades it to scalar Top rather than panicking.
type Store struct {
	Mem   Var
	Index Expr
	Value Expr
}

func (Store) expr()            {}
func (Store) Width() uint32    { return 0 }
func (s Store) String() string { return fmt.Sprintf("store(%s, %v, %v)", s.Mem.Name, s.Index, s.Value) }

// CmpOp names a comparison operator. EQ doubles as both the equality
// test used directly (x == k) and the outer wrapper original spec §4.5
// uses to turn an inner comparison's boolean result into a branch
// predicate: Cmp(EQ, Cmp(op, x, k), boolLiteral).
type CmpOp uint8

const (
	EQ CmpOp = iota
	NEQ
	LT
	LE
	SLT
	SLE
)

func (op CmpOp) String() string {
	switch op {
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case LT:
		return "<u"
	case LE:
		return "<=u"
	case SLT:
		return "<s"
	case SLE:
		return "<=s"
	}
	return "?"
}

// Cmp compares two same-width operands and produces a 1-bit boolean
// result.
type Cmp struct {
	Op   CmpOp
	X, Y Expr
}

func (Cmp) expr()           {}
func (Cmp) Width() uint32   { return 1 }
func (c Cmp) String() string { return fmt.Sprintf("%v %s %v", c.X, c.Op, c.Y) }

// Unknown stands for any expression form the transformation does not
// model; evaluating it always yields top of the given width (original
// spec §4.3, "anything else -> top").
type Unknown struct {
	Bits uint32
}

func (Unknown) expr()           {}
func (u Unknown) Width() uint32 { return u.Bits }
func (Unknown) String() string  { return "unknown" }
