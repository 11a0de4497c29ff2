package ssa

import "fmt"

// Stmt is the statement sum type the statement transfer function
// dispatches on (original spec §4.4). Label, Comment, Assert, and Halt
// are identity statements at the abstract level: they never change
// AbsEnv.
type Stmt interface {
	stmt()
	String() string
}

// Move binds the result of evaluating E to V (original spec §4.4,
// "assignment"). V.Kind determines whether E is expected to evaluate to
// a Scalar or an Array.
type Move struct {
	V Var
	E Expr
}

func (Move) stmt()           {}
func (m Move) String() string { return fmt.Sprintf("%s := %v", m.V, m.E) }

// Special models an opaque external call: every Scalar variable in Defs
// is rebound to top of its width; Array (memory) variables in Defs and
// everything else are left unchanged (original spec §4.4).
type Special struct {
	Name string
	Defs []Var
}

func (Special) stmt()           {}
func (s Special) String() string { return fmt.Sprintf("special %s (defines %d)", s.Name, len(s.Defs)) }

// Assert is a runtime check the abstract interpreter does not enforce;
// it is an identity statement (original spec §4.4).
type Assert struct {
	E Expr
}

func (Assert) stmt()           {}
func (a Assert) String() string { return fmt.Sprintf("assert %v", a.E) }

// Assume is a hint that E holds at this point; like Assert, this
// module treats it as an identity statement rather than refining state
// from it (refinement is edge-transfer's job, not Assume's, original
// spec §4.4/§4.5).
type Assume struct {
	E Expr
}

func (Assume) stmt()           {}
func (a Assume) String() string { return fmt.Sprintf("assume %v", a.E) }

// Jmp is an unconditional jump, terminating a vertex.
type Jmp struct {
	Target VertexID
}

func (Jmp) stmt()           {}
func (j Jmp) String() string { return fmt.Sprintf("jmp %s", j.Target) }

// CJmp is a conditional jump, terminating a vertex. The outgoing edges
// to TrueTarget/FalseTarget carry the EdgeLabel the edge transfer
// function refines along (original spec §4.5).
type CJmp struct {
	Cond                    Expr
	TrueTarget, FalseTarget VertexID
}

func (CJmp) stmt()           {}
func (c CJmp) String() string { return fmt.Sprintf("cjmp %v ? %s : %s", c.Cond, c.TrueTarget, c.FalseTarget) }

// Label and Comment are no-ops kept for fidelity to the source program;
// they never affect AbsEnv.
type Label struct{ Name string }

func (Label) stmt()           {}
func (l Label) String() string { return fmt.Sprintf("%s:", l.Name) }

type Comment struct{ Text string }

func (Comment) stmt()           {}
func (c Comment) String() string { return "# " + c.Text }

// Halt terminates the program; it has no successors.
type Halt struct{}

func (Halt) stmt()           {}
func (Halt) String() string { return "halt" }
