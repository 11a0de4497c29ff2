package ssa

import "fmt"

// VertexID names a basic block within a Program.
type VertexID string

// EdgeLabel records the branch predicate an edge carries and whether
// that edge is the taken (true) or not-taken (false) side of a CJmp
// (original spec §4.5, "edge transfer refines state along the taken and
// not-taken branches differently"). A nil *EdgeLabel (as carried on
// Edge) means the edge is unconditional.
type EdgeLabel struct {
	Taken     bool
	Predicate Expr
}

// Vertex is a basic block: a straight-line statement list ending in a
// control-transfer statement (Jmp, CJmp, or Halt).
type Vertex struct {
	ID    VertexID
	Stmts []Stmt
}

// Edge is one CFG edge, optionally labeled with the predicate that must
// hold to take it.
type Edge struct {
	From, To VertexID
	Label    *EdgeLabel
}

// Program is a full CFG: a vertex set, an edge set, and a distinguished
// entry vertex. Grounded on the BasicBlock/successor-list shape of
// golang.org/x/tools/ssa's Function type (tmc-mirror-go.tools/ssa in the
// retrieval pack), generalized here to a standalone graph independent of
// any source-language front end.
type Program struct {
	Entry    VertexID
	Vertices map[VertexID]*Vertex
	Edges    []Edge

	succ map[VertexID][]Edge
	pred map[VertexID][]Edge
}

// NewProgram builds a Program from its vertices and edges, indexing
// successor/predecessor adjacency for the fixpoint driver's worklist
// traversal.
func NewProgram(entry VertexID, vertices []*Vertex, edges []Edge) *Program {
	p := &Program{
		Entry:    entry,
		Vertices: make(map[VertexID]*Vertex, len(vertices)),
		Edges:    edges,
		succ:     make(map[VertexID][]Edge, len(vertices)),
		pred:     make(map[VertexID][]Edge, len(vertices)),
	}
	for _, v := range vertices {
		p.Vertices[v.ID] = v
	}
	for _, e := range edges {
		p.succ[e.From] = append(p.succ[e.From], e)
		p.pred[e.To] = append(p.pred[e.To], e)
	}
	return p
}

// Successors returns the outgoing edges of id in the order they were
// added.
func (p *Program) Successors(id VertexID) []Edge { return p.succ[id] }

// Predecessors returns the incoming edges of id in the order they were
// added.
func (p *Program) Predecessors(id VertexID) []Edge { return p.pred[id] }

// Vertex looks up a vertex by ID, panicking on an unknown ID: a Program
// referencing a VertexID absent from its own Vertices map is malformed
// and original spec §7 treats that as a fatal construction error, not a
// recoverable runtime condition.
func (p *Program) Vertex(id VertexID) *Vertex {
	v, ok := p.Vertices[id]
	if !ok {
		panic(fmt.Sprintf("ssa: program references undefined vertex %s", id))
	}
	return v
}

// Order returns vertex IDs in a deterministic depth-first order rooted
// at Entry, suitable for seeding the fixpoint driver's initial worklist.
func (p *Program) Order() []VertexID {
	var order []VertexID
	visited := map[VertexID]bool{}
	var visit func(VertexID)
	visit = func(id VertexID) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		for _, e := range p.succ[id] {
			visit(e.To)
		}
	}
	visit(p.Entry)
	return order
}
