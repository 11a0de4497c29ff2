package main

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// programFile is the on-disk JSON shape a vsa analyze/eval invocation
// loads. It is a deliberately small surface over ssa.Program — just
// enough to drive the engine from the command line without requiring a
// Go build step, not a general-purpose IR serialization format.
type programFile struct {
	Entry    string                `json:"entry"`
	Vars     map[string]varSpec    `json:"vars"`
	Vertices map[string][]stmtSpec `json:"vertices"`
	Edges    []edgeSpec            `json:"edges"`
}

type varSpec struct {
	Width uint32 `json:"width"`
	Kind  string `json:"kind"` // "scalar" or "array"
}

type stmtSpec struct {
	Op      string          `json:"op"`
	Var     string          `json:"var,omitempty"`
	Expr    json.RawMessage `json:"expr,omitempty"`
	Defs    []string        `json:"defs,omitempty"`
	Name    string          `json:"name,omitempty"`
	Text    string          `json:"text,omitempty"`
	Target  string          `json:"target,omitempty"`
	Cond    json.RawMessage `json:"cond,omitempty"`
	IfTrue  string          `json:"if_true,omitempty"`
	IfFalse string          `json:"if_false,omitempty"`
}

type edgeSpec struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Taken     bool            `json:"taken"`
	Predicate json.RawMessage `json:"predicate,omitempty"`
}

// exprSpec is the recursive JSON shape of an ssa.Expr, discriminated by
// "kind".
type exprSpec struct {
	Kind  string          `json:"kind"`
	Value string          `json:"value,omitempty"` // int literal, decimal
	Bits  uint32          `json:"bits,omitempty"`
	Var   string          `json:"var,omitempty"`
	Mem   string          `json:"mem,omitempty"`
	Op    string          `json:"op,omitempty"`
	X     json.RawMessage `json:"x,omitempty"`
	Y     json.RawMessage `json:"y,omitempty"`
	Index json.RawMessage `json:"index,omitempty"`
	Args  []json.RawMessage `json:"args,omitempty"`
}

func loadProgram(pf programFile) (*ssa.Program, map[string]ssa.Var, error) {
	vars := map[string]ssa.Var{}
	for name, vs := range pf.Vars {
		switch vs.Kind {
		case "", "scalar":
			vars[name] = ssa.NewScalar(name, vs.Width)
		case "array":
			vars[name] = ssa.NewArray(name)
		default:
			return nil, nil, fmt.Errorf("program: var %q has unknown kind %q", name, vs.Kind)
		}
	}

	var vertices []*ssa.Vertex
	for id, stmts := range pf.Vertices {
		var built []ssa.Stmt
		for _, s := range stmts {
			st, err := decodeStmt(s, vars)
			if err != nil {
				return nil, nil, fmt.Errorf("program: vertex %s: %w", id, err)
			}
			built = append(built, st)
		}
		vertices = append(vertices, &ssa.Vertex{ID: ssa.VertexID(id), Stmts: built})
	}

	var edges []ssa.Edge
	for _, e := range pf.Edges {
		edge := ssa.Edge{From: ssa.VertexID(e.From), To: ssa.VertexID(e.To)}
		if len(e.Predicate) > 0 {
			pred, err := decodeExpr(e.Predicate, vars)
			if err != nil {
				return nil, nil, fmt.Errorf("program: edge %s->%s: %w", e.From, e.To, err)
			}
			edge.Label = &ssa.EdgeLabel{Taken: e.Taken, Predicate: pred}
		}
		edges = append(edges, edge)
	}

	return ssa.NewProgram(ssa.VertexID(pf.Entry), vertices, edges), vars, nil
}

func decodeStmt(s stmtSpec, vars map[string]ssa.Var) (ssa.Stmt, error) {
	switch s.Op {
	case "move":
		v, ok := vars[s.Var]
		if !ok {
			return nil, fmt.Errorf("move: undeclared variable %q", s.Var)
		}
		e, err := decodeExpr(s.Expr, vars)
		if err != nil {
			return nil, err
		}
		return ssa.Move{V: v, E: e}, nil

	case "special":
		var defs []ssa.Var
		for _, name := range s.Defs {
			v, ok := vars[name]
			if !ok {
				return nil, fmt.Errorf("special: undeclared variable %q", name)
			}
			defs = append(defs, v)
		}
		return ssa.Special{Name: s.Name, Defs: defs}, nil

	case "assert":
		e, err := decodeExpr(s.Expr, vars)
		if err != nil {
			return nil, err
		}
		return ssa.Assert{E: e}, nil

	case "assume":
		e, err := decodeExpr(s.Expr, vars)
		if err != nil {
			return nil, err
		}
		return ssa.Assume{E: e}, nil

	case "jmp":
		return ssa.Jmp{Target: ssa.VertexID(s.Target)}, nil

	case "cjmp":
		cond, err := decodeExpr(s.Cond, vars)
		if err != nil {
			return nil, err
		}
		return ssa.CJmp{Cond: cond, TrueTarget: ssa.VertexID(s.IfTrue), FalseTarget: ssa.VertexID(s.IfFalse)}, nil

	case "label":
		return ssa.Label{Name: s.Name}, nil

	case "comment":
		return ssa.Comment{Text: s.Text}, nil

	case "halt":
		return ssa.Halt{}, nil
	}
	return nil, fmt.Errorf("unknown statement op %q", s.Op)
}

func decodeExpr(raw json.RawMessage, vars map[string]ssa.Var) (ssa.Expr, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing expression")
	}
	var spec exprSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case "lit":
		v, ok := new(big.Int).SetString(spec.Value, 10)
		if !ok {
			return nil, fmt.Errorf("lit: invalid integer %q", spec.Value)
		}
		return ssa.IntLit{Value: v, Bits: spec.Bits}, nil

	case "var":
		v, ok := vars[spec.Var]
		if !ok {
			return nil, fmt.Errorf("var: undeclared variable %q", spec.Var)
		}
		return ssa.VarRef{Var: v}, nil

	case "phi":
		var args []ssa.Expr
		for _, a := range spec.Args {
			ae, err := decodeExpr(a, vars)
			if err != nil {
				return nil, err
			}
			args = append(args, ae)
		}
		kind := ssa.Scalar
		if spec.Op == "array" {
			kind = ssa.Array
		}
		return ssa.Phi{Args: args, Bits: spec.Bits, Kind: kind}, nil

	case "binop":
		x, err := decodeExpr(spec.X, vars)
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(spec.Y, vars)
		if err != nil {
			return nil, err
		}
		op, err := decodeBinOp(spec.Op)
		if err != nil {
			return nil, err
		}
		return ssa.BinOp{Op: op, X: x, Y: y, Bits: spec.Bits}, nil

	case "unop":
		x, err := decodeExpr(spec.X, vars)
		if err != nil {
			return nil, err
		}
		op, err := decodeUnOp(spec.Op)
		if err != nil {
			return nil, err
		}
		return ssa.UnOp{Op: op, X: x, Bits: spec.Bits}, nil

	case "cast":
		x, err := decodeExpr(spec.X, vars)
		if err != nil {
			return nil, err
		}
		kind, err := decodeCastKind(spec.Op)
		if err != nil {
			return nil, err
		}
		return ssa.Cast{Kind: kind, X: x, Bits: spec.Bits}, nil

	case "load":
		mem, ok := vars[spec.Mem]
		if !ok {
			return nil, fmt.Errorf("load: undeclared memory variable %q", spec.Mem)
		}
		idx, err := decodeExpr(spec.Index, vars)
		if err != nil {
			return nil, err
		}
		return ssa.Load{Mem: mem, Index: idx, Bits: spec.Bits}, nil

	case "store":
		mem, ok := vars[spec.Mem]
		if !ok {
			return nil, fmt.Errorf("store: undeclared memory variable %q", spec.Mem)
		}
		idx, err := decodeExpr(spec.Index, vars)
		if err != nil {
			return nil, err
		}
		val, err := decodeExpr(spec.Y, vars)
		if err != nil {
			return nil, err
		}
		return ssa.Store{Mem: mem, Index: idx, Value: val}, nil

	case "cmp":
		x, err := decodeExpr(spec.X, vars)
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(spec.Y, vars)
		if err != nil {
			return nil, err
		}
		op, err := decodeCmpOp(spec.Op)
		if err != nil {
			return nil, err
		}
		return ssa.Cmp{Op: op, X: x, Y: y}, nil

	case "unknown", "":
		return ssa.Unknown{Bits: spec.Bits}, nil
	}
	return nil, fmt.Errorf("unknown expression kind %q", spec.Kind)
}

func decodeBinOp(s string) (valueset.BinOp, error) {
	switch s {
	case "add":
		return valueset.Add, nil
	case "sub":
		return valueset.Sub, nil
	case "mul":
		return valueset.Mul, nil
	case "udiv":
		return valueset.UDiv, nil
	case "sdiv":
		return valueset.SDiv, nil
	case "umod":
		return valueset.UMod, nil
	case "smod":
		return valueset.SMod, nil
	case "and":
		return valueset.And, nil
	case "or":
		return valueset.Or, nil
	case "xor":
		return valueset.Xor, nil
	case "shl":
		return valueset.Shl, nil
	case "lshr":
		return valueset.LShr, nil
	case "ashr":
		return valueset.AShr, nil
	}
	return 0, fmt.Errorf("unknown binop %q", s)
}

func decodeUnOp(s string) (valueset.UnOp, error) {
	switch s {
	case "neg":
		return valueset.Neg, nil
	case "not":
		return valueset.Not, nil
	}
	return 0, fmt.Errorf("unknown unop %q", s)
}

func decodeCastKind(s string) (valueset.CastKind, error) {
	switch s {
	case "zext":
		return valueset.ZeroExtend, nil
	case "sext":
		return valueset.SignExtend, nil
	case "trunc":
		return valueset.Truncate, nil
	}
	return 0, fmt.Errorf("unknown cast kind %q", s)
}

func decodeCmpOp(s string) (ssa.CmpOp, error) {
	switch s {
	case "eq":
		return ssa.EQ, nil
	case "neq":
		return ssa.NEQ, nil
	case "lt":
		return ssa.LT, nil
	case "le":
		return ssa.LE, nil
	case "slt":
		return ssa.SLT, nil
	case "sle":
		return ssa.SLE, nil
	}
	return 0, fmt.Errorf("unknown comparison op %q", s)
}
