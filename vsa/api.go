package vsa

import (
	"github.com/sirupsen/logrus"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/driver"
	"github.com/kolkov/vsa/internal/eval"
	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// Re-exported program-construction types. Clients build a Program out
// of these without ever importing this module's internal packages
// directly — the same "public facade over an internal engine" shape as
// this project's predecessor's race/api.go over internal/race/api.
type (
	Var       = ssa.Var
	Expr      = ssa.Expr
	Stmt      = ssa.Stmt
	Program   = ssa.Program
	VertexID  = ssa.VertexID
	Edge      = ssa.Edge
	EdgeLabel = ssa.EdgeLabel
	Vertex    = ssa.Vertex

	VS       = valueset.VS
	MemStore = memstore.MemStore
	AbsEnv   = absenv.AbsEnv

	InitialByte = driver.InitialByte
	Stats       = driver.Stats
)

// NewProgram, NewScalar, and NewArray re-export the ssa package's
// constructors so callers never need an internal import to build a
// Program.
var (
	NewProgram = ssa.NewProgram
	NewScalar  = ssa.NewScalar
	NewArray   = ssa.NewArray
)

// Config configures an analysis run.
type Config struct {
	InitialMem     []InitialByte
	SP             Var
	Mem            Var
	NMeets         int
	SignednessHack bool
	MemMax         int
	Logger         *logrus.Logger
}

func (c Config) toDriver() driver.Config {
	return driver.Config{
		InitialMem:     c.InitialMem,
		SP:             c.SP,
		Mem:            c.Mem,
		NMeets:         c.NMeets,
		SignednessHack: c.SignednessHack,
		MemMax:         c.MemMax,
		Logger:         c.Logger,
	}
}

// Driver holds the fixpoint state of a completed (or in-progress)
// analysis run.
type Driver struct {
	inner *driver.Driver
}

// Analyze runs the fixpoint dataflow over prog to completion and
// returns a Driver exposing the result.
func Analyze(prog *Program, cfg Config) (*Driver, error) {
	d := driver.New(prog, cfg.toDriver())
	if err := d.Run(); err != nil {
		return nil, err
	}
	return &Driver{inner: d}, nil
}

// StateAt returns the fixpoint lattice element at vertex id, or nil
// (top) if the vertex was never reached.
func (d *Driver) StateAt(id VertexID) *AbsEnv {
	return d.inner.StateAt(id)
}

// Stats returns run statistics (vertices visited, widenings applied).
func (d *Driver) Stats() Stats {
	return d.inner.Stats()
}

// EvalScalar evaluates a scalar-producing expression against env,
// reusable by clients that need to resolve, e.g., an indirect jump
// target (original spec §6, "eval_expr(env, e) -> VS | MemStore").
func EvalScalar(env *AbsEnv, e Expr, memMax int) VS {
	return eval.Scalar(env, e, memMax)
}

// EvalArray is EvalScalar's memory-producing counterpart.
func EvalArray(env *AbsEnv, e Expr, memMax int) MemStore {
	return eval.Array(env, e, memMax)
}

// Pretty renders a lattice element for debug output. A nil env (top)
// renders as "T".
func Pretty(env *AbsEnv) string {
	if env == nil {
		return "T"
	}
	return env.String()
}
