package driver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/transfer"
)

// Stats summarizes a completed Run: VerticesVisited counts vertex visits
// (one per worklist pop, so a vertex visited twice counts twice) and
// Widenings counts the visits that merged with widen instead of meet.
// Exposed for callers who
// want to sanity-check convergence behavior without instrumenting the
// driver themselves (original spec's fixpoint driver has no stats
// contract, but PromotionStats in the teacher's detector package is
// exactly this shape of "counters a caller inspects after the fact").
type Stats struct {
	VerticesVisited int
	Widenings       int
}

// Driver runs the fixpoint dataflow over a Program and holds the
// resulting per-vertex state.
type Driver struct {
	program *ssa.Program
	cfg     Config
	log     *logrus.Logger

	entry       *absenv.AbsEnv
	states      map[ssa.VertexID]*absenv.AbsEnv
	visitCounts map[ssa.VertexID]int
	stats       Stats
}

// New constructs a Driver for program under cfg but does not run it.
func New(program *ssa.Program, cfg Config) *Driver {
	return &Driver{
		program:     program,
		cfg:         cfg,
		log:         cfg.logger(),
		states:      map[ssa.VertexID]*absenv.AbsEnv{},
		visitCounts: map[ssa.VertexID]int{},
	}
}

// Run executes the worklist to fixpoint. It fails fast on configuration
// errors (original spec §7, "Configuration failure... fatal, surfaced
// immediately at init") and otherwise always returns, since SI's finite
// ascending chains plus widening guarantee termination (original spec
// §4.6).
func (d *Driver) Run() error {
	entryEnv, err := initEnv(d.cfg)
	if err != nil {
		return err
	}
	d.states[d.program.Entry] = entryEnv

	worklist := []ssa.VertexID{d.program.Entry}
	queued := map[ssa.VertexID]bool{d.program.Entry: true}

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		queued[id] = false

		out, changed := d.visit(id)
		if !changed {
			continue
		}
		d.states[id] = out
		for _, e := range d.program.Successors(id) {
			if !queued[e.To] {
				queued[e.To] = true
				worklist = append(worklist, e.To)
			}
		}
	}
	return nil
}

// visit computes vertex id's new output state: meet (or widen, past the
// threshold) the edge-refined predecessor states, then run each
// statement's transfer in order. It reports whether the result differs
// from the cached output.
func (d *Driver) visit(id ssa.VertexID) (*absenv.AbsEnv, bool) {
	d.stats.VerticesVisited++
	d.visitCounts[id]++
	widening := d.visitCounts[id] > d.cfg.nmeets()
	if widening {
		d.stats.Widenings++
	}

	var in *absenv.AbsEnv
	preds := d.program.Predecessors(id)
	if id == d.program.Entry {
		in = d.states[d.program.Entry]
	}
	for _, e := range preds {
		predState := d.states[e.From]
		if predState == nil {
			continue
		}
		refined := transfer.Edge(predState, e.Label, d.cfg.SignednessHack, d.cfg.memMax())
		if widening {
			in = absenv.WidenLattice(in, refined)
		} else {
			in = absenv.MeetLattice(in, refined)
		}
	}

	if in == nil {
		// Unreached so far: top, identical to the zero value the vertex
		// already has cached.
		return d.states[id], false
	}

	out := in
	for _, s := range d.program.Vertex(id).Stmts {
		out = transfer.Stmt(out, s, d.cfg.memMax())
	}

	prev := d.states[id]
	if prev != nil && prev.Equal(out) {
		return prev, false
	}

	d.log.WithFields(logrus.Fields{
		"vertex":   id,
		"widening": widening,
		"visits":   d.visitCounts[id],
	}).Debug("vsa: vertex state updated")

	return out, true
}

// StateAt returns the fixpoint state at vertex id, or nil (top) if the
// vertex was never reached (original spec §6, "state_at(vertex) ->
// LatticeElement").
func (d *Driver) StateAt(id ssa.VertexID) *absenv.AbsEnv {
	return d.states[id]
}

// Stats returns a snapshot of the driver's run statistics.
func (d *Driver) Stats() Stats { return d.stats }

// String renders a one-line summary, e.g. "driver: 12 vertices, 3
// widenings".
func (s Stats) String() string {
	return fmt.Sprintf("driver: %d vertices, %d widenings", s.VerticesVisited, s.Widenings)
}
