// Package vsa provides the public API for the value-set analysis
// engine: a sound, widening abstract interpreter that computes an
// over-approximation of every SSA variable's possible values at every
// point of a control-flow graph.
//
// # Quick Start
//
//	prog := vsa.NewProgram(entry, vertices, edges)
//	d, err := vsa.Analyze(prog, vsa.Config{
//		SP:  vsa.NewScalar("ESP", 32),
//		Mem: vsa.NewArray("mem"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	state := d.StateAt("bb7")
//
// # How It Works
//
// The engine walks the CFG with a forward worklist dataflow: at each
// vertex it merges the edge-refined states of every predecessor, then
// runs each statement's transfer function in sequence. A vertex
// revisited past a configurable threshold switches from join (meet) to
// widen, which trades precision for fast termination over the
// strided-interval lattice's long (but finite) ascending chains.
//
// Values are tracked as value sets: finite unions of (region, strided
// interval) pairs, where a region is an opaque disjoint address space
// (the global region, or a named stack/heap region) and a strided
// interval is an arithmetic progression low, low+stride, ..., high at a
// fixed bit width. Memory is modeled as a persistent, copy-on-write map
// from region and offset to value set, supporting both precise (strong)
// updates at a single concrete address and conservative (weak) updates
// when a write's address is itself only known up to a value set.
package vsa
