// Package driver implements the forward worklist fixpoint dataflow over
// an ssa.Program (original spec §4.6): seeding the entry vertex, meeting
// predecessor states at each visit, running the statement transfer in
// order, widening once a vertex has been revisited past its threshold,
// and exposing the resulting per-vertex state.
//
// Grounded on the Detector's top-level loop shape (internal/race/detector
// /detector.go: a long-lived object holding mutable state, processed one
// event at a time) and on PromotionStats/sampler.go for the idea of a
// small stats struct a caller can inspect after a run.
package driver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kolkov/vsa/internal/absenv"
	"github.com/kolkov/vsa/internal/memstore"
	"github.com/kolkov/vsa/internal/region"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/internal/valueset"
)

// DefaultNMeets is the widening threshold used when Config.NMeets is
// left at zero.
const DefaultNMeets = 3

// InitialByte seeds one byte of the global region's initial memory image
// (original spec §4.6, "init.mem").
type InitialByte struct {
	Address int64
	Value   byte
}

// Config configures a Driver run (original spec §6, "Configuration input
// to the driver").
//
//nolint:revive // Config is more descriptive than Options for this package's public API.
type Config struct {
	// InitialMem pre-populates the global region of the seeded memory
	// store, one byte (at width 8) per entry.
	InitialMem []InitialByte

	// SP is the SSA variable identity for the architecture's stack
	// pointer; it is seeded to a singleton value set in its own region
	// at offset 0.
	SP ssa.Var

	// Mem is the SSA variable identity for memory.
	Mem ssa.Var

	// NMeets is the widening threshold: a vertex switches from meet to
	// widen once it has been visited more than this many times. Zero
	// selects DefaultNMeets.
	NMeets int

	// SignednessHack enables the unsound-on-overflow edge-refinement
	// fast path (original spec §4.5, §7). The zero value leaves it
	// disabled; the driver applies no default of its own (the vsa CLI's
	// run configuration defaults it to true).
	SignednessHack bool

	// MemMax bounds MemStore's address-set enumeration and per-region
	// entry count (original spec §5). Zero selects memstore.DefaultMemMax.
	MemMax int

	// Logger receives structured progress/widening diagnostics. A nil
	// Logger disables logging rather than panicking, matching original
	// spec §5's "optional debug logging".
	Logger *logrus.Logger
}

func (c Config) nmeets() int {
	if c.NMeets <= 0 {
		return DefaultNMeets
	}
	return c.NMeets
}

func (c Config) memMax() int {
	if c.MemMax <= 0 {
		return memstore.DefaultMemMax
	}
	return c.MemMax
}

func (c Config) logger() *logrus.Logger {
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(discard{})
		return l
	}
	return c.Logger
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// initEnv builds the AbsEnv seeded at the CFG entry vertex (original spec
// §4.6, "init(options)"). SP and Mem must both be valid, non-sentinel
// variable identities; a blank Name is treated as the unconfigured
// sentinel and fails fast.
func initEnv(cfg Config) (*absenv.AbsEnv, error) {
	if cfg.SP.Name == "" {
		return nil, fmt.Errorf("driver: SP variable not configured")
	}
	if cfg.Mem.Name == "" {
		return nil, fmt.Errorf("driver: Mem variable not configured")
	}

	env := absenv.New()
	// The stack-pointer variable gets its own named region, keyed by the
	// variable's name, so stack offsets never alias global addresses.
	// Two SP variables with the same name share that region.
	spRegion := region.New(cfg.SP.Name)
	env = env.Bind(cfg.SP, absenv.ScalarValue(valueset.OfRegionOffset(spRegion, 0, cfg.SP.Width)))

	mem := memstore.New()
	for _, b := range cfg.InitialMem {
		addr := valueset.OfIntVS(b.Address, 64)
		value := valueset.OfIntVS(int64(b.Value), 8)
		mem = mem.Write(8, addr, value, cfg.memMax())
	}
	env = env.Bind(cfg.Mem, absenv.ArrayValue(mem))
	return env, nil
}
