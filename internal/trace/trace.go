package trace

import (
	"github.com/estima-ml/estima/internal/exec"
)

// System carries the pipeline position a trace observes: the current
// execution mode, the dataset id of the batch in flight (empty when the
// loop runs a single unnamed dataset) and the epoch index. The external
// loop owns and updates it; traces only read.
type System struct {
	Mode     string
	DSID     string
	EpochIdx int
}

// Trace is an evaluation-time callback object. The external loop drives the
// sequence OnEpochBegin, OnBatchEnd repeated per batch, OnEpochEnd, calling
// each hook only when Accepts allows the current mode and dataset id. Hooks
// are invoked sequentially; traces need no internal synchronization.
type Trace interface {
	Inputs() []string
	Outputs() []string

	Accepts(mode, dsID string) bool
	SetSystem(s *System)

	OnEpochBegin(d *Data)
	OnBatchEnd(d *Data)
	OnEpochEnd(d *Data)
}

// Core carries the bookkeeping every trace shares: key wiring, activation
// filters and the System reference.
type Core struct {
	inputs  []string
	outputs []string
	modes   exec.Filter
	dsIDs   exec.Filter
	system  *System
}

// NewCore builds the shared trace state. Filters accept everything until
// narrowed with SetModes / SetDSIDs.
func NewCore(inputs, outputs []string) Core {
	return Core{
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
	}
}

// Inputs returns the keys the trace reads from Data.
func (c *Core) Inputs() []string {
	return c.inputs
}

// Outputs returns the keys the trace writes to Data.
func (c *Core) Outputs() []string {
	return c.outputs
}

// SetModes restricts the modes the trace runs in; "!x" negation is supported.
func (c *Core) SetModes(specs ...string) {
	c.modes = exec.MustFilter(specs...)
}

// SetDSIDs restricts the dataset ids the trace runs in.
func (c *Core) SetDSIDs(specs ...string) {
	c.dsIDs = exec.MustFilter(specs...)
}

// Accepts reports whether the trace runs for the given mode and dataset id.
func (c *Core) Accepts(mode, dsID string) bool {
	return c.modes.Accepts(mode) && c.dsIDs.Accepts(dsID)
}

// SetSystem attaches the pipeline state.
func (c *Core) SetSystem(s *System) {
	c.system = s
}

// System returns the attached pipeline state, or nil.
func (c *Core) System() *System {
	return c.system
}
