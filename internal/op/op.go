// Package op provides data-preprocessing operators applied element-wise over
// a batch by the surrounding pipeline.
package op

import (
	"github.com/estima-ml/estima/internal/exec"
	"github.com/estima-ml/estima/internal/tensor"
)

// Op is a preprocessing operator. Forward receives one tensor per input key
// for a batch element and returns one tensor per output key. Ops are pure:
// inputs are not mutated and no state is retained across calls.
type Op interface {
	Inputs() []string
	Outputs() []string

	// Accepts reports whether the op runs for the given mode and dataset id.
	Accepts(mode, dsID string) bool

	Forward(data []*tensor.RawTensor) ([]*tensor.RawTensor, error)
}

// Core carries the bookkeeping every op shares: key wiring and the
// mode/dataset activation filters.
type Core struct {
	inputs  []string
	outputs []string
	modes   exec.Filter
	dsIDs   exec.Filter
}

// NewCore builds the shared op state. Mode and dataset filters accept
// everything until narrowed via the setters.
func NewCore(inputs, outputs []string) Core {
	return Core{
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
	}
}

// Inputs returns the op's input keys.
func (c *Core) Inputs() []string {
	return c.inputs
}

// Outputs returns the op's output keys.
func (c *Core) Outputs() []string {
	return c.outputs
}

// SetModes restricts the modes the op runs in; "!x" negation is supported.
func (c *Core) SetModes(specs ...string) {
	c.modes = exec.MustFilter(specs...)
}

// SetDSIDs restricts the dataset ids the op runs in; "!x" negation is supported.
func (c *Core) SetDSIDs(specs ...string) {
	c.dsIDs = exec.MustFilter(specs...)
}

// Accepts reports whether the op runs for the given mode and dataset id.
func (c *Core) Accepts(mode, dsID string) bool {
	return c.modes.Accepts(mode) && c.dsIDs.Accepts(dsID)
}
