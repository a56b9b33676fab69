package op

import (
	"fmt"

	"github.com/estima-ml/estima/internal/tensor"
)

// Onehot transforms an integer class label into a one-hot encoded float32
// vector, optionally softened by label smoothing: the true class receives
// 1 - smoothing + smoothing/numClasses and every other class receives
// smoothing/numClasses, so the vector always sums to 1.
//
// Label smoothing increases robustness against incorrectly labeled samples.
type Onehot struct {
	Core
	numClasses int
	smoothing  float64
}

// OnehotOption configures an Onehot op.
type OnehotOption func(*Onehot)

// WithLabelSmoothing sets the smoothing factor, in [0, 1].
func WithLabelSmoothing(s float64) OnehotOption {
	return func(o *Onehot) { o.smoothing = s }
}

// WithModes restricts the modes the op runs in; "!x" negation is supported.
func WithModes(specs ...string) OnehotOption {
	return func(o *Onehot) { o.SetModes(specs...) }
}

// WithDSIDs restricts the dataset ids the op runs in.
func WithDSIDs(specs ...string) OnehotOption {
	return func(o *Onehot) { o.SetDSIDs(specs...) }
}

// NewOnehot creates a Onehot op reading labels under the input keys and
// writing vectors under the output keys. numClasses must be positive and
// the smoothing factor must stay in [0, 1]; violations panic since they are
// construction-time programmer errors, not data errors.
func NewOnehot(inputs, outputs []string, numClasses int, opts ...OnehotOption) *Onehot {
	if numClasses <= 0 {
		panic(fmt.Sprintf("onehot: numClasses must be positive, got %d", numClasses))
	}

	o := &Onehot{
		Core:       NewCore(inputs, outputs),
		numClasses: numClasses,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.smoothing < 0 || o.smoothing > 1 {
		panic(fmt.Sprintf("onehot: label smoothing must be in [0, 1], got %f", o.smoothing))
	}
	return o
}

// Forward encodes each label independently, returning the vectors in input
// order. Inputs are not mutated.
func (o *Onehot) Forward(data []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	out := make([]*tensor.RawTensor, len(data))
	for i, elem := range data {
		encoded, err := o.apply(elem)
		if err != nil {
			return nil, err
		}
		out[i] = encoded
	}
	return out, nil
}

// apply encodes a single label: a scalar integer tensor, or an integer
// array holding exactly one element.
func (o *Onehot) apply(label *tensor.RawTensor) (*tensor.RawTensor, error) {
	const opName = "onehot"

	if !label.DType().IsInt() {
		return nil, &tensor.TypeConstraintError{Op: opName, Want: "int32 or int64 label", Got: label.DType()}
	}
	if label.NumElements() != 1 {
		return nil, &tensor.ShapeError{Op: opName, Want: "exactly one element", Got: label.Shape()}
	}

	class := label.IndexValues()[0]
	if class < 0 || class >= o.numClasses {
		return nil, &tensor.RangeError{Op: opName, Label: class, NumClasses: o.numClasses}
	}

	out, err := tensor.NewRaw(tensor.Shape{o.numClasses}, tensor.Float32, label.Device())
	if err != nil {
		return nil, err
	}

	fill := float32(o.smoothing / float64(o.numClasses))
	vec := out.AsFloat32()
	for i := range vec {
		vec[i] = fill
	}
	vec[class] = float32(1.0 - o.smoothing + o.smoothing/float64(o.numClasses))
	return out, nil
}
