// Package loss provides loss functions computed through a tensor backend.
package loss

import (
	"github.com/estima-ml/estima/internal/tensor"
)

// Option configures SparseCategoricalCrossEntropy.
type Option func(*config)

type config struct {
	fromLogits  bool
	averageLoss bool
	weights     ClassWeights
}

// FromLogits marks the predictions as unnormalized logits; a softmax is
// applied before taking the negative log-likelihood.
func FromLogits() Option {
	return func(c *config) { c.fromLogits = true }
}

// Unaveraged returns the per-sample loss vector of shape (Batch) instead of
// the batch mean.
func Unaveraged() Option {
	return func(c *config) { c.averageLoss = false }
}

// WithClassWeights multiplies each sample's loss by the weight of its true
// class. Classes absent from the weights default to 1.0.
func WithClassWeights(w ClassWeights) Option {
	return func(c *config) { c.weights = w }
}

// SparseCategoricalCrossEntropy computes sparse categorical crossentropy:
// the negative log-likelihood of the true class index under the predicted
// distribution.
//
// yPred must have shape (Batch, NumClasses) and a floating dtype. yTrue must
// hold integer class indices in [0, NumClasses), shaped (Batch) or
// (Batch, 1). The computation dispatches through the supplied backend; the
// result has yPred's dtype, shaped (1) when averaged (the default) and
// (Batch) otherwise.
//
// Without FromLogits each yPred row must already sum to 1. That contract is
// documented, not enforced: unnormalized rows silently produce different
// values on different backends, because the logits path normalizes and the
// probability path does not. A zero probability at the true class yields a
// non-finite loss through the logarithm; this is a known hazard and is not
// guarded.
func SparseCategoricalCrossEntropy(b tensor.Backend, yPred, yTrue *tensor.RawTensor, opts ...Option) (*tensor.RawTensor, error) {
	cfg := config{averageLoss: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate(yPred, yTrue); err != nil {
		return nil, err
	}

	ce := b.SparseCrossEntropy(yPred, yTrue, cfg.fromLogits)

	if cfg.weights != nil {
		numClasses := yPred.Shape()[1]
		table, err := tensor.NewRaw(tensor.Shape{numClasses}, yPred.DType(), b.Device())
		if err != nil {
			return nil, err
		}
		storeFloats(table, materialize(cfg.weights, numClasses))

		sampleWeights := b.Gather(table, yTrue)
		ce = b.Mul(ce, sampleWeights)
	}

	if cfg.averageLoss {
		ce = b.Mean(ce)
	}
	return ce, nil
}

// CrossEntropy is the typed convenience wrapper over
// SparseCategoricalCrossEntropy for float32 predictions and int32 labels.
func CrossEntropy[B tensor.Backend](
	yPred *tensor.Tensor[float32, B],
	yTrue *tensor.Tensor[int32, B],
	opts ...Option,
) (*tensor.Tensor[float32, B], error) {
	raw, err := SparseCategoricalCrossEntropy(yPred.Backend(), yPred.Raw(), yTrue.Raw(), opts...)
	if err != nil {
		return nil, err
	}
	return tensor.New[float32](raw, yPred.Backend()), nil
}

// validate enforces the input contract and surfaces typed errors before any
// backend primitive runs.
func validate(yPred, yTrue *tensor.RawTensor) error {
	const op = "sparse categorical crossentropy"

	if !yPred.DType().IsFloat() {
		return &tensor.TypeConstraintError{Op: op, Want: "float32 or float64 predictions", Got: yPred.DType()}
	}
	if !yTrue.DType().IsInt() {
		return &tensor.TypeConstraintError{Op: op, Want: "int32 or int64 labels", Got: yTrue.DType()}
	}

	predShape := yPred.Shape()
	if len(predShape) != 2 {
		return &tensor.ShapeError{Op: op, Want: "(Batch, NumClasses)", Got: predShape}
	}
	batch, numClasses := predShape[0], predShape[1]

	trueShape := yTrue.Shape()
	rank1 := len(trueShape) == 1 && trueShape[0] == batch
	rank2 := len(trueShape) == 2 && trueShape[0] == batch && trueShape[1] == 1
	if !rank1 && !rank2 {
		return &tensor.ShapeError{Op: op, Want: "(Batch) or (Batch, 1)", Got: trueShape}
	}

	for _, label := range yTrue.IndexValues() {
		if label < 0 || label >= numClasses {
			return &tensor.RangeError{Op: op, Label: label, NumClasses: numClasses}
		}
	}
	return nil
}

// storeFloats writes float64 values into a float tensor.
func storeFloats(dst *tensor.RawTensor, vals []float64) {
	switch dst.DType() {
	case tensor.Float32:
		out := dst.AsFloat32()
		for i, v := range vals {
			out[i] = float32(v)
		}
	default:
		copy(dst.AsFloat64(), vals)
	}
}
