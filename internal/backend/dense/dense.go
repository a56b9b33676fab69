// Package dense implements the tensor backend on top of gonum.
//
// Tensors are staged into float64 working buffers (gonum's native width),
// computed with gonum/mat and gonum/floats, and stored back in the input
// dtype. Results are semantically equivalent to the native backend but not
// bit-identical: the two differ in summation order and intermediate
// precision.
package dense

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/estima-ml/estima/internal/tensor"
)

// Backend implements tensor operations via gonum.
type Backend struct {
	device tensor.Device
}

// New creates a new gonum-backed backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (db *Backend) Name() string {
	return "Dense"
}

// Device returns the compute device.
func (db *Backend) Device() tensor.Device {
	return db.device
}

// Add performs element-wise addition.
func (db *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return db.binaryOp("add", a, b, func(dst, s []float64) { floats.Add(dst, s) })
}

// Sub performs element-wise subtraction.
func (db *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return db.binaryOp("sub", a, b, func(dst, s []float64) { floats.Sub(dst, s) })
}

// Mul performs element-wise multiplication.
func (db *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return db.binaryOp("mul", a, b, func(dst, s []float64) { floats.Mul(dst, s) })
}

// Div performs element-wise division.
func (db *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return db.binaryOp("div", a, b, func(dst, s []float64) { floats.Div(dst, s) })
}

// MulScalar multiplies every element by a scalar.
func (db *Backend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	vals := x.FloatValues()
	floats.Scale(s, vals)
	return db.fromFloats(x.Shape(), x.DType(), vals)
}

// Log computes the element-wise natural logarithm via mat.Dense.Apply.
// Zero-valued elements produce -Inf, which propagates into the result.
func (db *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return db.applyOp(x, func(_, _ int, v float64) float64 { return math.Log(v) })
}

// Exp computes the element-wise exponential.
func (db *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return db.applyOp(x, func(_, _ int, v float64) float64 { return math.Exp(v) })
}

// Softmax applies softmax along the given dimension.
// Only the trailing dimension is supported.
func (db *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("softmax: only the trailing dimension is supported, got dim %d for shape %s", dim, shape))
	}

	width := shape[len(shape)-1]
	vals := x.FloatValues()
	rows := len(vals) / width

	for r := 0; r < rows; r++ {
		row := vals[r*width : (r+1)*width]
		lse := floats.LogSumExp(row)
		for i, v := range row {
			row[i] = math.Exp(v - lse)
		}
	}
	return db.fromFloats(shape, x.DType(), vals)
}

// Sum reduces the tensor to the scalar total, returned as a shape (1) tensor.
func (db *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return db.fromFloats(tensor.Shape{1}, x.DType(), []float64{floats.Sum(x.FloatValues())})
}

// Mean reduces the tensor to the scalar arithmetic mean, returned as a
// shape (1) tensor.
func (db *Backend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	vals := x.FloatValues()
	return db.fromFloats(tensor.Shape{1}, x.DType(), []float64{floats.Sum(vals) / float64(len(vals))})
}

// SparseCrossEntropy computes the per-sample negative log-likelihood of the
// true class.
//
// With fromLogits the loss is floats.LogSumExp(row) - row[target]. Without
// it, rows are taken as probabilities and the loss is -log(row[target]),
// so a zero probability yields +Inf.
func (db *Backend) SparseCrossEntropy(yPred, yTrue *tensor.RawTensor, fromLogits bool) *tensor.RawTensor {
	shape := yPred.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("sparse crossentropy: predictions must be 2D (Batch, NumClasses), got %s", shape))
	}
	batch, numClasses := shape[0], shape[1]

	targets := yTrue.IndexValues()
	if len(targets) != batch {
		panic(fmt.Sprintf("sparse crossentropy: %d labels for batch of %d", len(targets), batch))
	}

	m := mat.NewDense(batch, numClasses, yPred.FloatValues())
	losses := make([]float64, batch)
	for b := 0; b < batch; b++ {
		t := targets[b]
		if t < 0 || t >= numClasses {
			panic(fmt.Sprintf("sparse crossentropy: label %d out of range [0, %d)", t, numClasses))
		}

		row := m.RawRowView(b)
		if fromLogits {
			losses[b] = floats.LogSumExp(row) - row[t]
		} else {
			losses[b] = -math.Log(row[t])
		}
	}
	return db.fromFloats(tensor.Shape{batch}, yPred.DType(), losses)
}

// Gather performs an indexed lookup: out[i] = table[index[i]].
func (db *Backend) Gather(table, index *tensor.RawTensor) *tensor.RawTensor {
	if len(table.Shape()) != 1 {
		panic(fmt.Sprintf("gather: table must be rank 1, got %s", table.Shape()))
	}

	vals := table.FloatValues()
	idx := index.IndexValues()

	picked := make([]float64, len(idx))
	for i, j := range idx {
		if j < 0 || j >= len(vals) {
			panic(fmt.Sprintf("gather: index %d out of range [0, %d)", j, len(vals)))
		}
		picked[i] = vals[j]
	}
	return db.fromFloats(tensor.Shape{len(idx)}, table.DType(), picked)
}

// binaryOp stages both operands into float64, applies a gonum floats
// operation in place on the first, and stores the result.
func (db *Backend) binaryOp(op string, a, b *tensor.RawTensor, f func(dst, s []float64)) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %s vs %s", op, a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	av := a.FloatValues()
	f(av, b.FloatValues())
	return db.fromFloats(a.Shape(), a.DType(), av)
}

// applyOp runs mat.Dense.Apply over the tensor viewed as a single-row matrix.
func (db *Backend) applyOp(x *tensor.RawTensor, f func(i, j int, v float64) float64) *tensor.RawTensor {
	src := mat.NewDense(1, x.NumElements(), x.FloatValues())
	var dst mat.Dense
	dst.Apply(f, src)
	return db.fromFloats(x.Shape(), x.DType(), dst.RawMatrix().Data)
}

// fromFloats stores float64 values into a new tensor of the requested dtype.
func (db *Backend) fromFloats(shape tensor.Shape, dtype tensor.DataType, vals []float64) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, dtype, db.device)
	if err != nil {
		panic(fmt.Sprintf("dense: failed to create result tensor: %v", err))
	}
	switch dtype {
	case tensor.Float32:
		dst := out.AsFloat32()
		for i, v := range vals {
			dst[i] = float32(v)
		}
	case tensor.Float64:
		copy(out.AsFloat64(), vals)
	default:
		panic(fmt.Sprintf("dense: unsupported dtype %s", dtype))
	}
	return out
}
