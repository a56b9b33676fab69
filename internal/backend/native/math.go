package native

import (
	"fmt"
	"math"

	"github.com/estima-ml/estima/internal/tensor"
)

// Log computes the element-wise natural logarithm.
// Zero-valued elements produce -Inf; negative elements produce NaN.
// Both propagate into the result rather than failing.
func (nb *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return nb.unaryOp("log", x, math.Log)
}

// Exp computes the element-wise exponential.
func (nb *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return nb.unaryOp("exp", x, math.Exp)
}

// Softmax applies softmax along the given dimension.
// Only the trailing dimension is supported.
func (nb *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("softmax: only the trailing dimension is supported, got dim %d for shape %s", dim, shape))
	}

	width := shape[len(shape)-1]
	rows := x.NumElements() / width

	out := newRaw("softmax", shape, x.DType(), nb.device)
	xs := x.FloatValues()
	probs := make([]float64, x.NumElements())
	for r := 0; r < rows; r++ {
		row := xs[r*width : (r+1)*width]
		logProbs := logSoftmax(row)
		for i, lp := range logProbs {
			probs[r*width+i] = math.Exp(lp)
		}
	}
	storeFloats(out, probs)
	return out
}

// logSoftmax computes log(softmax(z)) using the log-sum-exp trick: the
// maximum is subtracted before exponentiating so large logits cannot
// overflow and uniformly negative logits cannot underflow.
func logSoftmax(z []float64) []float64 {
	maxZ := z[0]
	for _, v := range z[1:] {
		if v > maxZ {
			maxZ = v
		}
	}

	sumExp := 0.0
	for _, v := range z {
		sumExp += math.Exp(v - maxZ)
	}
	logSumExp := maxZ + math.Log(sumExp)

	result := make([]float64, len(z))
	for i, v := range z {
		result[i] = v - logSumExp
	}
	return result
}

// storeFloats writes float64 values back into a tensor of either float dtype.
func storeFloats(dst *tensor.RawTensor, vals []float64) {
	switch dst.DType() {
	case tensor.Float32:
		out := dst.AsFloat32()
		for i, v := range vals {
			out[i] = float32(v)
		}
	case tensor.Float64:
		copy(dst.AsFloat64(), vals)
	default:
		panic(fmt.Sprintf("storeFloats: unsupported dtype %s", dst.DType()))
	}
}
