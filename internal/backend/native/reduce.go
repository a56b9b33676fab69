package native

import (
	"github.com/estima-ml/estima/internal/tensor"
)

// Sum reduces the tensor to the scalar total, returned as a shape (1) tensor.
func (nb *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	total := 0.0
	for _, v := range x.FloatValues() {
		total += v
	}
	return nb.scalar(x.DType(), total)
}

// Mean reduces the tensor to the scalar arithmetic mean, returned as a
// shape (1) tensor.
func (nb *Backend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	total := 0.0
	for _, v := range x.FloatValues() {
		total += v
	}
	return nb.scalar(x.DType(), total/float64(x.NumElements()))
}

func (nb *Backend) scalar(dtype tensor.DataType, v float64) *tensor.RawTensor {
	out := newRaw("reduce", tensor.Shape{1}, dtype, nb.device)
	storeFloats(out, []float64{v})
	return out
}
