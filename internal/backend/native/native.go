// Package native implements the tensor backend with plain Go loops.
package native

import (
	"fmt"

	"github.com/estima-ml/estima/internal/tensor"
)

// Backend implements tensor operations in pure Go with no dependencies.
type Backend struct {
	device tensor.Device
}

// New creates a new native backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (nb *Backend) Name() string {
	return "Native"
}

// Device returns the compute device.
func (nb *Backend) Device() tensor.Device {
	return nb.device
}

// Add performs element-wise addition.
func (nb *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return nb.binaryOp("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction.
func (nb *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return nb.binaryOp("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication.
func (nb *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return nb.binaryOp("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division.
func (nb *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return nb.binaryOp("div", a, b, func(x, y float64) float64 { return x / y })
}

// MulScalar multiplies every element by a scalar.
func (nb *Backend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return nb.unaryOp("mulscalar", x, func(v float64) float64 { return v * s })
}

// binaryOp applies f element-wise over two tensors of identical shape and dtype.
func (nb *Backend) binaryOp(op string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %s vs %s", op, a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	out := newRaw(op, a.Shape(), a.DType(), nb.device)
	switch a.DType() {
	case tensor.Float32:
		av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		for i := range ov {
			ov[i] = float32(f(float64(av[i]), float64(bv[i])))
		}
	case tensor.Float64:
		av, bv, ov := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
		for i := range ov {
			ov[i] = f(av[i], bv[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return out
}

// unaryOp applies f element-wise.
func (nb *Backend) unaryOp(op string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	out := newRaw(op, x.Shape(), x.DType(), nb.device)
	switch x.DType() {
	case tensor.Float32:
		xv, ov := x.AsFloat32(), out.AsFloat32()
		for i := range ov {
			ov[i] = float32(f(float64(xv[i])))
		}
	case tensor.Float64:
		xv, ov := x.AsFloat64(), out.AsFloat64()
		for i := range ov {
			ov[i] = f(xv[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return out
}

// newRaw allocates a result tensor, panicking on allocation failure
// (shapes reaching a primitive have already been validated).
func newRaw(op string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return out
}
