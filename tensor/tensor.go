// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API for the estima ops and
// metrics library.
//
// The package defines core types for type-safe tensor operations:
//   - Tensor[T, B]: high-level generic tensor bound to a compute backend
//   - RawTensor: low-level tensor for backend implementations
//   - Backend: interface the ops dispatch through
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := native.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
package tensor

import (
	"github.com/estima-ml/estima/internal/tensor"
)

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// Float is the constraint for floating-point tensor data types.
type Float = tensor.Float

// Int is the constraint for integer label data types.
type Int = tensor.Int

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the low-level tensor representation used by backends.
type RawTensor = tensor.RawTensor

// NewRaw creates a new RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Tensor is a generic type-safe tensor.
//
// T is the data type (float32, float64, int32, int64).
// B is the backend implementation (native, dense).
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Typed validation errors shared by the ops in this library.
type (
	// TypeConstraintError reports an input with an unsupported data type.
	TypeConstraintError = tensor.TypeConstraintError
	// ShapeError reports an input whose shape violates an op's contract.
	ShapeError = tensor.ShapeError
	// RangeError reports a class label outside [0, NumClasses).
	RangeError = tensor.RangeError
)
