// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides loss functions computed through a tensor backend.
//
// Example:
//
//	backend := native.New()
//	pred, _ := tensor.FromSlice([]float32{0.1, 0.8, 0.1}, tensor.Shape{1, 3}, backend)
//	truth, _ := tensor.FromSlice([]int32{1}, tensor.Shape{1}, backend)
//	l, err := loss.CrossEntropy(pred, truth)
package loss

import (
	"github.com/estima-ml/estima/internal/loss"
	"github.com/estima-ml/estima/tensor"
)

// ClassWeights maps a class index to the weight applied to samples of that
// class; absent classes weigh 1.0.
type ClassWeights = loss.ClassWeights

// ClassWeightMap is the mapping representation of ClassWeights.
type ClassWeightMap = loss.ClassWeightMap

// ClassWeightTable is the dense-table representation of ClassWeights.
type ClassWeightTable = loss.ClassWeightTable

// Option configures SparseCategoricalCrossEntropy.
type Option = loss.Option

// FromLogits marks the predictions as unnormalized logits.
func FromLogits() Option { return loss.FromLogits() }

// Unaveraged returns the per-sample loss vector instead of the batch mean.
func Unaveraged() Option { return loss.Unaveraged() }

// WithClassWeights multiplies each sample's loss by the weight of its true class.
func WithClassWeights(w ClassWeights) Option { return loss.WithClassWeights(w) }

// SparseCategoricalCrossEntropy computes sparse categorical crossentropy
// over raw tensors, dispatching through the supplied backend. See the
// package-level CrossEntropy for the typed variant.
//
// Note that a zero-valued prediction probability produces a non-finite loss
// through the logarithm, and that without FromLogits each prediction row
// must sum to 1: unnormalized rows give backend-dependent values.
func SparseCategoricalCrossEntropy(b tensor.Backend, yPred, yTrue *tensor.RawTensor, opts ...Option) (*tensor.RawTensor, error) {
	return loss.SparseCategoricalCrossEntropy(b, yPred, yTrue, opts...)
}

// CrossEntropy is the typed wrapper over SparseCategoricalCrossEntropy for
// float32 predictions and int32 labels.
func CrossEntropy[B tensor.Backend](
	yPred *tensor.Tensor[float32, B],
	yTrue *tensor.Tensor[int32, B],
	opts ...Option,
) (*tensor.Tensor[float32, B], error) {
	return loss.CrossEntropy[B](yPred, yTrue, opts...)
}
