// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dense provides the gonum-backed compute backend.
//
// The dense backend stages tensors into float64 working buffers and computes
// with gonum's mat and floats packages. It is interchangeable with the
// native backend: results are semantically equivalent but may differ in the
// last bits because summation order and intermediate precision differ.
package dense

import (
	internaldense "github.com/estima-ml/estima/internal/backend/dense"
	"github.com/estima-ml/estima/tensor"
)

// Backend is the gonum-backed backend implementation.
type Backend = internaldense.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new dense backend.
//
// Example:
//
//	backend := dense.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internaldense.New()
}
