// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package native provides the pure Go compute backend.
//
// The native backend implements every tensor primitive with plain loops and
// the standard math package. It has no dependencies and serves as the
// reference implementation the dense backend is checked against.
package native

import (
	internalnative "github.com/estima-ml/estima/internal/backend/native"
	"github.com/estima-ml/estima/tensor"
)

// Backend is the pure Go backend implementation.
type Backend = internalnative.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new native backend.
//
// Example:
//
//	backend := native.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalnative.New()
}
