// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package op provides data-preprocessing operators applied per batch element
// by the surrounding pipeline.
//
// Example:
//
//	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 10, op.WithLabelSmoothing(0.1))
//	vectors, err := oh.Forward(labels)
package op

import (
	"github.com/estima-ml/estima/internal/op"
)

// Op is a preprocessing operator with list semantics: one tensor in, one
// tensor out, per batch element, in input order.
type Op = op.Op

// Onehot transforms an integer class label into a one-hot encoded float32
// vector, optionally softened by label smoothing.
type Onehot = op.Onehot

// OnehotOption configures an Onehot op.
type OnehotOption = op.OnehotOption

// WithLabelSmoothing sets the smoothing factor, in [0, 1].
func WithLabelSmoothing(s float64) OnehotOption { return op.WithLabelSmoothing(s) }

// WithModes restricts the modes the op runs in; "!x" negation is supported.
func WithModes(specs ...string) OnehotOption { return op.WithModes(specs...) }

// WithDSIDs restricts the dataset ids the op runs in.
func WithDSIDs(specs ...string) OnehotOption { return op.WithDSIDs(specs...) }

// NewOnehot creates a Onehot op for numClasses classes.
func NewOnehot(inputs, outputs []string, numClasses int, opts ...OnehotOption) *Onehot {
	return op.NewOnehot(inputs, outputs, numClasses, opts...)
}
