// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/estima-ml/estima/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/native: plain Go loops, no dependencies
//   - backend/dense: gonum-backed compute
//
// The two are interchangeable: a call runs on whichever backend owns the
// input tensors, and the results are semantically equivalent though not
// necessarily bit-identical.
//
// Example:
//
//	import (
//	    "github.com/estima-ml/estima/backend/native"
//	    "github.com/estima-ml/estima/tensor"
//	)
//
//	backend := native.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
type Backend = tensor.Backend
