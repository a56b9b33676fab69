// Copyright 2026 The Estima Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package trace provides evaluation-time callbacks invoked by an external
// training loop at epoch and batch boundaries, and the metric traces built
// on them.
//
// Example:
//
//	dice := trace.NewDice("mask", "pred")
//	dice.SetSystem(system)
//	dice.OnEpochBegin(data)
//	for _, batch := range batches {
//	    dice.OnBatchEnd(batch)
//	}
//	dice.OnEpochEnd(data)
package trace

import (
	"github.com/estima-ml/estima/internal/trace"
)

// Trace is an evaluation-time callback object driven by the external loop.
type Trace = trace.Trace

// System carries the pipeline position a trace observes.
type System = trace.System

// Data is the key-value collector a batch travels through.
type Data = trace.Data

// NewData creates a Data holding the given batch values.
func NewData(batch map[string]any) *Data {
	return trace.NewData(batch)
}

// Dice accumulates per-sample Dice overlap scores across an evaluation epoch
// and emits the epoch mean.
type Dice = trace.Dice

// PerDS decorates a metric trace with an independent per-dataset-id
// decomposition.
type PerDS = trace.PerDS

// NewPerDS builds the decorator around a factory constructing the inner
// metric with a given output name.
func NewPerDS(factory func(outputName string) Trace, baseName string) *PerDS {
	return trace.NewPerDS(factory, baseName)
}

// DiceOption configures a Dice trace.
type DiceOption = trace.DiceOption

// WithThreshold sets the prediction binarization threshold (default 0.5).
func WithThreshold(th float64) DiceOption { return trace.WithThreshold(th) }

// WithChannelAverage averages the score across trailing-axis channels.
func WithChannelAverage() DiceOption { return trace.WithChannelAverage() }

// WithModes overrides the modes the trace runs in (default eval and test).
func WithModes(specs ...string) DiceOption { return trace.WithModes(specs...) }

// WithDSIDs restricts the dataset ids the trace runs in.
func WithDSIDs(specs ...string) DiceOption { return trace.WithDSIDs(specs...) }

// WithOutputName sets the key the metric is logged under (default "Dice").
func WithOutputName(name string) DiceOption { return trace.WithOutputName(name) }

// WithoutPerDS disables the per-dataset-id decomposition.
func WithoutPerDS() DiceOption { return trace.WithoutPerDS() }

// NewDice creates a Dice trace; unless disabled it is wrapped in a PerDS
// decorator (skipped when the output name already contains "|").
func NewDice(trueKey, predKey string, opts ...DiceOption) Trace {
	return trace.NewDice(trueKey, predKey, opts...)
}

// Execution modes of the surrounding pipeline.
const (
	ModeTrain = "train"
	ModeEval  = "eval"
	ModeTest  = "test"
	ModeInfer = "infer"
)
