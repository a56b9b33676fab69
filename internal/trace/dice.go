package trace

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/estima-ml/estima/internal/exec"
	"github.com/estima-ml/estima/internal/tensor"
)

// diceSmooth keeps Dice defined when both masks are empty.
const diceSmooth = 1e-8

// Dice accumulates the Dice overlap score between a binary ground-truth mask
// and a thresholded prediction mask across an evaluation epoch, and emits
// the epoch mean under its output name.
//
// Per sample the score is (2*sum(p*t) + eps) / (sum(p) + sum(t) + eps),
// with the prediction binarized at the threshold first. Scores lie in [0, 1].
//
// The accumulator lives from OnEpochBegin to OnEpochEnd; everything else is
// computed per call. By default the trace runs in eval and test modes only.
type Dice struct {
	Core
	threshold      float64
	channelAverage bool
	outputName     string
	dice           []float64
}

// DiceOption configures a Dice trace.
type DiceOption func(*diceConfig)

type diceConfig struct {
	threshold      float64
	channelAverage bool
	modes          []string
	dsIDs          []string
	outputName     string
	perDS          bool
}

// WithThreshold sets the binarization threshold for predictions, in [0, 1].
// Default 0.5.
func WithThreshold(th float64) DiceOption {
	return func(c *diceConfig) { c.threshold = th }
}

// WithChannelAverage computes the score per trailing-axis channel and then
// averages across channels.
func WithChannelAverage() DiceOption {
	return func(c *diceConfig) { c.channelAverage = true }
}

// WithModes overrides the modes the trace runs in (default eval and test);
// "!x" negation is supported.
func WithModes(specs ...string) DiceOption {
	return func(c *diceConfig) { c.modes = specs }
}

// WithDSIDs restricts the dataset ids the trace runs in.
func WithDSIDs(specs ...string) DiceOption {
	return func(c *diceConfig) { c.dsIDs = specs }
}

// WithOutputName sets the key the metric is logged under. Default "Dice".
func WithOutputName(name string) DiceOption {
	return func(c *diceConfig) { c.outputName = name }
}

// WithoutPerDS disables the per-dataset-id decomposition.
func WithoutPerDS() DiceOption {
	return func(c *diceConfig) { c.perDS = false }
}

// NewDice creates a Dice trace reading the ground-truth mask under trueKey
// and the prediction under predKey.
//
// Unless disabled, the trace is wrapped in a PerDS decorator that also
// tracks the metric independently per dataset id; the wrapping is skipped
// when the output name already embeds an id (contains "|"). An out-of-range
// threshold panics: it is a construction-time programmer error.
func NewDice(trueKey, predKey string, opts ...DiceOption) Trace {
	cfg := diceConfig{
		threshold:  0.5,
		modes:      []string{exec.ModeEval, exec.ModeTest},
		outputName: "Dice",
		perDS:      true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.perDS && !strings.Contains(cfg.outputName, "|") {
		return NewPerDS(func(name string) Trace {
			return newDice(trueKey, predKey, name, cfg)
		}, cfg.outputName)
	}
	return newDice(trueKey, predKey, cfg.outputName, cfg)
}

func newDice(trueKey, predKey, outputName string, cfg diceConfig) *Dice {
	if cfg.threshold < 0 || cfg.threshold > 1 {
		panic(fmt.Sprintf("dice: threshold must be in [0, 1], got %f", cfg.threshold))
	}

	d := &Dice{
		Core:           NewCore([]string{trueKey, predKey}, []string{outputName}),
		threshold:      cfg.threshold,
		channelAverage: cfg.channelAverage,
		outputName:     outputName,
	}
	d.SetModes(cfg.modes...)
	if len(cfg.dsIDs) > 0 {
		d.SetDSIDs(cfg.dsIDs...)
	}
	return d
}

// TrueKey returns the key of the ground-truth mask.
func (d *Dice) TrueKey() string {
	return d.Inputs()[0]
}

// PredKey returns the key of the prediction values.
func (d *Dice) PredKey() string {
	return d.Inputs()[1]
}

// Accumulated returns the scores collected so far this epoch.
func (d *Dice) Accumulated() []float64 {
	return d.dice
}

// OnEpochBegin clears the accumulator. Calling it repeatedly always yields
// an empty accumulator, whatever the prior state.
func (d *Dice) OnEpochBegin(_ *Data) {
	d.dice = nil
}

// OnBatchEnd scores the current batch per sample, appends the scores to the
// accumulator and emits them as a per-instance log.
func (d *Dice) OnBatchEnd(data *Data) {
	yTrue := readMask(data, d.TrueKey())
	yPred := readMask(data, d.PredKey())

	scores := diceScores(yTrue, yPred, d.threshold, d.channelAverage)
	data.WritePerInstanceLog(d.outputName, scores)
	d.dice = append(d.dice, scores...)
}

// OnEpochEnd emits the epoch mean of the accumulated scores.
func (d *Dice) OnEpochEnd(data *Data) {
	data.WriteWithLog(d.outputName, stat.Mean(d.dice, nil))
}

// readMask fetches a batch tensor from Data.
func readMask(data *Data, key string) *tensor.RawTensor {
	v := data.Read(key)
	raw, ok := v.(*tensor.RawTensor)
	if !ok {
		panic(fmt.Sprintf("dice: value under %q is %T, not *tensor.RawTensor", key, v))
	}
	return raw
}

// diceScores computes one Dice score per batch sample. The prediction is
// binarized at the threshold first; the ground truth is taken as already
// binary. With channelAverage the score is computed independently per
// trailing-axis channel and the channel scores are averaged.
func diceScores(yTrue, yPred *tensor.RawTensor, threshold float64, channelAverage bool) []float64 {
	if !yTrue.Shape().Equal(yPred.Shape()) {
		panic(fmt.Sprintf("dice: mask shapes differ: %s vs %s", yTrue.Shape(), yPred.Shape()))
	}

	shape := yTrue.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("dice: masks must have a batch dimension, got %s", shape))
	}
	batch := shape[0]
	sampleSize := yTrue.NumElements() / batch

	truth := yTrue.FloatValues()
	preds := yPred.FloatValues()
	for i, p := range preds {
		if p > threshold {
			preds[i] = 1.0
		} else {
			preds[i] = 0.0
		}
	}

	channels := 1
	if channelAverage {
		channels = shape[len(shape)-1]
	}

	scores := make([]float64, batch)
	for b := 0; b < batch; b++ {
		t := truth[b*sampleSize : (b+1)*sampleSize]
		p := preds[b*sampleSize : (b+1)*sampleSize]

		total := 0.0
		for c := 0; c < channels; c++ {
			var overlap, union float64
			for i := c; i < sampleSize; i += channels {
				overlap += p[i] * t[i]
				union += p[i] + t[i]
			}
			total += (2*overlap + diceSmooth) / (union + diceSmooth)
		}
		scores[b] = total / float64(channels)
	}
	return scores
}
