package loss_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estima-ml/estima/internal/backend/dense"
	"github.com/estima-ml/estima/internal/backend/native"
	"github.com/estima-ml/estima/internal/loss"
	"github.com/estima-ml/estima/internal/tensor"
)

// Fixtures from the documented examples: three samples, three classes.
var (
	fixturePred  = []float32{0.1, 0.8, 0.1, 0.9, 0.05, 0.05, 0.1, 0.2, 0.7}
	fixtureTruth = []int32{1, 0, 2}
)

func backends() map[string]tensor.Backend {
	return map[string]tensor.Backend{
		"native": native.New(),
		"dense":  dense.New(),
	}
}

func fixture(t *testing.T, b tensor.Backend) (*tensor.RawTensor, *tensor.RawTensor) {
	t.Helper()
	pred, err := tensor.NewRaw(tensor.Shape{3, 3}, tensor.Float32, b.Device())
	require.NoError(t, err)
	copy(pred.AsFloat32(), fixturePred)

	truth, err := tensor.NewRaw(tensor.Shape{3, 1}, tensor.Int32, b.Device())
	require.NoError(t, err)
	copy(truth.AsInt32(), fixtureTruth)
	return pred, truth
}

func TestCrossEntropyAveraged(t *testing.T) {
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			pred, truth := fixture(t, b)

			got, err := loss.SparseCategoricalCrossEntropy(b, pred, truth)
			require.NoError(t, err)

			require.True(t, got.Shape().Equal(tensor.Shape{1}))
			assert.InDelta(t, 0.228, got.AsFloat32()[0], 1e-2)
		})
	}
}

func TestCrossEntropyPerSample(t *testing.T) {
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			pred, truth := fixture(t, b)

			got, err := loss.SparseCategoricalCrossEntropy(b, pred, truth, loss.Unaveraged())
			require.NoError(t, err)

			require.True(t, got.Shape().Equal(tensor.Shape{3}))
			want := []float64{0.22, 0.11, 0.36}
			for i, w := range want {
				assert.InDelta(t, w, got.AsFloat32()[i], 1e-2)
			}
		})
	}
}

func TestCrossEntropyClassWeights(t *testing.T) {
	weightings := map[string]loss.ClassWeights{
		"map":   loss.ClassWeightMap{1: 2.0, 2: 3.0},
		"table": loss.ClassWeightTable{1.0, 2.0, 3.0},
	}

	for name, b := range backends() {
		for repr, weights := range weightings {
			t.Run(name+"/"+repr, func(t *testing.T) {
				pred, truth := fixture(t, b)

				got, err := loss.SparseCategoricalCrossEntropy(b, pred, truth,
					loss.Unaveraged(), loss.WithClassWeights(weights))
				require.NoError(t, err)

				want := []float64{0.44, 0.11, 1.08}
				for i, w := range want {
					assert.InDelta(t, w, got.AsFloat32()[i], 1e-2)
				}
			})
		}
	}
}

func TestCrossEntropyFromLogitsMatchesNormalized(t *testing.T) {
	// Softmax of the logits, then the probability path, must agree with the
	// logits path on the same inputs.
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			logits, truth := fixture(t, b)

			viaLogits, err := loss.SparseCategoricalCrossEntropy(b, logits, truth,
				loss.FromLogits(), loss.Unaveraged())
			require.NoError(t, err)

			probs := b.Softmax(logits, -1)
			viaProbs, err := loss.SparseCategoricalCrossEntropy(b, probs, truth, loss.Unaveraged())
			require.NoError(t, err)

			for i := range viaLogits.AsFloat32() {
				assert.InDelta(t, viaLogits.AsFloat32()[i], viaProbs.AsFloat32()[i], 1e-4)
			}
		})
	}
}

func TestCrossEntropyTypeConstraints(t *testing.T) {
	b := native.New()
	pred, truth := fixture(t, b)

	// Float labels are rejected.
	badTruth, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, b.Device())
	require.NoError(t, err)
	_, err = loss.SparseCategoricalCrossEntropy(b, pred, badTruth)
	var tce *tensor.TypeConstraintError
	require.ErrorAs(t, err, &tce)

	// Integer predictions are rejected.
	badPred, err := tensor.NewRaw(tensor.Shape{3, 3}, tensor.Int32, b.Device())
	require.NoError(t, err)
	_, err = loss.SparseCategoricalCrossEntropy(b, badPred, truth)
	require.ErrorAs(t, err, &tce)
}

func TestCrossEntropyShapeAndRange(t *testing.T) {
	b := native.New()
	pred, _ := fixture(t, b)

	// Batch mismatch.
	shortTruth, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, b.Device())
	require.NoError(t, err)
	_, err = loss.SparseCategoricalCrossEntropy(b, pred, shortTruth)
	var se *tensor.ShapeError
	require.ErrorAs(t, err, &se)

	// Out-of-range label.
	badTruth, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int32, b.Device())
	require.NoError(t, err)
	copy(badTruth.AsInt32(), []int32{1, 0, 3})
	_, err = loss.SparseCategoricalCrossEntropy(b, pred, badTruth)
	var re *tensor.RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.Label)
}

func TestCrossEntropyZeroProbabilityHazard(t *testing.T) {
	b := native.New()
	pred, err := tensor.NewRaw(tensor.Shape{1, 2}, tensor.Float32, b.Device())
	require.NoError(t, err)
	copy(pred.AsFloat32(), []float32{0.0, 1.0})

	truth, err := tensor.NewRaw(tensor.Shape{1}, tensor.Int32, b.Device())
	require.NoError(t, err)

	got, err := loss.SparseCategoricalCrossEntropy(b, pred, truth)
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(got.AsFloat32()[0]), 1), "zero probability must flow through as non-finite")
}

func TestCrossEntropyTypedWrapper(t *testing.T) {
	b := native.New()
	pred, err := tensor.FromSlice(fixturePred, tensor.Shape{3, 3}, b)
	require.NoError(t, err)
	truth, err := tensor.FromSlice(fixtureTruth, tensor.Shape{3}, b)
	require.NoError(t, err)

	got, err := loss.CrossEntropy(pred, truth)
	require.NoError(t, err)
	assert.InDelta(t, 0.228, got.Data()[0], 1e-2)
}

func TestClassWeightDefaults(t *testing.T) {
	assert.Equal(t, 1.0, loss.ClassWeightMap{2: 5.0}.WeightFor(0))
	assert.Equal(t, 5.0, loss.ClassWeightMap{2: 5.0}.WeightFor(2))
	assert.Equal(t, 1.0, loss.ClassWeightTable{2.0}.WeightFor(7))
}
