package op_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estima-ml/estima/internal/exec"
	"github.com/estima-ml/estima/internal/op"
	"github.com/estima-ml/estima/internal/tensor"
)

func label(t *testing.T, v int64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	raw.AsInt64()[0] = v
	return raw
}

func TestOnehotIdentity(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 4)

	for class := int64(0); class < 4; class++ {
		out, err := oh.Forward([]*tensor.RawTensor{label(t, class)})
		require.NoError(t, err)
		require.Len(t, out, 1)

		vec := out[0].AsFloat32()
		require.Len(t, vec, 4)

		sum := float32(0)
		for i, v := range vec {
			sum += v
			if int64(i) == class {
				assert.Equal(t, float32(1.0), v, "class entry")
			} else {
				assert.Equal(t, float32(0.0), v, "non-class entry %d", i)
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
}

func TestOnehotLabelSmoothing(t *testing.T) {
	for _, smoothing := range []float64{0.0, 0.1, 0.5, 1.0} {
		oh := op.NewOnehot([]string{"y"}, []string{"y"}, 5, op.WithLabelSmoothing(smoothing))

		out, err := oh.Forward([]*tensor.RawTensor{label(t, 2)})
		require.NoError(t, err)

		vec := out[0].AsFloat32()
		sum := 0.0
		for i, v := range vec {
			sum += float64(v)
			if i == 2 {
				assert.InDelta(t, 1.0-smoothing+smoothing/5, float64(v), 1e-6)
			} else {
				assert.InDelta(t, smoothing/5, float64(v), 1e-6)
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "smoothing %f must preserve total mass", smoothing)
	}
}

func TestOnehotBatchListSemantics(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 3)

	out, err := oh.Forward([]*tensor.RawTensor{label(t, 2), label(t, 0), label(t, 1)})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Each label yields its own vector, in input order.
	assert.Equal(t, float32(1), out[0].AsFloat32()[2])
	assert.Equal(t, float32(1), out[1].AsFloat32()[0])
	assert.Equal(t, float32(1), out[2].AsFloat32()[1])
}

func TestOnehotRangeError(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 3)

	_, err := oh.Forward([]*tensor.RawTensor{label(t, 3)})
	var re *tensor.RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.Label)
	assert.Equal(t, 3, re.NumClasses)

	_, err = oh.Forward([]*tensor.RawTensor{label(t, -1)})
	require.ErrorAs(t, err, &re)
}

func TestOnehotTypeConstraint(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 3)

	floatLabel, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	_, err = oh.Forward([]*tensor.RawTensor{floatLabel})
	var tce *tensor.TypeConstraintError
	require.ErrorAs(t, err, &tce)
}

func TestOnehotShapeError(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 3)

	wide, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)

	_, err = oh.Forward([]*tensor.RawTensor{wide})
	var se *tensor.ShapeError
	require.ErrorAs(t, err, &se)
}

func TestOnehotPureFunction(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 3)
	in := label(t, 1)

	first, err := oh.Forward([]*tensor.RawTensor{in})
	require.NoError(t, err)
	second, err := oh.Forward([]*tensor.RawTensor{in})
	require.NoError(t, err)

	assert.Equal(t, first[0].AsFloat32(), second[0].AsFloat32())
	assert.Equal(t, int64(1), in.AsInt64()[0], "input must not be mutated")
}

func TestOnehotModeFilter(t *testing.T) {
	oh := op.NewOnehot([]string{"y"}, []string{"y"}, 3, op.WithModes("!"+exec.ModeInfer))

	assert.True(t, oh.Accepts(exec.ModeTrain, ""))
	assert.True(t, oh.Accepts(exec.ModeEval, "ds1"))
	assert.False(t, oh.Accepts(exec.ModeInfer, ""))
}

func TestOnehotConstructorPanics(t *testing.T) {
	assert.Panics(t, func() { op.NewOnehot([]string{"y"}, []string{"y"}, 0) })
	assert.Panics(t, func() { op.NewOnehot([]string{"y"}, []string{"y"}, 3, op.WithLabelSmoothing(1.5)) })
}
