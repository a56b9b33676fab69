package native

import (
	"fmt"
	"math"

	"github.com/estima-ml/estima/internal/tensor"
)

// SparseCrossEntropy computes the per-sample negative log-likelihood of the
// true class.
//
// With fromLogits the loss is computed as logSumExp(row) - row[target],
// which is -logSoftmax(row)[target] without materializing probabilities.
// Without fromLogits, rows are taken as probabilities and the loss is
// -log(row[target]); a zero probability therefore yields +Inf.
func (nb *Backend) SparseCrossEntropy(yPred, yTrue *tensor.RawTensor, fromLogits bool) *tensor.RawTensor {
	shape := yPred.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("sparse crossentropy: predictions must be 2D (Batch, NumClasses), got %s", shape))
	}
	batch, numClasses := shape[0], shape[1]

	targets := yTrue.IndexValues()
	if len(targets) != batch {
		panic(fmt.Sprintf("sparse crossentropy: %d labels for batch of %d", len(targets), batch))
	}

	preds := yPred.FloatValues()
	losses := make([]float64, batch)
	for b := 0; b < batch; b++ {
		row := preds[b*numClasses : (b+1)*numClasses]
		t := targets[b]
		if t < 0 || t >= numClasses {
			panic(fmt.Sprintf("sparse crossentropy: label %d out of range [0, %d)", t, numClasses))
		}

		if fromLogits {
			losses[b] = -logSoftmax(row)[t]
		} else {
			losses[b] = -math.Log(row[t])
		}
	}

	out := newRaw("sparse crossentropy", tensor.Shape{batch}, yPred.DType(), nb.device)
	storeFloats(out, losses)
	return out
}

// Gather performs an indexed lookup: out[i] = table[index[i]].
func (nb *Backend) Gather(table, index *tensor.RawTensor) *tensor.RawTensor {
	if len(table.Shape()) != 1 {
		panic(fmt.Sprintf("gather: table must be rank 1, got %s", table.Shape()))
	}

	vals := table.FloatValues()
	idx := index.IndexValues()

	out := newRaw("gather", tensor.Shape{len(idx)}, table.DType(), nb.device)
	picked := make([]float64, len(idx))
	for i, j := range idx {
		if j < 0 || j >= len(vals) {
			panic(fmt.Sprintf("gather: index %d out of range [0, %d)", j, len(vals)))
		}
		picked[i] = vals[j]
	}
	storeFloats(out, picked)
	return out
}
