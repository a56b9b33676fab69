package tensor

// Backend defines the compute interface the ops in this library dispatch
// through. A tensor is bound to the backend that created it, so each call
// runs on whichever implementation owns the input data; implementations must
// be semantically equivalent but are not required to be bit-identical.
//
// Implementations:
//   - backend/native: pure Go loops, no dependencies
//   - backend/dense: gonum-backed (mat, floats)
//
// Backends panic on malformed inputs (wrong rank, mismatched shapes,
// unsupported dtypes): public entry points are expected to have validated
// the contract before reaching a primitive.
type Backend interface {
	// Element-wise binary operations. Operands must share shape and dtype.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Element-wise scalar and math operations.
	MulScalar(x *RawTensor, s float64) *RawTensor
	Log(x *RawTensor) *RawTensor // Natural logarithm. Log of zero is -Inf, not an error.
	Exp(x *RawTensor) *RawTensor

	// Softmax along a dimension (only the trailing dimension is required).
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reduction operations. Results are scalar tensors of shape (1).
	Sum(x *RawTensor) *RawTensor
	Mean(x *RawTensor) *RawTensor

	// SparseCrossEntropy computes the per-sample negative log-likelihood of
	// the true class. yPred has shape (Batch, NumClasses) and a floating
	// dtype; yTrue holds Batch integer class indices (trailing singleton
	// dimensions are ignored). When fromLogits is true a softmax is applied
	// first; otherwise yPred rows are taken as probabilities and logged
	// directly. The result has shape (Batch) and yPred's dtype.
	SparseCrossEntropy(yPred, yTrue *RawTensor, fromLogits bool) *RawTensor

	// Gather performs an indexed lookup: out[i] = table[index[i]].
	// table must be rank 1 with a floating dtype; index must be integral.
	Gather(table, index *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
