package ops

import "github.com/born-ml/convcast/internal/tensor"

// LinearOp records y = x @ W.T + b.
//
// Backward pass:
//   - dX = dY @ W
//   - dW = dY.T @ X
//   - db = Σ_batch dY
type LinearOp struct {
	input  *tensor.RawTensor
	weight *tensor.RawTensor
	bias   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLinearOp creates a new LinearOp.
func NewLinearOp(input, weight, bias, output *tensor.RawTensor) *LinearOp {
	return &LinearOp{input: input, weight: weight, bias: bias, output: output}
}

// Backward computes gradients for input, weight and (if present) bias.
func (op *LinearOp) Backward(outputGrad *tensor.RawTensor, backend Kernels) []*tensor.RawTensor {
	gi, gw, gb := backend.LinearBackward(op.input, op.weight, outputGrad)
	if op.bias == nil {
		return []*tensor.RawTensor{gi, gw}
	}
	return []*tensor.RawTensor{gi, gw, gb}
}

// Inputs returns [input, weight] or [input, weight, bias].
func (op *LinearOp) Inputs() []*tensor.RawTensor {
	if op.bias == nil {
		return []*tensor.RawTensor{op.input, op.weight}
	}
	return []*tensor.RawTensor{op.input, op.weight, op.bias}
}

// Output returns x @ W.T + b.
func (op *LinearOp) Output() *tensor.RawTensor {
	return op.output
}
