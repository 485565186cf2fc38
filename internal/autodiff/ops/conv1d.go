package ops

import "github.com/born-ml/convcast/internal/tensor"

// Conv1DOp records a Conv1D call.
//
// Backward pass:
//   - d/d(input): transposed convolution of the output gradient with weight
//   - d/d(weight): correlation of the output gradient with the input
//   - d/d(bias): output gradient summed over batch and steps
type Conv1DOp struct {
	input   *tensor.RawTensor // [N, L, C_in]
	weight  *tensor.RawTensor // [C_out, K, C_in]
	bias    *tensor.RawTensor // [C_out] or nil
	output  *tensor.RawTensor // [N, L_out, C_out]
	stride  int
	padding int
}

// NewConv1DOp creates a new Conv1DOp.
func NewConv1DOp(input, weight, bias, output *tensor.RawTensor, stride, padding int) *Conv1DOp {
	return &Conv1DOp{
		input:   input,
		weight:  weight,
		bias:    bias,
		output:  output,
		stride:  stride,
		padding: padding,
	}
}

// Backward computes gradients for input, weight and (if present) bias.
func (op *Conv1DOp) Backward(outputGrad *tensor.RawTensor, backend Kernels) []*tensor.RawTensor {
	gi, gw, gb := backend.Conv1DBackward(op.input, op.weight, outputGrad, op.stride, op.padding)
	if op.bias == nil {
		return []*tensor.RawTensor{gi, gw}
	}
	return []*tensor.RawTensor{gi, gw, gb}
}

// Inputs returns [input, weight] or [input, weight, bias].
func (op *Conv1DOp) Inputs() []*tensor.RawTensor {
	if op.bias == nil {
		return []*tensor.RawTensor{op.input, op.weight}
	}
	return []*tensor.RawTensor{op.input, op.weight, op.bias}
}

// Output returns the convolution output.
func (op *Conv1DOp) Output() *tensor.RawTensor {
	return op.output
}
