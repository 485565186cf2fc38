package ops

import "github.com/born-ml/convcast/internal/tensor"

// MaxPool1DOp records a MaxPool1D call. Gradients flow only to the position
// that held each window's maximum.
type MaxPool1DOp struct {
	input    *tensor.RawTensor
	output   *tensor.RawTensor
	poolSize int
}

// NewMaxPool1DOp creates a new MaxPool1DOp.
func NewMaxPool1DOp(input, output *tensor.RawTensor, poolSize int) *MaxPool1DOp {
	return &MaxPool1DOp{input: input, output: output, poolSize: poolSize}
}

// Backward routes the gradient to the max positions.
func (op *MaxPool1DOp) Backward(outputGrad *tensor.RawTensor, backend Kernels) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MaxPool1DBackward(op.input, outputGrad, op.poolSize)}
}

// Inputs returns [input].
func (op *MaxPool1DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the pooled tensor.
func (op *MaxPool1DOp) Output() *tensor.RawTensor {
	return op.output
}
