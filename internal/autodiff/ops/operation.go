// Package ops defines the differentiable operations recorded on the gradient
// tape.
//
// Supported operations:
//   - Conv1DOp: channels-last 1D convolution with bias
//   - MaxPool1DOp: non-overlapping max pooling over steps
//   - LinearOp: x @ W.T + b
//   - ReLUOp: d(ReLU(x))/dx = 1 if x > 0, else 0
//   - ReshapeOp: gradient is reshaped back to the input shape
//   - MSEOp: d(mean((p-t)²))/dp = 2(p-t)/n
package ops

import "github.com/born-ml/convcast/internal/tensor"

// Kernels is a backend that also provides the backward kernels the
// operations need. cpu.CPUBackend implements it.
type Kernels interface {
	tensor.Backend

	Conv1DBackward(input, weight, grad *tensor.RawTensor, stride, padding int) (inputGrad, weightGrad, biasGrad *tensor.RawTensor)
	MaxPool1DBackward(input, grad *tensor.RawTensor, poolSize int) *tensor.RawTensor
	LinearBackward(input, weight, grad *tensor.RawTensor) (inputGrad, weightGrad, biasGrad *tensor.RawTensor)
	ReLUBackward(input, grad *tensor.RawTensor) *tensor.RawTensor
	MSEBackward(pred, target, grad *tensor.RawTensor) *tensor.RawTensor
}

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// The result is aligned with Inputs(); a nil entry means no gradient
	// flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend Kernels) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
