package ops

import "github.com/born-ml/convcast/internal/tensor"

// MSEOp records loss = mean((pred - target)²). Targets are constants and
// receive no gradient.
type MSEOp struct {
	pred   *tensor.RawTensor
	target *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMSEOp creates a new MSEOp.
func NewMSEOp(pred, target, output *tensor.RawTensor) *MSEOp {
	return &MSEOp{pred: pred, target: target, output: output}
}

// Backward returns [2(pred-target)/n * grad, nil].
func (op *MSEOp) Backward(outputGrad *tensor.RawTensor, backend Kernels) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MSEBackward(op.pred, op.target, outputGrad), nil}
}

// Inputs returns [pred, target].
func (op *MSEOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.pred, op.target}
}

// Output returns the scalar loss.
func (op *MSEOp) Output() *tensor.RawTensor {
	return op.output
}
