package tensor

// Backend defines the operations the convcast network needs from a compute
// backend. Every method returns a new tensor and leaves its inputs untouched.
//
// Implementations:
//   - cpu.Backend: pure Go kernels
//   - autodiff.Backend: decorates another backend and records a gradient tape
type Backend interface {
	// Conv1D convolves a channels-last input [batch, steps, in] with
	// weight [out, kernel, in] and adds bias [out] (bias may be nil).
	// Output: [batch, outSteps, out].
	Conv1D(input, weight, bias *RawTensor, stride, padding int) *RawTensor

	// MaxPool1D takes the maximum over non-overlapping windows of poolSize
	// steps on a [batch, steps, channels] input.
	MaxPool1D(input *RawTensor, poolSize int) *RawTensor

	// Linear computes x @ W.T + b for x [batch, in], W [out, in], b [out].
	Linear(input, weight, bias *RawTensor) *RawTensor

	// ReLU applies max(0, x) element-wise.
	ReLU(x *RawTensor) *RawTensor

	// Reshape returns a tensor with the same elements and a new shape.
	Reshape(x *RawTensor, shape Shape) *RawTensor

	// MSE returns the scalar mean of (pred - target)² as a [1] tensor.
	MSE(pred, target *RawTensor) *RawTensor

	// Add adds two tensors of the same shape.
	Add(a, b *RawTensor) *RawTensor

	// Name returns the backend name.
	Name() string

	// Device returns the device tensors are allocated on.
	Device() Device
}
