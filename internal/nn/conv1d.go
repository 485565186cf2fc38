package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/convcast/internal/tensor"
)

// Conv1D is a 1D convolutional layer over channels-last sequences.
//
// Input shape:  [batch, steps, in_channels]
// Weight shape: [out_channels, kernel, in_channels]
// Bias shape:   [out_channels]
// Output shape: [batch, out_steps, out_channels]
//
// Where:
//
//	out_steps = (steps + 2*padding - kernel) / stride + 1
//
// Example:
//
//	// 64 filters of width 2 over a univariate window of 3 steps
//	conv := nn.NewConv1D(1, 64, 2, 1, 0, true, rng, backend).WithReLU()
//	output := conv.Forward(input) // [batch, 2, 64]
type Conv1D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	relu        bool

	weight *Parameter[B] // [out_channels, kernel, in_channels]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv1D creates a new 1D convolutional layer.
//
// Initialization:
//   - Weights: Xavier/Glorot uniform, fan_in = in*kernel, fan_out = out*kernel
//   - Bias: Zeros
//
// It panics on non-positive channels, kernel or stride, or negative padding.
func NewConv1D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize int,
	stride, padding int,
	useBias bool,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv1d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv1d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv1d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv1d: invalid padding %d", padding))
	}

	weightShape := tensor.Shape{outChannels, kernelSize, inChannels}
	weight := Xavier(inChannels*kernelSize, outChannels*kernelSize, weightShape, rng, backend)

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))
	}

	return &Conv1D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("weight", weight),
		bias:        bias,
		backend:     backend,
	}
}

// WithReLU fuses a ReLU activation into the layer's output and returns c.
func (c *Conv1D[B]) WithReLU() *Conv1D[B] {
	c.relu = true
	return c
}

// Forward performs the forward pass.
//
// Input: [batch, steps, in_channels]
// Output: [batch, out_steps, out_channels].
func (c *Conv1D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("conv1d: expected 3D input [N,L,C], got %dD", len(shape)))
	}
	if shape[2] != c.inChannels {
		panic(fmt.Sprintf("conv1d: input channels %d != expected %d", shape[2], c.inChannels))
	}

	var bias *tensor.RawTensor
	if c.bias != nil {
		bias = c.bias.Tensor().Raw()
	}
	out := tensor.New(c.backend.Conv1D(input.Raw(), c.weight.Tensor().Raw(), bias, c.stride, c.padding), c.backend)
	if c.relu {
		out = out.ReLU()
	}
	return out
}

// Parameters returns all trainable parameters.
func (c *Conv1D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// StateDict returns a map of parameter names to raw tensors.
func (c *Conv1D[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := map[string]*tensor.RawTensor{"weight": c.weight.Tensor().Raw()}
	if c.bias != nil {
		stateDict["bias"] = c.bias.Tensor().Raw()
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary.
func (c *Conv1D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := c.weight.load(stateDict, "weight"); err != nil {
		return err
	}
	if c.bias != nil {
		return c.bias.load(stateDict, "bias")
	}
	return nil
}

// OutputSteps returns the output length for an input of the given length.
func (c *Conv1D[B]) OutputSteps(steps int) int {
	return (steps+2*c.padding-c.kernelSize)/c.stride + 1
}

// Weight returns the weight parameter.
func (c *Conv1D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter, or nil.
func (c *Conv1D[B]) Bias() *Parameter[B] {
	return c.bias
}

// OutChannels returns the number of filters.
func (c *Conv1D[B]) OutChannels() int {
	return c.outChannels
}

// String returns a string representation of the layer.
func (c *Conv1D[B]) String() string {
	return fmt.Sprintf("Conv1D(in_channels=%d, out_channels=%d, kernel_size=%d, stride=%d, padding=%d, bias=%v, relu=%v)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding, c.bias != nil, c.relu)
}
