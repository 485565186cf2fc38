package window

import (
	"fmt"
	"math"

	"github.com/born-ml/convcast/internal/tensor"
)

// Len returns the number of instances.
func (in *Instances) Len() int {
	return in.n
}

// WindowSize returns the number of steps per input window.
func (in *Instances) WindowSize() int {
	return in.size
}

// Width returns the number of variables per step.
func (in *Instances) Width() int {
	return in.width
}

// Shape returns the input shape [n, size, width] and the target shape
// [n, width].
func (in *Instances) Shape() (inputs, targets tensor.Shape) {
	return tensor.Shape{in.n, in.size, in.width}, tensor.Shape{in.n, in.width}
}

// Input returns a copy of instance i's window, size rows of width values.
func (in *Instances) Input(i int) [][]float64 {
	in.check(i)
	rows := make([][]float64, in.size)
	base := i * in.size * in.width
	for k := range rows {
		rows[k] = append([]float64(nil), in.inputs[base+k*in.width:base+(k+1)*in.width]...)
	}
	return rows
}

// Target returns a copy of instance i's target row.
func (in *Instances) Target(i int) []float64 {
	in.check(i)
	return append([]float64(nil), in.targets[i*in.width:(i+1)*in.width]...)
}

// Inputs returns a copy of every input window as [n][size][width].
func (in *Instances) Inputs() [][][]float64 {
	out := make([][][]float64, in.n)
	for i := range out {
		out[i] = in.Input(i)
	}
	return out
}

// Targets returns a copy of every target as [n][width].
func (in *Instances) Targets() [][]float64 {
	out := make([][]float64, in.n)
	for i := range out {
		out[i] = in.Target(i)
	}
	return out
}

func (in *Instances) check(i int) {
	if i < 0 || i >= in.n {
		panic(fmt.Sprintf("window: instance %d out of range [0, %d)", i, in.n))
	}
}

// Slice returns instances [from, to) as a new set. It panics on an
// invalid range, like slicing.
func (in *Instances) Slice(from, to int) *Instances {
	if from < 0 || to > in.n || from > to {
		panic(fmt.Sprintf("window: slice [%d:%d] out of range [0, %d]", from, to, in.n))
	}
	step := in.size * in.width
	return &Instances{
		inputs:  append([]float64(nil), in.inputs[from*step:to*step]...),
		targets: append([]float64(nil), in.targets[from*in.width:to*in.width]...),
		n:       to - from,
		size:    in.size,
		width:   in.width,
	}
}

// Gather returns the instances at the given indices, in that order.
func (in *Instances) Gather(indices []int) *Instances {
	step := in.size * in.width
	out := &Instances{
		inputs:  make([]float64, 0, len(indices)*step),
		targets: make([]float64, 0, len(indices)*in.width),
		n:       len(indices),
		size:    in.size,
		width:   in.width,
	}
	for _, i := range indices {
		in.check(i)
		out.inputs = append(out.inputs, in.inputs[i*step:(i+1)*step]...)
		out.targets = append(out.targets, in.targets[i*in.width:(i+1)*in.width]...)
	}
	return out
}

// Split returns the first n-testSize instances as train and the last
// testSize as test, so no test target precedes a training target.
// It requires 0 <= testSize <= n.
func (in *Instances) Split(testSize int) (train, test *Instances, err error) {
	if testSize < 0 || testSize > in.n {
		return nil, nil, fmt.Errorf("%w: test size %d for %d instances", ErrInvalidSplit, testSize, in.n)
	}
	cut := in.n - testSize
	return in.Slice(0, cut), in.Slice(cut, in.n), nil
}

// SplitFraction splits off the last round(n*fraction) instances as test.
// It requires 0 <= fraction < 1.
func (in *Instances) SplitFraction(fraction float64) (train, test *Instances, err error) {
	if fraction < 0 || fraction >= 1 || math.IsNaN(fraction) {
		return nil, nil, fmt.Errorf("%w: fraction %v not in [0, 1)", ErrInvalidSplit, fraction)
	}
	return in.Split(int(math.Round(float64(in.n) * fraction)))
}

// Flat returns the inputs as a row-major [n*size*width] float32 slice and
// the targets as [n*width].
func (in *Instances) Flat() (inputs, targets []float32) {
	inputs = make([]float32, len(in.inputs))
	for k, v := range in.inputs {
		inputs[k] = float32(v)
	}
	targets = make([]float32, len(in.targets))
	for k, v := range in.targets {
		targets[k] = float32(v)
	}
	return inputs, targets
}

// Tensors converts in to an input tensor [n, size, width] and a target
// tensor [n, width] on backend b.
func Tensors[B tensor.Backend](in *Instances, b B) (inputs, targets *tensor.Tensor[B], err error) {
	if in.n == 0 {
		return nil, nil, fmt.Errorf("%w: no instances", ErrInvalidArgument)
	}
	xs, ys := in.Flat()
	inShape, tgtShape := in.Shape()
	if inputs, err = tensor.FromSlice(xs, inShape, b); err != nil {
		return nil, nil, err
	}
	if targets, err = tensor.FromSlice(ys, tgtShape, b); err != nil {
		return nil, nil, err
	}
	return inputs, targets, nil
}

// String renders one instance per line as "[inputs] -> target".
func (in *Instances) String() string {
	var b []byte
	for i := range in.n {
		b = fmt.Appendf(b, "%v -> %v\n", in.Input(i), in.Target(i))
	}
	return string(b)
}
