package tensor

import "fmt"

// Tensor pairs a RawTensor with the backend that produced it, so layer code
// can chain operations without passing the backend around.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(Shape{3, 4}, backend)
//	y := x.ReLU()
type Tensor[B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return &Tensor[B]{raw: raw, backend: b}
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	raw, err := FromFloat32(data, shape, b.Device())
	if err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// Zeros creates a zero-filled tensor. It panics on an invalid shape.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return New(MustRaw(shape, b.Device()), b)
}

// Full creates a tensor filled with v. It panics on an invalid shape.
func Full[B Backend](shape Shape, v float32, b B) *Tensor[B] {
	t := Zeros(shape, b)
	t.raw.Fill(v)
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor[B]) Shape() Shape {
	return t.raw.Shape()
}

// NumElements returns the total number of elements.
func (t *Tensor[B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
func (t *Tensor[B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the tensor's backend.
func (t *Tensor[B]) Backend() B {
	return t.backend
}

// Data returns the underlying float32 buffer.
func (t *Tensor[B]) Data() []float32 {
	return t.raw.AsFloat32()
}

// Item returns the value of a single-element tensor.
func (t *Tensor[B]) Item() float32 {
	if t.raw.NumElements() != 1 {
		panic(fmt.Sprintf("tensor: Item on shape %v", t.Shape()))
	}
	return t.raw.AsFloat32()[0]
}

// Reshape returns a tensor with a new shape through the backend.
func (t *Tensor[B]) Reshape(dims ...int) *Tensor[B] {
	return New(t.backend.Reshape(t.raw, Shape(dims)), t.backend)
}

// ReLU applies max(0, x) through the backend.
func (t *Tensor[B]) ReLU() *Tensor[B] {
	return New(t.backend.ReLU(t.raw), t.backend)
}

// Add adds other element-wise through the backend.
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Add(t.raw, other.raw), t.backend)
}

// String returns a short description of the tensor.
func (t *Tensor[B]) String() string {
	return fmt.Sprintf("Tensor(shape=%v, backend=%s)", t.Shape(), t.backend.Name())
}
