package tensor

import (
	"fmt"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// DType is the name of the only element type convcast stores.
const DType = "float32"

// RawTensor is the low-level tensor representation: a row-major float32
// buffer and its shape.
//
// A RawTensor is the identity used by the gradient tape: gradients are keyed
// by *RawTensor, so backends always return fresh tensors and never write into
// their inputs.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
	device Device
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: device,
	}, nil
}

// MustRaw is NewRaw for shapes that are known to be valid.
// It panics on an invalid shape.
func MustRaw(shape Shape, device Device) *RawTensor {
	r, err := NewRaw(shape, device)
	if err != nil {
		panic(err)
	}
	return r
}

// FromFloat32 creates a RawTensor holding a copy of data.
func FromFloat32(data []float32, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	r, err := NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	copy(r.data, data)
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data) * 4
}

// AsFloat32 returns the underlying buffer. Writes are visible to every
// holder of the tensor.
func (r *RawTensor) AsFloat32() []float32 {
	return r.data
}

// Clone returns a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float32, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		device: r.device,
	}
}

// View returns a tensor that shares the buffer under a different shape.
func (r *RawTensor) View(shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(r.data) {
		return nil, fmt.Errorf("cannot view %v (%d elements) as %v", r.shape, len(r.data), shape)
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: r.device,
	}, nil
}

// Fill sets every element to v.
func (r *RawTensor) Fill(v float32) {
	for i := range r.data {
		r.data[i] = v
	}
}

// At returns the element at the given multi-dimensional index.
func (r *RawTensor) At(idx ...int) float32 {
	return r.data[r.offset(idx)]
}

// Set writes the element at the given multi-dimensional index.
func (r *RawTensor) Set(v float32, idx ...int) {
	r.data[r.offset(idx)] = v
}

func (r *RawTensor) offset(idx []int) int {
	if len(idx) != len(r.shape) {
		panic(fmt.Sprintf("tensor: index %v has %d dims, shape %v has %d", idx, len(idx), r.shape, len(r.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= r.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, r.shape))
		}
		off += v * r.stride[i]
	}
	return off
}
