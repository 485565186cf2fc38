// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/convcast/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Device represents the compute device for tensor operations.
type Device = tensor.Device

// CPU is the only device convcast allocates on.
const CPU = tensor.CPU

// DType names the element type of every tensor.
const DType = tensor.DType

// RawTensor is the low-level buffer and shape behind a Tensor.
type RawTensor = tensor.RawTensor

// Backend defines the operations a compute backend provides.
type Backend = tensor.Backend

// Tensor pairs a RawTensor with its backend.
type Tensor[B Backend] = tensor.Tensor[B]

// New wraps a RawTensor for backend b.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return tensor.New(raw, b)
}

// FromSlice creates a tensor holding a copy of data.
//
// Example:
//
//	backend := cpu.New()
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a zero-filled tensor. It panics on an invalid shape.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros(shape, b)
}

// Full creates a tensor filled with v. It panics on an invalid shape.
func Full[B Backend](shape Shape, v float32, b B) *Tensor[B] {
	return tensor.Full(shape, v, b)
}

// NewRaw creates a zero-filled RawTensor.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}
