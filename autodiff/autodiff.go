// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation (backpropagation)
// using a gradient tape. It wraps a kernel backend to add autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/born-ml/convcast/autodiff"
//	    "github.com/born-ml/convcast/backend/cpu"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//	    loss := criterion.Forward(model.Forward(x), y)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	    backend.Tape().Clear()
//	}
package autodiff

import (
	"github.com/born-ml/convcast/internal/autodiff"
	"github.com/born-ml/convcast/internal/autodiff/ops"
	"github.com/born-ml/convcast/tensor"
)

// Kernels is a backend that also provides backward kernels.
type Kernels = ops.Kernels

// Backend is the autodiff-enabled backend.
type Backend[B Kernels] = autodiff.Backend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
func New[B Kernels](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// Backward computes gradients of the scalar t via backpropagation.
func Backward[K Kernels](t *tensor.Tensor[*Backend[K]], backend *Backend[K]) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
