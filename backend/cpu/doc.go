// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the convcast layers.
//
// # Overview
//
// The backend implements:
//   - Conv1D on channels-last [batch, steps, channels] input
//   - MaxPool1D over non-overlapping windows
//   - Linear through gonum BLAS (sgemm)
//   - ReLU, Reshape, Add and the MSE loss
//
// together with the backward kernels the autodiff package records.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convcast/autodiff"
//	    "github.com/born-ml/convcast/backend/cpu"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	}
//
// # Thread Safety
//
// The CPU backend holds no mutable state and is safe for concurrent use.
// Kernels fan out over goroutines sized by cpuid's physical core count;
// use WithParallel(Sequential()) for single-threaded, bit-reproducible runs.
package cpu
