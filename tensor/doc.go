// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32 tensors convcast networks compute on.
//
// # Overview
//
// A Tensor pairs a row-major RawTensor with the Backend that produced it.
// Sequence data uses the channels-last layout [batch, steps, channels]:
// a window of WindowSize observations of F variables is a [1, WindowSize, F]
// tensor.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convcast/backend/cpu"
//	    "github.com/born-ml/convcast/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromSlice([]float32{1, 1, 2}, tensor.Shape{1, 3, 1}, backend)
//	    y := x.ReLU()
//	}
//
// # Gradients
//
// Backends never write into their inputs. The autodiff backend relies on
// this: gradients are keyed by *RawTensor identity.
package tensor
