// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers of the convcast forecaster.
//
// # Overview
//
// Every layer implements Module: Forward, Parameters, StateDict and
// LoadStateDict. Sequence layers take channels-last [batch, steps, channels]
// input.
//
// Available layers:
//   - Conv1D: 1D convolution with optional fused ReLU
//   - MaxPool1D: max over non-overlapping windows of steps
//   - Flatten: [batch, ...] to [batch, features]
//   - Linear: fully connected layer with optional fused ReLU
//   - ReLU: element-wise activation
//   - Sequential: ordered container
//   - MSELoss: mean squared error criterion
//
// # Basic Usage
//
//	backend := autodiff.New(cpu.New())
//	rng := rand.New(rand.NewSource(1))
//	model := nn.NewSequential(
//	    nn.NewConv1D(1, 64, 2, 1, 0, true, rng, backend).WithReLU(),
//	    nn.NewFlatten[*autodiff.Backend[*cpu.Backend]](),
//	    nn.NewLinear(128, 50, rng, backend).WithReLU(),
//	    nn.NewLinear(50, 1, rng, backend),
//	)
//
// # Checkpoints
//
// Save and Load write a module's state dict in the convcast checkpoint
// format. Keys of nested modules are prefixed with their position in the
// Sequential ("0.weight", "3.bias").
package nn
