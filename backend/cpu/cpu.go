// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/convcast/internal/backend/cpu"
	"github.com/born-ml/convcast/internal/parallel"
	"github.com/born-ml/convcast/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option = internalcpu.Option

// ParallelConfig controls how kernels split work across goroutines.
type ParallelConfig = parallel.Config

// DefaultParallel sizes the worker pool by physical cores.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Sequential runs every kernel on the calling goroutine.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}

// WithParallel overrides the kernel worker configuration.
func WithParallel(cfg ParallelConfig) Option {
	return internalcpu.WithParallel(cfg)
}

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	single := cpu.New(cpu.WithParallel(cpu.Sequential()))
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}
