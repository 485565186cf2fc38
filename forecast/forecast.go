// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package forecast trains a 1D convolutional network to predict the next
// observation of a timeseries from the previous WindowSize observations.
//
// # Overview
//
// The network is
//
//	Conv1D(Filters, KernelSize, relu) → [MaxPool1D] → Flatten →
//	Dense(Hidden, relu) → Dense(Features)
//
// trained with Adam on the mean squared error.
//
// # Basic Usage
//
//	s := series.Fibonacci(30)
//	sc, _ := scale.Fit(s, 0, scale.MinMax)
//	scaled, _ := sc.Transform(s)
//	in, _ := window.Build(scaled, 3)
//
//	cfg := forecast.DefaultModelConfig()
//	model, _ := forecast.NewModel(cfg)
//	model.SetScaler(sc)
//	report, _ := model.Fit(ctx, in, nil, forecast.DefaultTrainConfig())
//	next, _ := model.Forecast(s, 5)
//
// # Checkpoints
//
// Save writes weights, configuration, scaler and training state; Load
// rebuilds an identical model.
package forecast

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/convcast/internal/forecast"
	"github.com/born-ml/convcast/internal/parallel"
)

// Model is a configured forecaster network.
type Model = forecast.Model

// ModelConfig declares the network.
type ModelConfig = forecast.ModelConfig

// TrainConfig controls Fit.
type TrainConfig = forecast.TrainConfig

// Report summarises a Fit call.
type Report = forecast.Report

// EpochStats records one training epoch.
type EpochStats = forecast.EpochStats

// Option configures a Model.
type Option = forecast.Option

// Errors returned by this package.
var (
	ErrInvalidConfig = forecast.ErrInvalidConfig
	ErrShape         = forecast.ErrShape
)

// DefaultModelConfig returns 64 filters of width 2 over 3 steps of one
// variable, no pooling and 50 hidden units.
func DefaultModelConfig() ModelConfig {
	return forecast.DefaultModelConfig()
}

// DefaultTrainConfig returns Adam with lr 1e-3, 200 epochs of batch 32.
func DefaultTrainConfig() TrainConfig {
	return forecast.DefaultTrainConfig()
}

// NewModel declares the network described by cfg.
//
// Example:
//
//	cfg := forecast.DefaultModelConfig()
//	cfg.Features = 3
//	model, err := forecast.NewModel(cfg, forecast.WithLogger(logger))
func NewModel(cfg ModelConfig, opts ...Option) (*Model, error) {
	return forecast.NewModel(cfg, opts...)
}

// WithLogger sets the logger used for training progress.
func WithLogger(logger *logrus.Logger) Option {
	return forecast.WithLogger(logger)
}

// WithSequentialKernels runs every kernel on the calling goroutine.
func WithSequentialKernels() Option {
	return forecast.WithParallel(parallel.Sequential())
}

// Load rebuilds a model from a checkpoint written by Model.Save.
func Load(r io.Reader, opts ...Option) (*Model, error) {
	return forecast.Load(r, opts...)
}

// LoadFile rebuilds a model from a checkpoint file.
func LoadFile(path string, opts ...Option) (*Model, error) {
	return forecast.LoadFile(path, opts...)
}
