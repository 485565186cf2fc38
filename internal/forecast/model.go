// Package forecast builds, trains and runs the convolutional next-step
// forecaster.
//
// A Model wraps an nn.Sequential network on an autodiff CPU backend. Fit
// trains it on windowed instances with mini-batch gradient descent on the
// mean squared error; Predict and Forecast run it forward with the tape
// switched off. A Model is not safe for concurrent use.
package forecast

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/convcast/internal/autodiff"
	"github.com/born-ml/convcast/internal/backend/cpu"
	"github.com/born-ml/convcast/internal/logging"
	"github.com/born-ml/convcast/internal/nn"
	"github.com/born-ml/convcast/internal/parallel"
	"github.com/born-ml/convcast/internal/scale"
	"github.com/born-ml/convcast/internal/serialization"
	"github.com/born-ml/convcast/internal/tensor"
)

// Version is written into every checkpoint header.
const Version = "0.1.0"

// ModelType identifies forecaster checkpoints.
const ModelType = "ConvForecaster"

// ErrShape is returned when data does not match the model's window size or
// feature count.
var ErrShape = errors.New("data does not match model shape")

// Backend is the backend every forecaster runs on.
type Backend = *autodiff.Backend[*cpu.CPUBackend]

// Model is a configured network plus the scaler that maps series values
// into the units it was trained on.
type Model struct {
	cfg      ModelConfig
	backend  Backend
	net      *nn.Sequential[Backend]
	scaler   *scale.Scaler
	training *serialization.TrainingMeta
	logger   *logrus.Logger
}

// Option configures a Model.
type Option func(*modelOptions)

type modelOptions struct {
	logger *logrus.Logger
	par    *parallel.Config
}

// WithLogger sets the logger used for training progress.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *modelOptions) { o.logger = logger }
}

// WithParallel overrides the kernel worker configuration.
func WithParallel(cfg parallel.Config) Option {
	return func(o *modelOptions) { o.par = &cfg }
}

// NewModel declares the network described by cfg with weights drawn from
// cfg.Seed.
func NewModel(cfg ModelConfig, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o modelOptions
	for _, opt := range opts {
		opt(&o)
	}

	var cpuOpts []cpu.Option
	if o.par != nil {
		cpuOpts = append(cpuOpts, cpu.WithParallel(*o.par))
	}
	backend := autodiff.New(cpu.New(cpuOpts...))

	//nolint:gosec // weight init is not security-critical
	rng := rand.New(rand.NewSource(cfg.Seed))
	net := nn.NewSequential[Backend](
		nn.NewConv1D(cfg.Features, cfg.Filters, cfg.KernelSize, 1, 0, true, rng, backend).WithReLU(),
	)
	if cfg.PoolSize > 0 {
		net.Add(nn.NewMaxPool1D(cfg.PoolSize, backend))
	}
	net.Add(nn.NewFlatten[Backend]())
	net.Add(nn.NewLinear(cfg.flatFeatures(), cfg.Hidden, rng, backend).WithReLU())
	net.Add(nn.NewLinear(cfg.Hidden, cfg.Features, rng, backend))

	return &Model{
		cfg:     cfg,
		backend: backend,
		net:     net,
		logger:  logging.OrDiscard(o.logger),
	}, nil
}

// Config returns the model configuration.
func (m *Model) Config() ModelConfig {
	return m.cfg
}

// Network returns the underlying layer stack.
func (m *Model) Network() *nn.Sequential[Backend] {
	return m.net
}

// NumParameters returns the number of trainable weights.
func (m *Model) NumParameters() int {
	return nn.NumParameters[Backend](m.net)
}

// SetScaler attaches the scaler the training data was normalised with.
// Forecast and Evaluate then report values in original units.
func (m *Model) SetScaler(sc *scale.Scaler) error {
	if sc != nil && sc.Width() != m.cfg.Features {
		return fmt.Errorf("%w: scaler has %d columns, model %d features", ErrShape, sc.Width(), m.cfg.Features)
	}
	m.scaler = sc
	return nil
}

// Scaler returns the attached scaler, or nil.
func (m *Model) Scaler() *scale.Scaler {
	return m.scaler
}

// Training returns the state recorded by the last Fit, or nil.
func (m *Model) Training() *serialization.TrainingMeta {
	return m.training
}

// String describes the layer stack.
func (m *Model) String() string {
	return m.net.String()
}

func (m *Model) snapshot() map[string]*tensor.RawTensor {
	state := m.net.StateDict()
	for k, v := range state {
		state[k] = v.Clone()
	}
	return state
}
