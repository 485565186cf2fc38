package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ModelConfig declares the network:
//
//	Conv1D(Filters, KernelSize, relu) → [MaxPool1D(PoolSize)] → Flatten →
//	Dense(Hidden, relu) → Dense(Features)
type ModelConfig struct {
	WindowSize int   `yaml:"window_size" json:"window_size"`
	Features   int   `yaml:"features" json:"features"`
	Filters    int   `yaml:"filters" json:"filters"`
	KernelSize int   `yaml:"kernel_size" json:"kernel_size"`
	PoolSize   int   `yaml:"pool_size" json:"pool_size"` // 0 disables pooling
	Hidden     int   `yaml:"hidden" json:"hidden"`
	Seed       int64 `yaml:"seed" json:"seed"`
}

// DefaultModelConfig returns the reference topology: 64 filters of width 2,
// no pooling and 50 hidden units.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		WindowSize: 3,
		Features:   1,
		Filters:    64,
		KernelSize: 2,
		Hidden:     50,
		Seed:       1,
	}
}

// convSteps is the number of steps left after the convolution.
func (c ModelConfig) convSteps() int {
	return c.WindowSize - c.KernelSize + 1
}

// flatFeatures is the width of the flattened feature vector.
func (c ModelConfig) flatFeatures() int {
	steps := c.convSteps()
	if c.PoolSize > 0 {
		steps /= c.PoolSize
	}
	return steps * c.Filters
}

// Validate checks that the topology yields at least one feature.
func (c ModelConfig) Validate() error {
	switch {
	case c.WindowSize <= 0:
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, c.WindowSize)
	case c.Features <= 0:
		return fmt.Errorf("%w: features must be positive, got %d", ErrInvalidConfig, c.Features)
	case c.Filters <= 0:
		return fmt.Errorf("%w: filters must be positive, got %d", ErrInvalidConfig, c.Filters)
	case c.KernelSize <= 0 || c.KernelSize > c.WindowSize:
		return fmt.Errorf("%w: kernel size must be in [1, %d], got %d", ErrInvalidConfig, c.WindowSize, c.KernelSize)
	case c.PoolSize < 0 || c.PoolSize > c.convSteps():
		return fmt.Errorf("%w: pool size must be in [0, %d], got %d", ErrInvalidConfig, c.convSteps(), c.PoolSize)
	case c.Hidden <= 0:
		return fmt.Errorf("%w: hidden units must be positive, got %d", ErrInvalidConfig, c.Hidden)
	}
	return nil
}

// TrainConfig controls Fit.
type TrainConfig struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Optimizer    string  `yaml:"optimizer"` // adam or sgd
	Shuffle      bool    `yaml:"shuffle"`

	// ValidationSize is the fraction of the training instances held out,
	// from the end, when Fit is given no validation set.
	ValidationSize float64 `yaml:"validation_size"`

	// Patience stops training after this many epochs without improvement
	// of the monitored loss and restores the best weights. 0 disables it.
	Patience int     `yaml:"patience"`
	MinDelta float64 `yaml:"min_delta"`

	Seed int64 `yaml:"seed"`
}

// DefaultTrainConfig returns Adam with lr 1e-3, 200 epochs of batch 32.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:       200,
		BatchSize:    32,
		LearningRate: 0.001,
		Optimizer:    "adam",
		Shuffle:      true,
		Seed:         1,
	}
}

// Validate checks the training settings.
func (c TrainConfig) Validate() error {
	switch {
	case c.Epochs <= 0:
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	case c.LearningRate <= 0:
		return fmt.Errorf("%w: learning rate must be positive, got %v", ErrInvalidConfig, c.LearningRate)
	case c.ValidationSize < 0 || c.ValidationSize >= 1:
		return fmt.Errorf("%w: validation size must be in [0, 1), got %v", ErrInvalidConfig, c.ValidationSize)
	case c.Patience < 0:
		return fmt.Errorf("%w: patience must not be negative, got %d", ErrInvalidConfig, c.Patience)
	}
	switch strings.ToLower(c.Optimizer) {
	case "", "adam", "sgd":
	default:
		return fmt.Errorf("%w: unknown optimizer %q", ErrInvalidConfig, c.Optimizer)
	}
	return nil
}
