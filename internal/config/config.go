// Package config loads the convcast run configuration from YAML and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/convcast/internal/forecast"
	"github.com/born-ml/convcast/internal/logging"
	"github.com/born-ml/convcast/internal/scale"
	"github.com/born-ml/convcast/internal/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONVCAST_"

// Config holds the application configuration.
type Config struct {
	Data  DataConfig           `yaml:"data"`
	Model forecast.ModelConfig `yaml:"model"`
	Train forecast.TrainConfig `yaml:"train"`
	Store store.Config         `yaml:"store"`
	Log   logging.Config       `yaml:"log"`
}

// DataConfig selects the input series and how it is prepared.
type DataConfig struct {
	Path     string   `yaml:"path"`    // CSV file, optionally .xz compressed
	Columns  []string `yaml:"columns"` // empty selects every column
	Scale    string   `yaml:"scale"`   // none, minmax or zscore
	TestSize int      `yaml:"test_size"`
}

// Default returns the built-in configuration without environment overrides.
func Default() *Config {
	return &Config{
		Data:  DataConfig{Scale: string(scale.MinMax)},
		Model: forecast.DefaultModelConfig(),
		Train: forecast.DefaultTrainConfig(),
		Store: store.DefaultConfig(),
		Log:   logging.Config{Level: "info", Format: "text"},
	}
}

// FromEnv returns the default configuration with environment overrides.
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: the config path is chosen by the operator
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, then applies environment overrides.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyEnv() {
	c.Data.Path = getEnv("DATA_PATH", c.Data.Path)
	if cols := getEnv("DATA_COLUMNS", ""); cols != "" {
		c.Data.Columns = strings.Split(cols, ",")
	}
	c.Data.Scale = getEnv("DATA_SCALE", c.Data.Scale)
	c.Data.TestSize = getEnvInt("DATA_TEST_SIZE", c.Data.TestSize)

	c.Model.WindowSize = getEnvInt("WINDOW_SIZE", c.Model.WindowSize)
	c.Model.Filters = getEnvInt("MODEL_FILTERS", c.Model.Filters)
	c.Model.KernelSize = getEnvInt("MODEL_KERNEL_SIZE", c.Model.KernelSize)
	c.Model.PoolSize = getEnvInt("MODEL_POOL_SIZE", c.Model.PoolSize)
	c.Model.Hidden = getEnvInt("MODEL_HIDDEN", c.Model.Hidden)

	c.Train.Epochs = getEnvInt("TRAIN_EPOCHS", c.Train.Epochs)
	c.Train.BatchSize = getEnvInt("TRAIN_BATCH_SIZE", c.Train.BatchSize)
	c.Train.LearningRate = getEnvFloat("TRAIN_LEARNING_RATE", c.Train.LearningRate)
	c.Train.Optimizer = getEnv("TRAIN_OPTIMIZER", c.Train.Optimizer)
	c.Train.Patience = getEnvInt("TRAIN_PATIENCE", c.Train.Patience)
	c.Train.Shuffle = getEnvBool("TRAIN_SHUFFLE", c.Train.Shuffle)

	c.Store.Path = getEnv("STORE_PATH", c.Store.Path)
	c.Store.InMemory = getEnvBool("STORE_IN_MEMORY", c.Store.InMemory)
	c.Store.CompressionLevel = getEnvInt("STORE_COMPRESSION_LEVEL", c.Store.CompressionLevel)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := scale.ParseMethod(c.Data.Scale); err != nil {
		return err
	}
	if c.Data.TestSize < 0 {
		return fmt.Errorf("test size must not be negative")
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if err := c.Train.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
