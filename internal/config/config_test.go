package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/internal/forecast"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Model.WindowSize)
	assert.Equal(t, 64, cfg.Model.Filters)
	assert.Equal(t, "adam", cfg.Train.Optimizer)
	assert.Equal(t, "minmax", cfg.Data.Scale)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
data:
  path: sales.csv.xz
  columns: [in1, in2, out]
  test_size: 10
model:
  window_size: 5
  pool_size: 2
train:
  epochs: 20
  learning_rate: 0.01
  patience: 3
store:
  in_memory: true
log:
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, "sales.csv.xz", cfg.Data.Path)
	assert.Equal(t, []string{"in1", "in2", "out"}, cfg.Data.Columns)
	assert.Equal(t, 10, cfg.Data.TestSize)
	assert.Equal(t, 5, cfg.Model.WindowSize)
	assert.Equal(t, 2, cfg.Model.PoolSize)
	assert.Equal(t, 64, cfg.Model.Filters, "unset keys keep their default")
	assert.Equal(t, 20, cfg.Train.Epochs)
	assert.InDelta(t, 0.01, cfg.Train.LearningRate, 1e-12)
	assert.Equal(t, 32, cfg.Train.BatchSize)
	assert.True(t, cfg.Store.InMemory)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "model:\n  layers: 3\n"},
		{"bad kernel", "model:\n  kernel_size: 9\n"},
		{"bad optimizer", "train:\n  optimizer: rmsprop\n"},
		{"bad scale", "data:\n  scale: log\n"},
		{"bad compression", "store:\n  compression_level: 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}

	_, err := Parse([]byte("model:\n  hidden: 0\n"))
	assert.True(t, errors.Is(err, forecast.ErrInvalidConfig))
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CONVCAST_WINDOW_SIZE", "4")
	t.Setenv("CONVCAST_TRAIN_LEARNING_RATE", "0.05")
	t.Setenv("CONVCAST_TRAIN_SHUFFLE", "false")
	t.Setenv("CONVCAST_DATA_COLUMNS", "a,b")
	t.Setenv("CONVCAST_TRAIN_EPOCHS", "not-a-number")

	path := filepath.Join(t.TempDir(), "convcast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  window_size: 6\ntrain:\n  epochs: 7\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Model.WindowSize)
	assert.InDelta(t, 0.05, cfg.Train.LearningRate, 1e-12)
	assert.False(t, cfg.Train.Shuffle)
	assert.Equal(t, []string{"a", "b"}, cfg.Data.Columns)
	assert.Equal(t, 7, cfg.Train.Epochs, "unparsable overrides are ignored")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CONVCAST_STORE_IN_MEMORY", "1")
	t.Setenv("CONVCAST_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Store.InMemory)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Data.Columns = []string{"x"}
	raw, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
