package forecast

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/internal/parallel"
	"github.com/born-ml/convcast/internal/scale"
	"github.com/born-ml/convcast/internal/serialization"
	"github.com/born-ml/convcast/internal/series"
	"github.com/born-ml/convcast/internal/window"
)

func smallConfig(features int) ModelConfig {
	return ModelConfig{WindowSize: 3, Features: features, Filters: 8, KernelSize: 2, Hidden: 8, Seed: 3}
}

func scaledInstances(t *testing.T, s *series.Series, size int) (*window.Instances, *scale.Scaler) {
	t.Helper()
	sc, err := scale.Fit(s, 0, scale.MinMax)
	require.NoError(t, err)
	scaled, err := sc.Transform(s)
	require.NoError(t, err)
	inst, err := window.Build(scaled, size)
	require.NoError(t, err)
	return inst, sc
}

func TestNewModelTopology(t *testing.T) {
	m, err := NewModel(DefaultModelConfig())
	require.NoError(t, err)
	assert.Equal(t, 128+64+128*50+50+50+1, m.NumParameters())
	assert.Equal(t, 5, m.Network().Len())

	cfg := DefaultModelConfig()
	cfg.PoolSize = 2
	m, err = NewModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, 128+64+64*50+50+50+1, m.NumParameters())
	assert.Equal(t, 6, m.Network().Len())
}

func TestModelConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ModelConfig)
	}{
		{"window", func(c *ModelConfig) { c.WindowSize = 0 }},
		{"features", func(c *ModelConfig) { c.Features = 0 }},
		{"filters", func(c *ModelConfig) { c.Filters = -1 }},
		{"kernel too wide", func(c *ModelConfig) { c.KernelSize = 4 }},
		{"pool too wide", func(c *ModelConfig) { c.PoolSize = 3 }},
		{"hidden", func(c *ModelConfig) { c.Hidden = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultModelConfig()
			tt.modify(&cfg)
			_, err := NewModel(cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}

	train := DefaultTrainConfig()
	train.Optimizer = "lbfgs"
	assert.True(t, errors.Is(train.Validate(), ErrInvalidConfig))
}

func TestFitReducesLoss(t *testing.T) {
	inst, sc := scaledInstances(t, series.Ramp(40, 10, 10), 3)
	m, err := NewModel(smallConfig(1), WithParallel(parallel.Sequential()))
	require.NoError(t, err)
	require.NoError(t, m.SetScaler(sc))

	cfg := DefaultTrainConfig()
	cfg.Epochs = 150
	cfg.BatchSize = 8
	cfg.LearningRate = 0.01
	report, err := m.Fit(context.Background(), inst, nil, cfg)
	require.NoError(t, err)

	require.Len(t, report.History, 150)
	assert.Less(t, report.FinalLoss(), report.History[0].TrainLoss/2)
	assert.False(t, report.StoppedEarly)

	meta := m.Training()
	require.NotNil(t, meta)
	assert.Equal(t, 150, meta.Epoch)
	assert.Equal(t, "adam", meta.Optimizer)
	assert.Equal(t, int64(150*5), meta.Step)

	scores, err := m.Evaluate(inst)
	require.NoError(t, err)
	assert.Equal(t, inst.Len(), scores.Count)
}

func TestFitEarlyStoppingRestoresBest(t *testing.T) {
	inst, _ := scaledInstances(t, series.Sine(60, 12, 1), 3)
	train, val, err := inst.Split(10)
	require.NoError(t, err)

	m, err := NewModel(smallConfig(1))
	require.NoError(t, err)

	cfg := DefaultTrainConfig()
	cfg.Epochs = 50
	cfg.Patience = 2
	cfg.MinDelta = 1e9
	report, err := m.Fit(context.Background(), train, val, cfg)
	require.NoError(t, err)

	assert.True(t, report.StoppedEarly)
	assert.Len(t, report.History, 3)
	assert.Equal(t, 1, report.BestEpoch)

	loss, err := m.loss(val)
	require.NoError(t, err)
	assert.InDelta(t, report.History[0].ValidationLoss, loss, 1e-9)
}

func TestFitHoldsOutValidationFraction(t *testing.T) {
	inst, _ := scaledInstances(t, series.Ramp(23, 0, 1), 3)
	m, err := NewModel(smallConfig(1))
	require.NoError(t, err)

	cfg := DefaultTrainConfig()
	cfg.Epochs = 2
	cfg.ValidationSize = 0.25
	report, err := m.Fit(context.Background(), inst, nil, cfg)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(report.History[1].ValidationLoss))
}

func TestFitHonoursCancellation(t *testing.T) {
	inst, _ := scaledInstances(t, series.Ramp(20, 0, 1), 3)
	m, err := NewModel(smallConfig(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := m.Fit(ctx, inst, nil, DefaultTrainConfig())
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, report)
	assert.Empty(t, report.History)
}

func TestFitRejectsMismatchedInstances(t *testing.T) {
	inst, err := window.Build(series.Multivariate(10), 3)
	require.NoError(t, err)
	m, err := NewModel(smallConfig(1))
	require.NoError(t, err)

	_, err = m.Fit(context.Background(), inst, nil, DefaultTrainConfig())
	assert.True(t, errors.Is(err, ErrShape))
}

func TestPredictAndForecast(t *testing.T) {
	s := series.Multivariate(12)
	inst, sc := scaledInstances(t, s, 3)
	m, err := NewModel(smallConfig(3))
	require.NoError(t, err)

	pred, err := m.PredictInstances(inst)
	require.NoError(t, err)
	require.Len(t, pred, inst.Len())
	assert.Len(t, pred[0], 3)

	direct, err := m.Predict([][][]float64{inst.Input(0)})
	require.NoError(t, err)
	assert.InDeltaSlice(t, pred[0], direct[0], 1e-6)

	_, err = m.Predict([][][]float64{{{1, 2, 3}}})
	assert.True(t, errors.Is(err, ErrShape))

	require.NoError(t, m.SetScaler(sc))
	out, err := m.Forecast(s, 4)
	require.NoError(t, err)
	require.Len(t, out, 4)

	last, err := window.Last(s, 3)
	require.NoError(t, err)
	for k, row := range last[0] {
		last[0][k] = sc.TransformRow(row)
	}
	first, err := m.Predict(last)
	require.NoError(t, err)
	assert.InDeltaSlice(t, sc.InverseRow(first[0]), out[0], 1e-6)

	_, err = m.Forecast(s, 0)
	assert.True(t, errors.Is(err, window.ErrInvalidArgument))
	_, err = m.Forecast(series.Ramp(5, 0, 1), 1)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestNilInputsReturnErrors(t *testing.T) {
	m, err := NewModel(smallConfig(1))
	require.NoError(t, err)

	require.NotPanics(t, func() { _, err = m.Forecast(nil, 2) })
	assert.True(t, errors.Is(err, window.ErrInvalidArgument))

	require.NotPanics(t, func() { _, err = m.PredictInstances(nil) })
	assert.True(t, errors.Is(err, window.ErrInvalidArgument))

	require.NotPanics(t, func() { _, err = m.Evaluate(nil) })
	assert.True(t, errors.Is(err, window.ErrInvalidArgument))

	require.NotPanics(t, func() { _, err = m.Fit(context.Background(), nil, nil, DefaultTrainConfig()) })
	assert.True(t, errors.Is(err, window.ErrInvalidArgument))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	inst, sc := scaledInstances(t, series.Ramp(30, 5, 2), 3)
	cfg := smallConfig(1)
	cfg.PoolSize = 2
	m, err := NewModel(cfg)
	require.NoError(t, err)
	require.NoError(t, m.SetScaler(sc))

	train := DefaultTrainConfig()
	train.Epochs = 3
	_, err = m.Fit(context.Background(), inst, nil, train)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf, serialization.WithCompression(zstd.SpeedDefault)))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded.Config())
	require.NotNil(t, loaded.Scaler())
	require.NotNil(t, loaded.Training())
	assert.Equal(t, 3, loaded.Training().Epoch)

	want, err := m.PredictInstances(inst)
	require.NoError(t, err)
	got, err := loaded.PredictInstances(inst)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	path := t.TempDir() + "/model.cnvc"
	require.NoError(t, m.SaveFile(path))
	fromFile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, fromFile.Config())
}
