package store

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/internal/series"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.InMemory = true
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCodecRoundTrip(t *testing.T) {
	c, err := newCodec(3)
	require.NoError(t, err)
	defer c.close()

	values := []float64{1, 1, 1.5, -2, 0, math.Inf(1), 1e-300, 42}
	encoded := c.encodeValues(values)
	decoded, err := c.decodeValues(encoded, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)

	_, err = c.decodeValues(encoded, len(values)+1)
	assert.True(t, errors.Is(err, ErrCorrupt))

	empty, err := c.decodeValues(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCodecCompressesSmoothColumns(t *testing.T) {
	c, err := newCodec(2)
	require.NoError(t, err)
	defer c.close()

	values := make([]float64, 1000)
	for i := range values {
		values[i] = 7
	}
	assert.Less(t, len(c.encodeValues(values)), 8*len(values)/10)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Path = ""
	require.Error(t, cfg.Validate())
	cfg.InMemory = true
	require.NoError(t, cfg.Validate())

	cfg.CompressionLevel = 5
	require.Error(t, cfg.Validate())
}

func TestSeriesRoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	data := series.Multivariate(20)
	info, err := s.PutSeries(ctx, "mv", data)
	require.NoError(t, err)
	assert.Equal(t, 20, info.Len)
	assert.Equal(t, []string{"in1", "in2", "out"}, info.Columns)
	assert.Positive(t, info.Size)

	got, err := s.GetSeries(ctx, "mv")
	require.NoError(t, err)
	assert.Equal(t, data.Rows(), got.Rows())
	assert.Equal(t, data.Names(), got.Names())

	_, err = s.PutSeries(ctx, "fib", series.Fibonacci(10))
	require.NoError(t, err)

	list, err := s.ListSeries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fib", list[0].Name)
	assert.Equal(t, "mv", list[1].Name)

	require.NoError(t, s.DeleteSeries(ctx, "mv"))
	_, err = s.GetSeries(ctx, "mv")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteSeries(ctx, "mv"), ErrNotFound))
}

func TestPutSeriesReplaces(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	_, err := s.PutSeries(ctx, "x", series.Ramp(5, 0, 1))
	require.NoError(t, err)
	_, err = s.PutSeries(ctx, "x", series.Ramp(3, 10, 1))
	require.NoError(t, err)

	got, err := s.GetSeries(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, got.Values())
}

func TestModels(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	first, err := s.PutModel(ctx, "fib", []byte("CNVC-one"), map[string]string{"loss": "0.1"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, 8, first.Size)

	time.Sleep(2 * time.Millisecond)
	second, err := s.PutModel(ctx, "fib", []byte("CNVC-two"), nil)
	require.NoError(t, err)

	info, data, err := s.GetModel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("CNVC-one"), data)
	assert.Equal(t, "0.1", info.Labels["loss"])

	list, err := s.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	latest, err := s.FindModel(ctx, "fib")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = s.FindModel(ctx, "sine")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.DeleteModel(ctx, first.ID))
	_, _, err = s.GetModel(ctx, first.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteModel(ctx, first.ID), ErrNotFound))
}

func TestInvalidNames(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	_, err := s.PutSeries(ctx, "", series.Fibonacci(3))
	assert.True(t, errors.Is(err, ErrInvalidName))
	_, err = s.PutModel(ctx, strings.Repeat("m", MaxNameLen+1), nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidName))
}

func TestCancelledContext(t *testing.T) {
	s := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PutSeries(ctx, "x", series.Fibonacci(3))
	assert.True(t, errors.Is(err, context.Canceled))
	_, err = s.GetSeries(ctx, "x")
	assert.True(t, errors.Is(err, context.Canceled))
	_, err = s.PutModel(ctx, "m", nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestListHonoursCancellation(t *testing.T) {
	s := openMemory(t)
	_, err := s.PutSeries(context.Background(), "x", series.Fibonacci(3))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.ListSeries(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPersistsAcrossReopen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Path = t.TempDir()
	ctx := context.Background()

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	_, err = s.PutSeries(ctx, "sine", series.Sine(50, 10, 2))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.GetSeries(ctx, "sine")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Len())
}
