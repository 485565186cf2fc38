// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package forecast_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/forecast"
	"github.com/born-ml/convcast/scale"
	"github.com/born-ml/convcast/series"
	"github.com/born-ml/convcast/window"
)

func TestFibonacciForecast(t *testing.T) {
	s := series.Fibonacci(20)
	sc, err := scale.Fit(s, 0, scale.MinMax)
	require.NoError(t, err)
	scaled, err := sc.Transform(s)
	require.NoError(t, err)
	in, err := window.Build(scaled, 3)
	require.NoError(t, err)

	cfg := forecast.DefaultModelConfig()
	cfg.Filters = 16
	cfg.Hidden = 16
	model, err := forecast.NewModel(cfg, forecast.WithSequentialKernels())
	require.NoError(t, err)
	require.NoError(t, model.SetScaler(sc))

	train := forecast.DefaultTrainConfig()
	train.Epochs = 20
	report, err := model.Fit(context.Background(), in, nil, train)
	require.NoError(t, err)
	assert.Len(t, report.History, 20)

	next, err := model.Forecast(s, 3)
	require.NoError(t, err)
	require.Len(t, next, 3)
	assert.Len(t, next[0], 1)

	var buf bytes.Buffer
	require.NoError(t, model.Save(&buf))
	loaded, err := forecast.Load(&buf, forecast.WithSequentialKernels())
	require.NoError(t, err)

	again, err := loaded.Forecast(s, 3)
	require.NoError(t, err)
	assert.Equal(t, next, again)
}
