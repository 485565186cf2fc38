package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/convcast/internal/config"
	"github.com/born-ml/convcast/internal/forecast"
	"github.com/born-ml/convcast/internal/logging"
	"github.com/born-ml/convcast/internal/series"
	"github.com/born-ml/convcast/internal/store"
)

// common holds the flags shared by the data-reading commands.
type common struct {
	configPath string
	data       string
	columns    string
	stored     string
	fibonacci  int
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file (defaults plus CONVCAST_* env when empty)")
	fs.StringVar(&c.data, "data", "", "CSV series file, .xz allowed (overrides data.path)")
	fs.StringVar(&c.columns, "cols", "", "comma-separated columns to use (overrides data.columns)")
	fs.StringVar(&c.stored, "series", "", "read the series from the store instead of a file")
	fs.IntVar(&c.fibonacci, "fib", 0, "use the first N Fibonacci numbers as the series")
}

// load resolves the configuration and builds the logger.
func (c *common) load() (*config.Config, *logrus.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, nil, err
	}
	if c.data != "" {
		cfg.Data.Path = c.data
	}
	if c.columns != "" {
		cfg.Data.Columns = strings.Split(c.columns, ",")
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// readSeries reads the input series from the first configured source.
func (c *common) readSeries(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*series.Series, error) {
	switch {
	case c.fibonacci > 0:
		return series.Fibonacci(c.fibonacci), nil
	case c.stored != "":
		st, err := store.Open(cfg.Store, logger)
		if err != nil {
			return nil, err
		}
		defer func() { _ = st.Close() }()
		return st.GetSeries(ctx, c.stored)
	case cfg.Data.Path != "":
		return series.Open(cfg.Data.Path, cfg.Data.Columns...)
	default:
		return nil, errors.New("no input series: use -data, -series, -fib or data.path")
	}
}

// modelSource holds the flags that select a trained model.
type modelSource struct {
	path string
	ref  string
}

func (m *modelSource) register(fs *flag.FlagSet) {
	fs.StringVar(&m.path, "model", "", "checkpoint file")
	fs.StringVar(&m.ref, "id", "", "stored model id or name (latest with that name)")
}

func (m *modelSource) load(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*forecast.Model, error) {
	opts := []forecast.Option{forecast.WithLogger(logger)}
	if m.path != "" {
		return forecast.LoadFile(m.path, opts...)
	}
	if m.ref == "" {
		return nil, errors.New("no model: use -model or -id")
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	id, err := uuid.Parse(m.ref)
	if err != nil {
		info, findErr := st.FindModel(ctx, m.ref)
		if findErr != nil {
			return nil, findErr
		}
		id = info.ID
	}
	_, data, err := st.GetModel(ctx, id)
	if err != nil {
		return nil, err
	}
	return forecast.Load(bytes.NewReader(data), opts...)
}

func printRows(rows [][]float64) {
	for i, row := range rows {
		fmt.Printf("%4d  %v\n", i+1, row)
	}
}
