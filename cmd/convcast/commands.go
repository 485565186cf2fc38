package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/born-ml/convcast/internal/forecast"
	"github.com/born-ml/convcast/internal/metrics"
	"github.com/born-ml/convcast/internal/scale"
	"github.com/born-ml/convcast/internal/serialization"
	"github.com/born-ml/convcast/internal/series"
	"github.com/born-ml/convcast/internal/store"
	"github.com/born-ml/convcast/internal/window"
)

func runWindow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("window", flag.ContinueOnError)
	var c common
	c.register(fs)
	size := fs.Int("size", 0, "window size (overrides model.window_size)")
	limit := fs.Int("n", 10, "instances to print, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load()
	if err != nil {
		return err
	}
	if *size > 0 {
		cfg.Model.WindowSize = *size
	}
	s, err := c.readSeries(ctx, cfg, logger)
	if err != nil {
		return err
	}

	in, err := window.Build(s, cfg.Model.WindowSize)
	if err != nil {
		return err
	}
	n := in.Len()
	if *limit > 0 {
		n = min(n, *limit)
	}
	for i := range n {
		fmt.Printf("%4d  %v -> %v\n", i, in.Input(i), in.Target(i))
	}
	return nil
}

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	var c common
	c.register(fs)
	out := fs.String("out", "", "write the checkpoint to this file")
	save := fs.Bool("save", false, "store the checkpoint")
	name := fs.String("name", "model", "name of the stored model")
	epochs := fs.Int("epochs", 0, "override train.epochs")
	size := fs.Int("window", 0, "override model.window_size")
	compress := fs.Bool("compress", true, "zstd-compress the checkpoint data")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load()
	if err != nil {
		return err
	}
	if *epochs > 0 {
		cfg.Train.Epochs = *epochs
	}
	if *size > 0 {
		cfg.Model.WindowSize = *size
	}
	s, err := c.readSeries(ctx, cfg, logger)
	if err != nil {
		return err
	}
	cfg.Model.Features = s.Width()

	trainRows := s.Len() - cfg.Data.TestSize
	if trainRows <= cfg.Model.WindowSize {
		return fmt.Errorf("%d observations leave %d for training, need more than the window of %d",
			s.Len(), trainRows, cfg.Model.WindowSize)
	}
	method, err := scale.ParseMethod(cfg.Data.Scale)
	if err != nil {
		return err
	}
	sc, err := scale.Fit(s, trainRows, method)
	if err != nil {
		return err
	}
	scaled, err := sc.Transform(s)
	if err != nil {
		return err
	}
	in, err := window.Build(scaled, cfg.Model.WindowSize)
	if err != nil {
		return err
	}
	train, test, err := in.Split(cfg.Data.TestSize)
	if err != nil {
		return err
	}

	model, err := forecast.NewModel(cfg.Model, forecast.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := model.SetScaler(sc); err != nil {
		return err
	}
	fmt.Printf("Model: %s parameters\n%s\n", humanize.Comma(int64(model.NumParameters())), model)

	report, err := model.Fit(ctx, train, nil, cfg.Train)
	if err != nil {
		return err
	}
	fmt.Printf("Trained %d epochs in %s: loss %.6f, best epoch %d",
		len(report.History), report.Duration.Round(time.Millisecond), report.FinalLoss(), report.BestEpoch)
	if report.StoppedEarly {
		fmt.Print(" (stopped early)")
	}
	fmt.Println()

	labels := map[string]string{
		"features": strconv.Itoa(cfg.Model.Features),
		"window":   strconv.Itoa(cfg.Model.WindowSize),
		"loss":     strconv.FormatFloat(report.FinalLoss(), 'g', 6, 64),
	}
	if test.Len() > 0 {
		scores, err := model.Evaluate(test)
		if err != nil {
			return err
		}
		printScores(scores)
		labels["test_rmse"] = strconv.FormatFloat(scores.Overall.RMSE, 'g', 6, 64)
	}

	var opts []serialization.WriterOption
	if *compress {
		opts = append(opts, serialization.WithCompression(zstd.SpeedDefault))
	}
	if *out != "" {
		if err := model.SaveFile(*out, opts...); err != nil {
			return err
		}
		if fi, err := os.Stat(*out); err == nil {
			fmt.Printf("Saved %s (%s)\n", *out, humanize.Bytes(uint64(fi.Size())))
		}
	}
	if *save {
		var buf bytes.Buffer
		if err := model.Save(&buf, opts...); err != nil {
			return err
		}
		st, err := store.Open(cfg.Store, logger)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		info, err := st.PutModel(ctx, *name, buf.Bytes(), labels)
		if err != nil {
			return err
		}
		fmt.Printf("Stored %s as %s (%s)\n", info.Name, info.ID, humanize.Bytes(uint64(info.Size)))
	}
	return nil
}

func runPredict(ctx context.Context, args []string) error {
	return predict(ctx, "predict", args, 1)
}

func runForecast(ctx context.Context, args []string) error {
	return predict(ctx, "forecast", args, 0)
}

// predict loads a model and forecasts past the end of the input series.
// steps 0 exposes a -steps flag.
func predict(ctx context.Context, name string, args []string, steps int) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var (
		c   common
		src modelSource
	)
	c.register(fs)
	src.register(fs)
	n := &steps
	if steps == 0 {
		n = fs.Int("steps", 5, "number of steps to forecast")
	}
	out := fs.String("out", "", "also write the predictions as CSV (.xz allowed)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := c.load()
	if err != nil {
		return err
	}
	model, err := src.load(ctx, cfg, logger)
	if err != nil {
		return err
	}
	s, err := c.readSeries(ctx, cfg, logger)
	if err != nil {
		return err
	}

	rows, err := model.Forecast(s, *n)
	if err != nil {
		return err
	}
	printRows(rows)

	if *out != "" {
		pred, err := series.New(rows)
		if err != nil {
			return err
		}
		if pred, err = pred.WithNames(s.Names()...); err != nil {
			return err
		}
		return pred.Create(*out)
	}
	return nil
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	var c common
	c.register(fs)
	name := fs.String("name", "", "name to store the series under")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}

	cfg, logger, err := c.load()
	if err != nil {
		return err
	}
	s, err := c.readSeries(ctx, cfg, logger)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	info, err := st.PutSeries(ctx, *name, s)
	if err != nil {
		return err
	}
	raw := 8 * info.Len * len(info.Columns)
	fmt.Printf("Stored %s: %s rows × %d columns, %s (raw %s)\n", info.Name,
		humanize.Comma(int64(info.Len)), len(info.Columns),
		humanize.Bytes(uint64(info.Size)), humanize.Bytes(uint64(raw)))
	return nil
}

func runSeries(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("series", flag.ContinueOnError)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := c.load()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	list, err := st.ListSeries(ctx)
	if err != nil {
		return err
	}
	for _, info := range list {
		fmt.Printf("%-24s %8s rows  %v  %s  updated %s\n", info.Name, humanize.Comma(int64(info.Len)),
			info.Columns, humanize.Bytes(uint64(info.Size)), humanize.Time(info.UpdatedAt))
	}
	return nil
}

func runModels(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	var c common
	c.register(fs)
	remove := fs.String("delete", "", "delete the stored model with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := c.load()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if *remove != "" {
		id, err := uuid.Parse(*remove)
		if err != nil {
			return err
		}
		if err := st.DeleteModel(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", id)
		return nil
	}

	list, err := st.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, info := range list {
		fmt.Printf("%s  %-20s %8s  %s  %v\n", info.ID, info.Name, humanize.Bytes(uint64(info.Size)),
			humanize.Time(info.CreatedAt), info.Labels)
	}
	return nil
}

func printScores(r *metrics.Report) {
	fmt.Printf("Test (%d instances): RMSE %.4f  MAE %.4f  MAPE %s  R² %.4f\n",
		r.Count, r.Overall.RMSE, r.Overall.MAE, percent(r.Overall.MAPE), r.Overall.R2)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
