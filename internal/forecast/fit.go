package forecast

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/convcast/internal/autodiff"
	"github.com/born-ml/convcast/internal/nn"
	"github.com/born-ml/convcast/internal/optim"
	"github.com/born-ml/convcast/internal/serialization"
	"github.com/born-ml/convcast/internal/tensor"
	"github.com/born-ml/convcast/internal/window"
)

// EpochStats records one training epoch.
type EpochStats struct {
	Epoch          int
	TrainLoss      float64
	ValidationLoss float64 // NaN without a validation set
	Duration       time.Duration
}

// Report summarises a Fit call.
type Report struct {
	History      []EpochStats
	BestEpoch    int
	BestLoss     float64 // monitored loss at BestEpoch
	StoppedEarly bool
	Duration     time.Duration
}

// FinalLoss returns the training loss of the last completed epoch.
func (r *Report) FinalLoss() float64 {
	if len(r.History) == 0 {
		return math.NaN()
	}
	return r.History[len(r.History)-1].TrainLoss
}

// Fit trains the model on train with mini-batch gradient descent on the
// mean squared error.
//
// validation may be nil; with cfg.ValidationSize > 0 the last fraction of
// train is then held out instead. The monitored loss is the validation loss
// when there is a validation set and the training loss otherwise. With
// cfg.Patience > 0 training stops after that many epochs without an
// improvement larger than cfg.MinDelta and the best weights are restored.
//
// The context is checked between batches; on cancellation the report of
// the completed epochs is returned with the context's error.
func (m *Model) Fit(ctx context.Context, train, validation *window.Instances, cfg TrainConfig) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := m.checkInstances(train); err != nil {
		return nil, err
	}
	if validation == nil && cfg.ValidationSize > 0 {
		var err error
		if train, validation, err = train.SplitFraction(cfg.ValidationSize); err != nil {
			return nil, err
		}
	}
	if validation != nil && validation.Len() == 0 {
		validation = nil
	}
	if validation != nil {
		if err := m.checkInstances(validation); err != nil {
			return nil, err
		}
	}
	if train.Len() == 0 {
		return nil, fmt.Errorf("%w: no training instances", window.ErrInvalidArgument)
	}

	optimizer, err := optim.New(cfg.Optimizer, m.net.Parameters(), float32(cfg.LearningRate), m.backend)
	if err != nil {
		return nil, err
	}
	criterion := nn.NewMSELoss(m.backend)
	//nolint:gosec // shuffling is not security-critical
	rng := rand.New(rand.NewSource(cfg.Seed))

	n := train.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	m.logger.WithFields(logrus.Fields{
		"instances":  n,
		"validation": lenOrZero(validation),
		"epochs":     cfg.Epochs,
		"batch_size": cfg.BatchSize,
		"optimizer":  optimizer.Name(),
		"parameters": m.NumParameters(),
	}).Info("Starting training")

	report := &Report{BestLoss: math.Inf(1)}
	var best map[string]*tensor.RawTensor
	wait := 0
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		epochStart := time.Now()
		if cfg.Shuffle {
			rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		}

		var sum float64
		for from := 0; from < n; from += cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				m.restore(best)
				return report, fmt.Errorf("training cancelled in epoch %d: %w", epoch, err)
			}
			batch := train.Gather(indices[from:min(from+cfg.BatchSize, n)])
			loss, err := m.step(batch, criterion, optimizer)
			if err != nil {
				return report, err
			}
			sum += loss * float64(batch.Len())
		}

		stats := EpochStats{
			Epoch:          epoch,
			TrainLoss:      sum / float64(n),
			ValidationLoss: math.NaN(),
			Duration:       time.Since(epochStart),
		}
		monitored := stats.TrainLoss
		if validation != nil {
			if stats.ValidationLoss, err = m.loss(validation); err != nil {
				return report, err
			}
			monitored = stats.ValidationLoss
		}
		report.History = append(report.History, stats)

		m.logger.WithFields(logrus.Fields{
			"epoch":      epoch,
			"train_loss": stats.TrainLoss,
			"val_loss":   stats.ValidationLoss,
			"duration":   stats.Duration,
		}).Debug("Training epoch completed")

		if monitored < report.BestLoss-cfg.MinDelta {
			report.BestLoss = monitored
			report.BestEpoch = epoch
			wait = 0
			if cfg.Patience > 0 {
				best = m.snapshot()
			}
		} else if cfg.Patience > 0 {
			wait++
			if wait >= cfg.Patience {
				m.logger.WithFields(logrus.Fields{
					"epoch":      epoch,
					"patience":   wait,
					"best_epoch": report.BestEpoch,
				}).Info("Early stopping triggered")
				report.StoppedEarly = true
				break
			}
		}
	}

	if cfg.Patience > 0 {
		m.restore(best)
	}

	last := report.History[len(report.History)-1]
	m.training = &serialization.TrainingMeta{
		Epoch:           last.Epoch,
		Step:            int64(last.Epoch) * int64((n+cfg.BatchSize-1)/cfg.BatchSize),
		Loss:            last.TrainLoss,
		Optimizer:       optimizer.Name(),
		OptimizerConfig: optimizer.Hyperparameters(),
	}
	if validation != nil {
		m.training.ValidationLoss = last.ValidationLoss
	}

	m.logger.WithFields(logrus.Fields{
		"epochs":     len(report.History),
		"best_epoch": report.BestEpoch,
		"best_loss":  report.BestLoss,
		"train_loss": last.TrainLoss,
	}).Info("Training finished")

	return report, nil
}

// step runs one forward/backward pass over batch and updates the weights.
func (m *Model) step(batch *window.Instances, criterion *nn.MSELoss[Backend], optimizer optim.Optimizer) (float64, error) {
	x, y, err := window.Tensors(batch, m.backend)
	if err != nil {
		return 0, err
	}

	tape := m.backend.Tape()
	tape.Clear()
	tape.StartRecording()
	loss := criterion.Forward(m.net.Forward(x), y)
	grads := autodiff.Backward(loss, m.backend)
	tape.StopRecording()
	tape.Clear()

	optimizer.Step(grads)
	optimizer.ZeroGrad()
	return float64(loss.Item()), nil
}

// loss returns the mean squared error over in, in model units.
func (m *Model) loss(in *window.Instances) (float64, error) {
	pred, err := m.PredictInstances(in)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i, row := range pred {
		target := in.Target(i)
		for j, v := range row {
			d := v - target[j]
			sum += d * d
		}
	}
	return sum / float64(in.Len()*in.Width()), nil
}

func (m *Model) restore(state map[string]*tensor.RawTensor) {
	if state == nil {
		return
	}
	if err := m.net.LoadStateDict(state); err != nil {
		// A snapshot of this network always matches it.
		panic(fmt.Sprintf("forecast: restoring snapshot: %v", err))
	}
}

func lenOrZero(in *window.Instances) int {
	if in == nil {
		return 0
	}
	return in.Len()
}
