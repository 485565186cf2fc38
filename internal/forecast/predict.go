package forecast

import (
	"fmt"

	"github.com/born-ml/convcast/internal/metrics"
	"github.com/born-ml/convcast/internal/series"
	"github.com/born-ml/convcast/internal/tensor"
	"github.com/born-ml/convcast/internal/window"
)

const inferenceBatch = 256

// forward runs n flattened windows through the network without recording
// and returns n*Features outputs.
func (m *Model) forward(xs []float32, n int) ([]float32, error) {
	tape := m.backend.Tape()
	recording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if recording {
			tape.StartRecording()
		}
	}()

	step := m.cfg.WindowSize * m.cfg.Features
	out := make([]float32, 0, n*m.cfg.Features)
	for start := 0; start < n; start += inferenceBatch {
		end := min(start+inferenceBatch, n)
		x, err := tensor.FromSlice(xs[start*step:end*step], tensor.Shape{end - start, m.cfg.WindowSize, m.cfg.Features}, m.backend)
		if err != nil {
			return nil, err
		}
		out = append(out, m.net.Forward(x).Data()...)
	}
	return out, nil
}

func (m *Model) checkInstances(in *window.Instances) error {
	if in == nil {
		return fmt.Errorf("%w: nil instances", window.ErrInvalidArgument)
	}
	if in.WindowSize() != m.cfg.WindowSize || in.Width() != m.cfg.Features {
		return fmt.Errorf("%w: instances are %d steps × %d variables, model expects %d × %d",
			ErrShape, in.WindowSize(), in.Width(), m.cfg.WindowSize, m.cfg.Features)
	}
	return nil
}

func (m *Model) rows(flat []float32) [][]float64 {
	rows := make([][]float64, len(flat)/m.cfg.Features)
	for i := range rows {
		row := make([]float64, m.cfg.Features)
		for j := range row {
			row[j] = float64(flat[i*m.cfg.Features+j])
		}
		rows[i] = row
	}
	return rows
}

// Predict returns the next observation for every input window, given as
// [n][WindowSize][Features] values in model units.
func (m *Model) Predict(inputs [][][]float64) ([][]float64, error) {
	step := m.cfg.WindowSize * m.cfg.Features
	xs := make([]float32, 0, len(inputs)*step)
	for i, w := range inputs {
		if len(w) != m.cfg.WindowSize {
			return nil, fmt.Errorf("%w: input %d has %d steps, want %d", ErrShape, i, len(w), m.cfg.WindowSize)
		}
		for _, row := range w {
			if len(row) != m.cfg.Features {
				return nil, fmt.Errorf("%w: input %d has %d variables, want %d", ErrShape, i, len(row), m.cfg.Features)
			}
			for _, v := range row {
				xs = append(xs, float32(v))
			}
		}
	}
	out, err := m.forward(xs, len(inputs))
	if err != nil {
		return nil, err
	}
	return m.rows(out), nil
}

// PredictInstances returns the prediction for every instance in model units.
func (m *Model) PredictInstances(in *window.Instances) ([][]float64, error) {
	if err := m.checkInstances(in); err != nil {
		return nil, err
	}
	xs, _ := in.Flat()
	out, err := m.forward(xs, in.Len())
	if err != nil {
		return nil, err
	}
	return m.rows(out), nil
}

// Evaluate scores predictions against the instances' targets. With a
// scaler attached both are mapped back to original units first.
func (m *Model) Evaluate(in *window.Instances) (*metrics.Report, error) {
	pred, err := m.PredictInstances(in)
	if err != nil {
		return nil, err
	}
	actual := in.Targets()
	if m.scaler != nil {
		for i := range pred {
			pred[i] = m.scaler.InverseRow(pred[i])
			actual[i] = m.scaler.InverseRow(actual[i])
		}
	}
	return metrics.Compute(pred, actual)
}

// Forecast predicts steps observations after the end of s, feeding each
// prediction back as the newest row of the window. s is in original units;
// the attached scaler, if any, is applied on the way in and out.
func (m *Model) Forecast(s *series.Series, steps int) ([][]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", window.ErrInvalidArgument, steps)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil series", window.ErrInvalidArgument)
	}
	if s.Width() != m.cfg.Features {
		return nil, fmt.Errorf("%w: series has %d variables, model expects %d", ErrShape, s.Width(), m.cfg.Features)
	}
	last, err := window.Last(s, m.cfg.WindowSize)
	if err != nil {
		return nil, err
	}
	win := last[0]
	if m.scaler != nil {
		for k, row := range win {
			win[k] = m.scaler.TransformRow(row)
		}
	}

	out := make([][]float64, 0, steps)
	for range steps {
		pred, err := m.Predict([][][]float64{win})
		if err != nil {
			return nil, err
		}
		next := pred[0]
		win = append(win[1:], next)
		if m.scaler != nil {
			next = m.scaler.InverseRow(next)
		}
		out = append(out, next)
	}
	return out, nil
}
