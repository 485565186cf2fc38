package forecast

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/convcast/internal/nn"
	"github.com/born-ml/convcast/internal/scale"
	"github.com/born-ml/convcast/internal/serialization"
)

// Checkpoint metadata keys.
const (
	metaConfig = "model_config"
	metaScaler = "scaler"
)

type scalerMeta struct {
	Method scale.Method `json:"method"`
	Offset []float64    `json:"offset"`
	Scale  []float64    `json:"scale"`
}

func (m *Model) header() (serialization.Header, error) {
	cfg, err := json.Marshal(m.cfg)
	if err != nil {
		return serialization.Header{}, fmt.Errorf("failed to encode model config: %w", err)
	}
	header := serialization.Header{
		Version:   Version,
		ModelType: ModelType,
		Metadata:  map[string]string{metaConfig: string(cfg)},
		Training:  m.training,
	}
	if m.scaler != nil {
		offset, sc := m.scaler.Params()
		raw, err := json.Marshal(scalerMeta{Method: m.scaler.Method(), Offset: offset, Scale: sc})
		if err != nil {
			return serialization.Header{}, fmt.Errorf("failed to encode scaler: %w", err)
		}
		header.Metadata[metaScaler] = string(raw)
	}
	return header, nil
}

// Save writes the model, its configuration and scaler as a checkpoint.
func (m *Model) Save(w io.Writer, opts ...serialization.WriterOption) error {
	header, err := m.header()
	if err != nil {
		return err
	}
	return nn.Write[Backend](w, m.net, header, opts...)
}

// SaveFile writes the model checkpoint to path.
func (m *Model) SaveFile(path string, opts ...serialization.WriterOption) error {
	header, err := m.header()
	if err != nil {
		return err
	}
	return nn.Save[Backend](path, m.net, header, opts...)
}

// Load rebuilds a model from a checkpoint written by Save.
func Load(r io.Reader, opts ...Option) (*Model, error) {
	ckpt, err := serialization.Read(r)
	if err != nil {
		return nil, err
	}
	return fromCheckpoint(ckpt, opts...)
}

// LoadFile rebuilds a model from a checkpoint file.
func LoadFile(path string, opts ...Option) (*Model, error) {
	//nolint:gosec // G304: checkpoint paths come from the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, opts...)
}

func fromCheckpoint(ckpt *serialization.Checkpoint, opts ...Option) (*Model, error) {
	if ckpt.Header.ModelType != ModelType {
		return nil, fmt.Errorf("checkpoint holds a %q, not a %s", ckpt.Header.ModelType, ModelType)
	}
	var cfg ModelConfig
	if err := json.Unmarshal([]byte(ckpt.Header.Metadata[metaConfig]), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode model config: %w", err)
	}
	m, err := NewModel(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.net.LoadStateDict(ckpt.StateDict); err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	if raw, ok := ckpt.Header.Metadata[metaScaler]; ok {
		var meta scalerMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("failed to decode scaler: %w", err)
		}
		sc, err := scale.New(meta.Method, meta.Offset, meta.Scale)
		if err != nil {
			return nil, err
		}
		if err := m.SetScaler(sc); err != nil {
			return nil, err
		}
	}
	m.training = ckpt.Header.Training
	return m, nil
}
