package nn

import (
	"fmt"
	"io"

	"github.com/born-ml/convcast/internal/serialization"
	"github.com/born-ml/convcast/internal/tensor"
)

// Write stores m's state dictionary as a checkpoint on w.
func Write[B tensor.Backend](w io.Writer, m Module[B], header serialization.Header, opts ...serialization.WriterOption) error {
	if err := serialization.NewWriter(w, opts...).WriteStateDict(m.StateDict(), header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// Read loads a checkpoint from r into m and returns its header.
func Read[B tensor.Backend](r io.Reader, m Module[B]) (*serialization.Header, error) {
	ckpt, err := serialization.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if err := m.LoadStateDict(ckpt.StateDict); err != nil {
		return nil, fmt.Errorf("failed to load state dict: %w", err)
	}
	return &ckpt.Header, nil
}

// Save writes m to a checkpoint file at path.
func Save[B tensor.Backend](path string, m Module[B], header serialization.Header, opts ...serialization.WriterOption) error {
	return serialization.SaveFile(path, m.StateDict(), header, opts...)
}

// Load reads the checkpoint file at path into m and returns its header.
func Load[B tensor.Backend](path string, m Module[B]) (*serialization.Header, error) {
	ckpt, err := serialization.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := m.LoadStateDict(ckpt.StateDict); err != nil {
		return nil, fmt.Errorf("failed to load state dict: %w", err)
	}
	return &ckpt.Header, nil
}
