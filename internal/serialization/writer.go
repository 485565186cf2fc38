package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/born-ml/convcast/internal/tensor"
)

// Writer writes checkpoints to an io.Writer.
type Writer struct {
	w        io.Writer
	compress bool
	level    zstd.EncoderLevel
	now      func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompression zstd-compresses the data section at the given level.
func WithCompression(level zstd.EncoderLevel) WriterOption {
	return func(w *Writer) {
		w.compress = true
		w.level = level
	}
}

// NewWriter creates a checkpoint writer over w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	cw := &Writer{w: w, now: time.Now}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// WriteStateDict writes a full checkpoint. Header.Tensors, FormatVersion and
// (when zero) CreatedAt are filled in by the writer.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.RawTensor, header Header) error {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header.FormatVersion = FormatVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = w.now().UTC()
	}
	header.Tensors = make([]TensorMeta, 0, len(names))

	var data bytes.Buffer
	for _, name := range names {
		raw := stateDict[name]
		offset := int64(data.Len())
		for _, v := range raw.AsFloat32() {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			data.Write(b[:])
		}
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  tensor.DType,
			Shape:  []int(raw.Shape().Clone()),
			Offset: offset,
			Size:   int64(data.Len()) - offset,
		})
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Training != nil {
		flags |= FlagHasTraining
	}

	checksum := ComputeChecksum(data.Bytes())
	payload := data.Bytes()
	if w.compress {
		flags |= FlagCompressed
		compressed, err := compress(payload, w.level)
		if err != nil {
			return err
		}
		payload = compressed
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := io.WriteString(w.w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.w.Write(checksum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint64(len(payload))); err != nil {
		return fmt.Errorf("failed to write payload size: %w", err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// SaveFile writes a checkpoint to path, replacing any existing file.
func SaveFile(path string, stateDict map[string]*tensor.RawTensor, header Header, opts ...WriterOption) error {
	//nolint:gosec // G304: checkpoint paths come from the caller
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := NewWriter(f, opts...).WriteStateDict(stateDict, header); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
