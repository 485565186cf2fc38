package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/convcast/internal/tensor"
)

// Checkpoint is a decoded checkpoint.
type Checkpoint struct {
	Header    Header
	Flags     uint32
	StateDict map[string]*tensor.RawTensor
}

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool
}

// Read decodes a checkpoint from r with checksum validation.
func Read(r io.Reader) (*Checkpoint, error) {
	return ReadWithOptions(r, ReaderOptions{})
}

// ReadWithOptions decodes a checkpoint from r.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*Checkpoint, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return nil, ErrInvalidMagic
	}

	var version, flags uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var stored [ChecksumSize]byte
	if _, err := io.ReadFull(r, stored[:]); err != nil {
		return nil, fmt.Errorf("failed to read checksum: %w", err)
	}
	var payloadSize uint64
	if err := binary.Read(r, binary.LittleEndian, &payloadSize); err != nil {
		return nil, fmt.Errorf("failed to read payload size: %w", err)
	}
	if payloadSize > MaxDataSize {
		return nil, ErrPayloadTooLarge
	}
	data := make([]byte, payloadSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	if flags&FlagCompressed != 0 {
		var err error
		if data, err = decompress(data, MaxDataSize); err != nil {
			return nil, err
		}
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, err
		}
	}
	if err := ValidateHeader(&header, int64(len(data))); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	stateDict := make(map[string]*tensor.RawTensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), tensor.CPU)
		if err != nil {
			return nil, fmt.Errorf("tensor %s: %w", meta.Name, err)
		}
		buf := data[meta.Offset : meta.Offset+meta.Size]
		values := raw.AsFloat32()
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}
		stateDict[meta.Name] = raw
	}

	return &Checkpoint{Header: header, Flags: flags, StateDict: stateDict}, nil
}

// LoadFile reads a checkpoint from path.
func LoadFile(path string) (*Checkpoint, error) {
	//nolint:gosec // G304: checkpoint paths come from the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(bufio.NewReader(f))
}
