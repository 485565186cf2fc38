package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// codec packs float64 columns with XOR encoding and zstd.
type codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// encoderLevel maps the 1-4 compression setting onto zstd levels.
func encoderLevel(level int) zstd.EncoderLevel {
	switch level {
	case 1:
		return zstd.SpeedFastest
	case 3:
		return zstd.SpeedBetterCompression
	case 4:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func newCodec(level int) (*codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encoderLevel(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	return &codec{encoder: encoder, decoder: decoder}, nil
}

// encodeValues XORs every value with its predecessor, so slowly changing
// columns turn into runs of mostly zero bits before compression.
func (c *codec) encodeValues(values []float64) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, 8*len(values))
	var prev uint64
	for i, v := range values {
		bits := math.Float64bits(v)
		binary.LittleEndian.PutUint64(buf[8*i:], bits^prev)
		prev = bits
	}
	return c.encoder.EncodeAll(buf, make([]byte, 0, len(buf)/2))
}

func (c *codec) decodeValues(data []byte, count int) ([]float64, error) {
	if count == 0 {
		return nil, nil
	}
	raw, err := c.decoder.DecodeAll(data, make([]byte, 0, 8*count))
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	if len(raw) != 8*count {
		return nil, fmt.Errorf("%w: %d bytes for %d values", ErrCorrupt, len(raw), count)
	}

	values := make([]float64, count)
	r := bytes.NewReader(raw)
	var prev uint64
	for i := range values {
		var x uint64
		if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
			return nil, err
		}
		prev ^= x
		values[i] = math.Float64frombits(prev)
	}
	return values, nil
}

func (c *codec) close() {
	c.encoder.Close()
	c.decoder.Close()
}
