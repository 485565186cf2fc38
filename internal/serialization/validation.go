package serialization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/born-ml/convcast/internal/tensor"
)

// Limits applied while reading untrusted checkpoints.
const (
	MaxHeaderSize    = 16 << 20
	MaxDataSize      = 1 << 30
	MaxTensorCount   = 10_000
	MaxTensorNameLen = 256
)

// ValidateTensorName rejects names that are empty, too long or contain
// separators and control bytes.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty tensor name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains a path separator, '..' or a null byte",
		}
	}
	return nil
}

// ValidateTensorOffsets checks that every tensor lies inside the data
// section, that no two tensors overlap and that each size matches its shape.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", t.Offset, t.Size),
			}
		}
		if t.Size > dataSize || t.Offset > dataSize-t.Size {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}
		if i < len(sorted)-1 && t.Offset > sorted[i+1].Offset-t.Size {
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  t.Name,
				Details: fmt.Sprintf("overlaps %q", sorted[i+1].Name),
			}
		}
	}
	return nil
}

// ValidateHeader checks the tensor table of a decoded header against the
// size of the (uncompressed) data section.
func ValidateHeader(h *Header, dataSize int64) error {
	seen := make(map[string]bool, len(h.Tensors))
	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if seen[t.Name] {
			return &ValidationError{Type: "duplicate_name", Tensor: t.Name, Details: "listed twice"}
		}
		seen[t.Name] = true

		if t.DType != tensor.DType {
			return &ValidationError{Type: "unsupported_dtype", Tensor: t.Name, Details: t.DType}
		}
		shape := tensor.Shape(t.Shape)
		if err := shape.Validate(); err != nil {
			return &ValidationError{Type: "invalid_shape", Tensor: t.Name, Details: err.Error()}
		}
		elements := int64(1)
		for _, dim := range shape {
			if int64(dim) > MaxDataSize/4/elements {
				return &ValidationError{
					Type:    "out_of_bounds",
					Tensor:  t.Name,
					Details: fmt.Sprintf("shape %v exceeds %d bytes", shape, MaxDataSize),
				}
			}
			elements *= int64(dim)
		}
		if want := int64(shape.NumElements()) * 4; want != t.Size {
			return &ValidationError{
				Type:    "size_mismatch",
				Tensor:  t.Name,
				Details: fmt.Sprintf("shape %v needs %d bytes, entry has %d", shape, want, t.Size),
			}
		}
	}
	return ValidateTensorOffsets(h.Tensors, dataSize)
}
