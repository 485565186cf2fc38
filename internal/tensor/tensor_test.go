package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{3, 5, 2}, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.shape.NumElements(), "shape %v", tt.shape)
	}
}

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())
	require.Error(t, Shape{2, 0}.Validate())
	require.Error(t, Shape{-1}.Validate())
}

func TestShapeStridesAndRows(t *testing.T) {
	s := Shape{3, 5, 2}
	assert.Equal(t, []int{10, 2, 1}, s.ComputeStrides())

	rows, cols := s.Rows()
	assert.Equal(t, 15, rows)
	assert.Equal(t, 2, cols)
}

func TestRawTensorIndexing(t *testing.T) {
	raw, err := FromFloat32([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, CPU)
	require.NoError(t, err)

	assert.Equal(t, float32(6), raw.At(1, 2))
	raw.Set(42, 0, 1)
	assert.Equal(t, float32(42), raw.AsFloat32()[1])

	assert.Panics(t, func() { raw.At(2, 0) })
	assert.Panics(t, func() { raw.At(0) })
}

func TestRawTensorCloneIsDeep(t *testing.T) {
	raw, err := FromFloat32([]float32{1, 2}, Shape{2}, CPU)
	require.NoError(t, err)

	clone := raw.Clone()
	clone.AsFloat32()[0] = 9
	assert.Equal(t, float32(1), raw.AsFloat32()[0])
}

func TestRawTensorViewSharesBuffer(t *testing.T) {
	raw := MustRaw(Shape{2, 3}, CPU)
	view, err := raw.View(Shape{6})
	require.NoError(t, err)

	view.AsFloat32()[5] = 7
	assert.Equal(t, float32(7), raw.At(1, 2))

	_, err = raw.View(Shape{4})
	require.Error(t, err)
}

func TestFromFloat32SizeMismatch(t *testing.T) {
	_, err := FromFloat32([]float32{1, 2, 3}, Shape{2, 2}, CPU)
	require.Error(t, err)
}
