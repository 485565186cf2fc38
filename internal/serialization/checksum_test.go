package serialization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChecksum(t *testing.T) {
	a := ComputeChecksum([]byte("test data"))
	assert.Equal(t, a, ComputeChecksum([]byte("test data")))
	assert.NotEqual(t, a, ComputeChecksum([]byte("different data")))
}

func TestValidateChecksum(t *testing.T) {
	sum := ComputeChecksum([]byte("x"))
	require.NoError(t, ValidateChecksum(sum, sum))

	other := sum
	other[0] ^= 0xff
	assert.True(t, errors.Is(ValidateChecksum(sum, other), ErrChecksumMismatch))
}
