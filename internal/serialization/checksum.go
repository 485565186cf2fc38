package serialization

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// ComputeChecksum returns the SHA-256 digest of the uncompressed tensor data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum reports ErrChecksumMismatch, with both digests, when the
// data read back does not hash to the stored value.
func ValidateChecksum(computed, stored [ChecksumSize]byte) error {
	if subtle.ConstantTimeCompare(computed[:], stored[:]) == 1 {
		return nil
	}
	return fmt.Errorf("%w: stored %s, computed %s", ErrChecksumMismatch,
		hex.EncodeToString(stored[:8]), hex.EncodeToString(computed[:8]))
}
