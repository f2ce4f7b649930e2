package wire

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSize is the length in bytes of a double-SHA256 digest.
const HashSize = 32

// Hash is a 32-byte double-SHA256 digest, stored internally in the byte
// order SHA-256 produces it (which, read as a number, is little-endian) and
// displayed in the conventional byte-reversed hex form used throughout the
// Bitcoin family of protocols.
type Hash [HashSize]byte

// String returns the byte-reversed hex display form.
func (h Hash) String() string {
	var rev Hash
	for i := 0; i < HashSize; i++ {
		rev[i] = h[HashSize-1-i]
	}
	return hex.EncodeToString(rev[:])
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// DoubleSHA256 computes SHA256(SHA256(b)).
func DoubleSHA256(b []byte) Hash {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return Hash(second)
}
