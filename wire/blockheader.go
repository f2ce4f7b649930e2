package wire

import (
	"time"

	"golang.org/x/crypto/scrypt"
)

// BlockHeaderSize is the fixed wire length of a block header.
const BlockHeaderSize = 80

// BlockHeader is the 80-byte fixed-layout block header.
type BlockHeader struct {
	Version    int32
	PrevBlock  Hash
	MerkleRoot Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// Decode parses the fixed 80-byte header encoding from r.
func (h *BlockHeader) Decode(r *Reader) {
	h.Version = r.ReadI32LE()
	h.PrevBlock = r.ReadHash()
	h.MerkleRoot = r.ReadHash()
	h.Timestamp = time.Unix(int64(r.ReadU32LE()), 0).UTC()
	h.Bits = r.ReadU32LE()
	h.Nonce = r.ReadU32LE()
}

// Encode writes the fixed 80-byte header encoding to w.
func (h *BlockHeader) Encode(w *Writer) {
	w.WriteI32LE(h.Version)
	w.WriteHash(h.PrevBlock)
	w.WriteHash(h.MerkleRoot)
	w.WriteU32LE(uint32(h.Timestamp.Unix()))
	w.WriteU32LE(h.Bits)
	w.WriteU32LE(h.Nonce)
}

// Bytes returns the 80-byte encoding of h.
func (h *BlockHeader) Bytes() []byte {
	w := NewWriter(BlockHeaderSize)
	h.Encode(w)
	return w.Bytes()
}

// Hash returns the double-SHA256 digest of the header, used as the block
// identifier and as the input to ordinary (SHA256d) proof-of-work checks.
func (h *BlockHeader) Hash() Hash {
	return DoubleSHA256(h.Bytes())
}

// PowHash is an alias of Hash retained for call sites that specifically
// mean "the hash proof-of-work is measured against" under the default
// (SHA256d) algorithm.
func (h *BlockHeader) PowHash() Hash {
	return h.Hash()
}

// scryptN, scryptR and scryptP are the Litecoin-compatible scrypt
// parameters used by ScryptPowHash, chosen for altchain interoperability
// rather than any property specific to this library.
const (
	scryptN = 1024
	scryptR = 1
	scryptP = 1
)

// ScryptPowHash computes the alternative scrypt-based proof-of-work digest
// of h, selected at Check time for chains that require it instead of the
// default SHA256d.
func (h *BlockHeader) ScryptPowHash() (Hash, error) {
	raw, err := scrypt.Key(h.Bytes(), h.Bytes(), scryptN, scryptR, scryptP, HashSize)
	if err != nil {
		return Hash{}, err
	}
	var out Hash
	copy(out[:], raw)
	return out, nil
}
