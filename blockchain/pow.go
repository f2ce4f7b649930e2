package blockchain

import (
	"math/big"

	"github.com/coreledger/blockvalidate/wire"
)

// CompactToBig expands a compact ("nBits") target representation into its
// full big.Int form, following the same three-byte-mantissa/one-byte-
// exponent layout used throughout the Bitcoin family of protocols.
func CompactToBig(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	exponent := uint(bits >> 24)

	var result big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		result.SetUint64(uint64(mantissa))
	} else {
		result.SetUint64(uint64(mantissa))
		result.Lsh(&result, 8*(exponent-3))
	}

	if bits&0x00800000 != 0 {
		result.Neg(&result)
	}
	return &result
}

// checkProofOfWork verifies that header's proof-of-work hash, interpreted as
// a little-endian integer, is strictly less than the target encoded by bits,
// and that the target itself does not exceed settings' proof-of-work limit.
func checkProofOfWork(header *wire.BlockHeader, settings Settings) error {
	target := CompactToBig(header.Bits)
	if target.Sign() <= 0 {
		return ruleError(ErrProofOfWork, "target is non-positive")
	}

	limit := CompactToBig(settings.ProofOfWorkLimit)
	if target.Cmp(limit) > 0 {
		return ruleError(ErrProofOfWork, "target exceeds proof-of-work limit")
	}

	var powHash wire.Hash
	if settings.UseScrypt {
		h, err := header.ScryptPowHash()
		if err != nil {
			return ruleErrorf(ErrProofOfWork, "scrypt pow hash: %v", err)
		}
		powHash = h
	} else {
		powHash = header.PowHash()
	}

	hashNum := hashToBig(powHash)
	if hashNum.Cmp(target) >= 0 {
		return ruleError(ErrProofOfWork, "hash does not satisfy target")
	}
	return nil
}

// hashToBig interprets h as a little-endian integer: it reverses h's
// internal byte order and reads the result as a big-endian number, the same
// magnitude convention CompactToBig's result uses.
func hashToBig(h wire.Hash) *big.Int {
	var reversed wire.Hash
	for i := 0; i < wire.HashSize; i++ {
		reversed[i] = h[wire.HashSize-1-i]
	}
	return new(big.Int).SetBytes(reversed[:])
}
