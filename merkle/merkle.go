// Package merkle computes Bitcoin-style merkle roots over transaction
// hashes, including the BIP 141 witness-root and witness-commitment
// extraction used to bind witness data into a legacy-only block header.
package merkle

import (
	"bytes"

	"github.com/coreledger/blockvalidate/wire"
)

// branch returns the double-SHA256 of the concatenation of left and right,
// the single building block of every interior merkle node.
func branch(left, right wire.Hash) wire.Hash {
	var buf [wire.HashSize * 2]byte
	copy(buf[:wire.HashSize], left[:])
	copy(buf[wire.HashSize:], right[:])
	return wire.DoubleSHA256(buf[:])
}

// Root computes the merkle root over leaves using the classic Bitcoin
// construction: pairs are hashed left-right, and when a level has an odd
// number of nodes the final node is duplicated to pair with itself. An
// empty leaf set has the all-zero root; a single leaf is its own root.
func Root(leaves []wire.Hash) wire.Hash {
	if len(leaves) == 0 {
		return wire.Hash{}
	}
	level := make([]wire.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]wire.Hash, len(level)/2)
		for i := range next {
			next[i] = branch(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

// TxHashes returns the txid of every transaction in order, for use as
// Root's leaves when computing the legacy (non-witness) merkle root.
func TxHashes(txs []*wire.MsgTx) []wire.Hash {
	out := make([]wire.Hash, len(txs))
	for i, tx := range txs {
		out[i] = tx.TxHash()
	}
	return out
}

// WitnessTxHashes returns the wtxid of every transaction in order, with the
// coinbase's wtxid forced to the all-zero hash per BIP 141, for use as
// Root's leaves when computing the witness merkle root.
func WitnessTxHashes(txs []*wire.MsgTx) []wire.Hash {
	out := make([]wire.Hash, len(txs))
	for i, tx := range txs {
		if i == 0 {
			out[i] = wire.Hash{}
			continue
		}
		out[i] = tx.WitnessHash()
	}
	return out
}

// witnessMagic is the OP_RETURN prefix (OP_RETURN, 0x24-byte push,
// 0xaa21a9ed) that marks a coinbase output as carrying the witness
// commitment, per BIP 141.
var witnessMagic = []byte{0x6a, 0x24, 0xaa, 0x21, 0xa9, 0xed}

var commitmentPkScriptLen = len(witnessMagic) + wire.HashSize

// WitnessCommitment computes SHA256(SHA256(witnessRoot || reservedValue)),
// the value published inside the coinbase's witness-commitment output.
func WitnessCommitment(witnessRoot wire.Hash, reservedValue [wire.HashSize]byte) wire.Hash {
	var preimage [wire.HashSize * 2]byte
	copy(preimage[:wire.HashSize], witnessRoot[:])
	copy(preimage[wire.HashSize:], reservedValue[:])
	return wire.DoubleSHA256(preimage[:])
}

// FindCommitment scans a coinbase transaction's outputs in reverse order
// (the last match wins, per BIP 141) for an output whose PkScript carries
// the witness-magic prefix, and returns the embedded 32-byte commitment.
func FindCommitment(coinbaseOuts []*wire.TxOut) (commitment [wire.HashSize]byte, found bool) {
	for i := len(coinbaseOuts) - 1; i >= 0; i-- {
		script := coinbaseOuts[i].PkScript
		if len(script) >= commitmentPkScriptLen && bytes.HasPrefix(script, witnessMagic) {
			copy(commitment[:], script[len(witnessMagic):commitmentPkScriptLen])
			return commitment, true
		}
	}
	return commitment, false
}
