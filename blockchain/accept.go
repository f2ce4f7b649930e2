package blockchain

import (
	"bytes"

	"github.com/coreledger/blockvalidate/chainutil"
	"github.com/coreledger/blockvalidate/wire"
)

// Accept performs every contextual validation rule on b: the ones that
// require knowledge of the chain b extends (height, active forks, median
// time past, proof-of-work target) but not a resolved UTXO set or script
// evaluation. checkHeader and checkTransactions let a caller that has
// already validated one half skip repeating it, while still requiring each
// contextual check to be invoked explicitly rather than folding everything
// into one undifferentiated call.
func Accept(b *chainutil.Block, state ChainState, settings Settings, checkTransactions, checkHeader bool) error {
	msg := b.MsgBlock()
	height := state.Height() + 1
	forks := state.EnabledForks()
	log.Debugf("accepting block %s at height %d", b.Hash(), height)

	if checkHeader {
		if msg.Header.Bits != state.WorkRequired() {
			return ruleError(ErrProofOfWork, "block does not satisfy the required work target")
		}
		if forks.Has(ForkBIP113) {
			if uint32(msg.Header.Timestamp.Unix()) <= state.MedianTimePast() {
				return ruleError(ErrNonFinal, "block timestamp not after median time past")
			}
		}
	}

	if checkTransactions {
		if forks.Has(ForkBIP34) {
			if err := checkCoinbaseHeight(msg.Transactions[0], height); err != nil {
				return err
			}
		}
		if err := checkLockTimeFinality(msg, height, state, forks); err != nil {
			return err
		}
	}

	return nil
}

// encodeScriptNum serializes n the way a script-number push encodes a
// positive integer: little-endian minimal bytes, with a zero pad byte
// appended when the most significant byte's top bit would otherwise be
// mistaken for a sign bit.
func encodeScriptNum(n uint64) []byte {
	if n == 0 {
		return nil
	}
	var out []byte
	for n > 0 {
		out = append(out, byte(n&0xff))
		n >>= 8
	}
	if out[len(out)-1]&0x80 != 0 {
		out = append(out, 0x00)
	}
	return out
}

// checkCoinbaseHeight verifies the BIP 34 rule: the coinbase's signature
// script begins with a minimal data push encoding the block's height.
func checkCoinbaseHeight(coinbase *wire.MsgTx, height uint64) error {
	encoded := encodeScriptNum(height)
	want := append([]byte{byte(len(encoded))}, encoded...)

	script := coinbase.TxIn[0].SignatureScript
	if !bytes.HasPrefix(script, want) {
		return ruleError(ErrCoinbaseStructure, "coinbase script does not begin with the block height")
	}
	return nil
}

// checkLockTimeFinality verifies every transaction's locktime has matured,
// the coinbase included. Height-based locktimes are compared against
// height; time-based locktimes against the median time past once BIP 113 is
// active and against the block's own timestamp otherwise.
func checkLockTimeFinality(msg *wire.MsgBlock, height uint64, state ChainState, forks ForkBitset) error {
	var cutoff uint32
	if forks.Has(ForkBIP113) {
		cutoff = state.MedianTimePast()
	} else {
		cutoff = uint32(msg.Header.Timestamp.Unix())
	}

	for i, tx := range msg.Transactions {
		if !isFinalTx(tx, height, cutoff) {
			return ruleErrorf(ErrNonFinal, "transaction %d is not final", i)
		}
	}
	return nil
}

// lockTimeThreshold is the boundary below which LockTime is interpreted as
// a block height and above which it is interpreted as a Unix timestamp.
const lockTimeThreshold = 500_000_000

func isFinalTx(tx *wire.MsgTx, height uint64, timeCutoff uint32) bool {
	if tx.LockTime == 0 {
		return true
	}

	var locked bool
	if tx.LockTime < lockTimeThreshold {
		locked = uint64(tx.LockTime) >= height
	} else {
		locked = tx.LockTime >= timeCutoff
	}
	if !locked {
		return true
	}

	// A locktime in the future is still final if every input opts out via
	// a maximal sequence number.
	for _, in := range tx.TxIn {
		if in.Sequence != 0xffffffff {
			return false
		}
	}
	return true
}
