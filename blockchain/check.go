package blockchain

import (
	"time"

	"github.com/coreledger/blockvalidate/chainutil"
	"github.com/coreledger/blockvalidate/merkle"
	"github.com/coreledger/blockvalidate/wire"
)

// MaxBlockWeight is the BIP 141 block weight ceiling.
const MaxBlockWeight = 4_000_000

// MaxBlockSigOpCost is the per-block ceiling on sigop cost, where a legacy
// sigop costs 4 and a witness sigop costs 1. Check counts legacy sigops
// only.
const MaxBlockSigOpCost = 80_000

// MinCoinbaseScriptLen and MaxCoinbaseScriptLen bound the coinbase
// transaction's signature script length.
const (
	MinCoinbaseScriptLen = 2
	MaxCoinbaseScriptLen = 100
)

// MaxFutureTimestamp bounds how far a header's timestamp may sit beyond the
// validator's own clock when Settings.TimestampLimitSeconds is zero,
// independent of any MedianTimePast check (which Accept performs once chain
// context is available).
const MaxFutureTimestamp = 2 * time.Hour

// CheckParams carries what Check needs: the chain Settings and the
// validator's current time (a zero Now skips the future-timestamp rule).
// Check never consults chain state.
type CheckParams struct {
	Settings Settings
	Now      time.Time
}

// Check performs every structural, context-free validation rule on b: the
// ones that depend only on the block's own bytes, never on chain state or
// script evaluation. It is always the first stage of the pipeline.
func Check(b *chainutil.Block, params CheckParams) error {
	msg := b.MsgBlock()
	log.Debugf("checking block %s (%d tx, weight %d)", b.Hash(), len(msg.Transactions), b.Weight())

	if b.Weight() > MaxBlockWeight {
		return ruleErrorf(ErrSize, "block weight %d exceeds limit %d", b.Weight(), MaxBlockWeight)
	}

	if len(msg.Transactions) == 0 {
		return ruleError(ErrCoinbaseStructure, "block has no transactions")
	}
	if !msg.Transactions[0].IsCoinBase() {
		return ruleError(ErrCoinbaseStructure, "first transaction is not coinbase")
	}
	for i, tx := range msg.Transactions[1:] {
		if tx.IsCoinBase() {
			return ruleErrorf(ErrCoinbaseStructure, "transaction %d is an extra coinbase", i+1)
		}
	}

	for i, tx := range msg.Transactions {
		if len(tx.TxIn) == 0 {
			return ruleErrorf(ErrTransactionStructure, "transaction %d has no inputs", i)
		}
		if len(tx.TxOut) == 0 {
			return ruleErrorf(ErrTransactionStructure, "transaction %d has no outputs", i)
		}
		if i == 0 {
			scriptLen := len(tx.TxIn[0].SignatureScript)
			if scriptLen < MinCoinbaseScriptLen || scriptLen > MaxCoinbaseScriptLen {
				return ruleErrorf(ErrCoinbaseStructure,
					"coinbase script length %d outside [%d, %d]", scriptLen, MinCoinbaseScriptLen, MaxCoinbaseScriptLen)
			}
		}
		var outTotal int64
		for _, out := range tx.TxOut {
			if out.Value < 0 || out.Value > params.Settings.MaxMoney {
				return ruleErrorf(ErrTransactionStructure, "transaction %d output value out of range", i)
			}
			outTotal += out.Value
			if outTotal > params.Settings.MaxMoney {
				return ruleErrorf(ErrTransactionStructure, "transaction %d output total exceeds max money", i)
			}
		}
	}

	if err := checkDistinctTransactionSet(msg); err != nil {
		return err
	}

	if err := checkNoForwardReferences(msg); err != nil {
		return err
	}

	if err := checkInternalDoubleSpend(msg); err != nil {
		return err
	}

	if err := checkMerkleRoot(b); err != nil {
		return err
	}

	if err := checkWitnessCommitment(b, params.Settings); err != nil {
		return err
	}

	if err := checkProofOfWork(&msg.Header, params.Settings); err != nil {
		return err
	}

	if !params.Now.IsZero() {
		limit := MaxFutureTimestamp
		if params.Settings.TimestampLimitSeconds != 0 {
			limit = time.Duration(params.Settings.TimestampLimitSeconds) * time.Second
		}
		if msg.Header.Timestamp.After(params.Now.Add(limit)) {
			return ruleError(ErrTimestamp, "block timestamp too far in the future")
		}
	}

	if err := checkSigOpCost(msg); err != nil {
		return err
	}

	return nil
}

// checkDistinctTransactionSet reports ErrDoubleSpendInternal if two
// transactions in the block share a txid — the CVE-2012-2459 guard against
// a duplicated transaction producing a colliding Merkle root.
func checkDistinctTransactionSet(msg *wire.MsgBlock) error {
	seen := make(map[wire.Hash]struct{}, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		hash := tx.TxHash()
		if _, dup := seen[hash]; dup {
			return ruleErrorf(ErrDoubleSpendInternal, "transaction %d duplicates an earlier transaction's txid %s", i, hash)
		}
		seen[hash] = struct{}{}
	}
	return nil
}

// checkNoForwardReferences reports ErrForwardReference if any transaction
// spends an output of a transaction that appears later in the same block
// (or of itself). It is block-local: it never consults chain state, since a
// reference to a transaction outside the block is resolved, not rejected,
// by Connect.
func checkNoForwardReferences(msg *wire.MsgBlock) error {
	indexOf := make(map[wire.Hash]int, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		indexOf[tx.TxHash()] = i
	}
	for i, tx := range msg.Transactions {
		if i == 0 {
			continue
		}
		for _, in := range tx.TxIn {
			if earlier, ok := indexOf[in.PreviousOutPoint.Hash]; ok && earlier >= i {
				return ruleErrorf(ErrForwardReference,
					"transaction %d references output of transaction %d, which does not precede it", i, earlier)
			}
		}
	}
	return nil
}

// checkSigOpCost enforces the context-free sigop ceiling: the legacy sigop
// count (no P2SH or witness context is available yet) scaled by 4 must not
// exceed MaxBlockSigOpCost.
func checkSigOpCost(msg *wire.MsgBlock) error {
	var legacySigOps int
	for _, tx := range msg.Transactions {
		legacySigOps += tx.SigOpCount(wire.SigOpFlags{}, nil)
	}
	cost := legacySigOps * 4
	if cost > MaxBlockSigOpCost {
		return ruleErrorf(ErrSize, "block sigop cost %d exceeds limit %d", cost, MaxBlockSigOpCost)
	}
	return nil
}

// checkInternalDoubleSpend reports ErrDoubleSpendInternal if any two inputs
// across the whole block (coinbase excluded, since its input is the null
// sentinel OutPoint shared by definition) reference the same previous
// output.
func checkInternalDoubleSpend(msg *wire.MsgBlock) error {
	seen := make(map[wire.OutPoint]struct{})
	for i, tx := range msg.Transactions {
		if i == 0 {
			continue
		}
		for _, in := range tx.TxIn {
			if _, dup := seen[in.PreviousOutPoint]; dup {
				return ruleErrorf(ErrDoubleSpendInternal,
					"outpoint %s:%d spent more than once in block",
					in.PreviousOutPoint.Hash, in.PreviousOutPoint.Index)
			}
			seen[in.PreviousOutPoint] = struct{}{}
		}
	}
	return nil
}

// checkMerkleRoot recomputes the non-witness merkle root over b's
// transactions and compares it against the header's declared root.
func checkMerkleRoot(b *chainutil.Block) error {
	got := merkle.Root(b.ToHashes(false))
	want := b.MsgBlock().Header.MerkleRoot
	if got != want {
		return ruleErrorf(ErrMerkle, "merkle root mismatch: header has %s, computed %s", want, got)
	}
	return nil
}

// checkWitnessCommitment enforces BIP 141: if any transaction carries
// witness data, the coinbase must publish a matching witness commitment;
// if none does, no commitment output is required (but one may still be
// present with a degenerate all-txid witness root).
func checkWitnessCommitment(b *chainutil.Block, settings Settings) error {
	msg := b.MsgBlock()
	coinbase := msg.Transactions[0]

	commitment, found := merkle.FindCommitment(coinbase.TxOut)
	if !found {
		if b.IsSegregated() {
			return ruleError(ErrWitnessCommitment, "block has witness data but no witness commitment")
		}
		return nil
	}

	if len(coinbase.TxIn[0].Witness) != 1 || len(coinbase.TxIn[0].Witness[0]) != wire.HashSize {
		return ruleError(ErrWitnessCommitment, "coinbase witness reserved value malformed")
	}
	var reserved [wire.HashSize]byte
	copy(reserved[:], coinbase.TxIn[0].Witness[0])

	witnessRoot := merkle.Root(b.ToHashes(true))
	want := merkle.WitnessCommitment(witnessRoot, reserved)
	if want != wire.Hash(commitment) {
		return ruleError(ErrWitnessCommitment, "witness commitment does not match computed value")
	}
	return nil
}
