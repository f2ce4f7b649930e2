package blockchain

import (
	"github.com/coreledger/blockvalidate/chainutil"
)

// Fees returns the sum of every non-coinbase transaction's fee (the
// difference between its inputs' total value — resolved against the
// block's own earlier outputs first, then state's confirmed UTXO set — and
// its outputs' total value). It fails with ErrForwardReference if any spent
// output cannot be resolved at all — Connect is expected to have already
// established that every input resolves before Fees is called.
func Fees(b *chainutil.Block, state ChainState) (int64, error) {
	msg := b.MsgBlock()
	inBlock := inBlockOutputs(msg)
	var total int64
	for i, tx := range msg.Transactions {
		if i == 0 {
			continue // coinbase has no spendable inputs
		}
		var in, out int64
		for _, txin := range tx.TxIn {
			prev, ok := resolveOutput(txin.PreviousOutPoint, inBlock, state)
			if !ok {
				return 0, ruleErrorf(ErrForwardReference,
					"fees: unresolved input %s:%d", txin.PreviousOutPoint.Hash, txin.PreviousOutPoint.Index)
			}
			in += prev.Value
		}
		for _, txout := range tx.TxOut {
			out += txout.Value
		}
		total += in - out
	}
	return total, nil
}

// Claim returns the total value claimed by the coinbase transaction's
// outputs. It is zero for a block with no transactions.
func Claim(b *chainutil.Block) int64 {
	msg := b.MsgBlock()
	if len(msg.Transactions) == 0 {
		return 0
	}
	var total int64
	for _, out := range msg.Transactions[0].TxOut {
		total += out.Value
	}
	return total
}

// Reward returns the maximum value the coinbase transaction is permitted to
// claim at height: the block subsidy plus the sum of every other
// transaction's fee.
func Reward(b *chainutil.Block, height uint64, settings Settings, state ChainState) (int64, error) {
	fees, err := Fees(b, state)
	if err != nil {
		return 0, err
	}
	subsidy := Subsidy(height, settings.SubsidyInterval, settings.InitialBlockSubsidySatoshi)
	return int64(subsidy) + fees, nil
}
