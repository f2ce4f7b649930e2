package blockchain

import (
	"github.com/coreledger/blockvalidate/chainutil"
	"github.com/coreledger/blockvalidate/wire"
)

// inBlockOutputs maps every output produced by a transaction in msg to its
// OutPoint, so a same-block spend (Check has already verified it only ever
// references an earlier transaction) resolves without consulting chain
// state at all.
func inBlockOutputs(msg *wire.MsgBlock) map[wire.OutPoint]*wire.TxOut {
	outputs := make(map[wire.OutPoint]*wire.TxOut)
	for _, tx := range msg.Transactions {
		hash := tx.TxHash()
		for idx, out := range tx.TxOut {
			outputs[wire.OutPoint{Hash: hash, Index: uint32(idx)}] = out
		}
	}
	return outputs
}

// resolveOutput looks up op first among the block's own outputs, then
// falls back to state's confirmed UTXO set.
func resolveOutput(op wire.OutPoint, inBlock map[wire.OutPoint]*wire.TxOut, state ChainState) (*wire.TxOut, bool) {
	if out, ok := inBlock[op]; ok {
		return out, true
	}
	return state.OutputOf(op)
}

// Connect performs the final validation stage: resolving every
// non-coinbase input against the block's own earlier outputs or state's
// confirmed UTXO set, verifying the spending script of each, and checking
// that the coinbase does not claim more than the block's earned reward.
// Check and Accept must both have already succeeded for b against the same
// state before Connect is called; Connect does not repeat their structural
// or contextual checks.
func Connect(b *chainutil.Block, height uint64, settings Settings, state ChainState, verifier ScriptVerifier) error {
	msg := b.MsgBlock()
	log.Debugf("connecting block %s at height %d", b.Hash(), height)
	forks := state.EnabledForks()
	flags := ScriptFlags{
		BIP16:  forks.Has(ForkBIP16),
		BIP141: forks.Has(ForkBIP141),
	}

	inBlock := inBlockOutputs(msg)

	for i, tx := range msg.Transactions {
		if i == 0 {
			continue
		}
		for inIdx, in := range tx.TxIn {
			prevOut, ok := resolveOutput(in.PreviousOutPoint, inBlock, state)
			if !ok {
				return ruleErrorf(ErrForwardReference,
					"transaction %d input %d spends unknown or already-spent output %s:%d",
					i, inIdx, in.PreviousOutPoint.Hash, in.PreviousOutPoint.Index)
			}
			if verifier != nil {
				if err := verifier.VerifyInput(tx, inIdx, prevOut, flags); err != nil {
					return ruleErrorf(ErrScript, "transaction %d input %d: %v", i, inIdx, err)
				}
			}
		}
	}

	reward, err := Reward(b, height, settings, state)
	if err != nil {
		return err
	}
	if Claim(b) > reward {
		return ruleErrorf(ErrCoinbaseClaim, "coinbase claims %d, exceeds reward %d", Claim(b), reward)
	}

	return nil
}
