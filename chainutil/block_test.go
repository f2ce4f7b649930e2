package chainutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreledger/blockvalidate/merkle"
	"github.com/coreledger/blockvalidate/wire"
)

func sampleMsgBlock() *wire.MsgBlock {
	coinbase := &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.NullOutPoint(),
			SignatureScript:  []byte{0x01, 0x00},
			Sequence:         0xffffffff,
		}},
		TxOut: []*wire.TxOut{{Value: 5_000_000_000, PkScript: []byte{0x6a}}},
	}
	spend := &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: wire.Hash{7}, Index: 0},
			SignatureScript:  []byte{0x51},
			Sequence:         0xffffffff,
		}},
		TxOut: []*wire.TxOut{{Value: 4_000_000_000, PkScript: []byte{0x6a}}},
	}

	txs := []*wire.MsgTx{coinbase, spend}
	root := merkle.Root([]wire.Hash{coinbase.TxHash(), spend.TxHash()})

	return &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    1,
			MerkleRoot: root,
			Bits:       0x207fffff,
		},
		Transactions: txs,
	}
}

func TestBlockCacheComputesOnce(t *testing.T) {
	b := NewBlock(sampleMsgBlock())

	h1 := b.Hash()
	h2 := b.Hash()
	require.Equal(t, h1, h2)

	w1 := b.Weight()
	w2 := b.Weight()
	require.Equal(t, w1, w2)
	require.Equal(t, 3*int64(b.BaseSize())+int64(b.TotalSize()), b.Weight())
}

func TestBlockInputCounts(t *testing.T) {
	b := NewBlock(sampleMsgBlock())
	require.Equal(t, 2, b.TotalInputs())
	require.Equal(t, 1, b.NonCoinbaseInputs())
}

func TestBlockIsSegregatedFalseWithoutWitness(t *testing.T) {
	b := NewBlock(sampleMsgBlock())
	require.False(t, b.IsSegregated())
}

func TestBlockConcurrentCacheAccessIsRaceFree(t *testing.T) {
	b := NewBlock(sampleMsgBlock())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Hash()
			_ = b.Weight()
			_ = b.TotalInputs()
			_ = b.IsSegregated()
		}()
	}
	wg.Wait()
}

func TestStripWitnessPreservesHash(t *testing.T) {
	b := NewBlock(sampleMsgBlock())
	stripped := b.StripWitness()
	require.Equal(t, b.Hash(), stripped.Hash())
}

func TestCloneHasIndependentCache(t *testing.T) {
	b := NewBlock(sampleMsgBlock())
	_ = b.Hash()
	clone := b.Clone()
	require.Equal(t, b.Hash(), clone.Hash())
}
