package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleBlock() *MsgBlock {
	cb := sampleTx(false)
	cb.TxIn[0].PreviousOutPoint = NullOutPoint()
	spend := sampleTx(true)

	return &MsgBlock{
		Header: BlockHeader{
			Version: 1,
			Bits:    0x1d00ffff,
		},
		Transactions: []*MsgTx{cb, spend},
	}
}

func TestMsgBlockRoundTrip(t *testing.T) {
	b := sampleBlock()
	encoded := b.Bytes(true)

	got, err := DecodeBlock(encoded, true)
	require.NoError(t, err)
	require.Len(t, got.Transactions, 2)
	require.Equal(t, b.Transactions[0].TxHash(), got.Transactions[0].TxHash())
	require.Equal(t, b.Transactions[1].TxHash(), got.Transactions[1].TxHash())
	require.NotEmpty(t, got.Transactions[1].TxIn[0].Witness)
}

func TestMsgBlockLegacyEncodingOmitsWitness(t *testing.T) {
	b := sampleBlock()
	legacy := b.Bytes(false)

	got, err := DecodeBlock(legacy, true)
	require.NoError(t, err)
	require.Empty(t, got.Transactions[1].TxIn[0].Witness)
}

func TestDecodeBlockRejectsTruncatedInput(t *testing.T) {
	b := sampleBlock()
	encoded := b.Bytes(true)

	_, err := DecodeBlock(encoded[:len(encoded)-1], true)
	require.Error(t, err)
}
