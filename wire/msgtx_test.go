package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTx(witness bool) *MsgTx {
	tx := &MsgTx{
		Version: 1,
		TxIn: []*TxIn{{
			PreviousOutPoint: OutPoint{Hash: Hash{1}, Index: 0},
			SignatureScript:  []byte{0x51},
			Sequence:         0xffffffff,
		}},
		TxOut: []*TxOut{{
			Value:    50_000,
			PkScript: []byte{0x6a},
		}},
		LockTime: 0,
	}
	if witness {
		tx.TxIn[0].Witness = TxWitness{{0xde, 0xad}}
	}
	return tx
}

func TestMsgTxRoundTripNonWitness(t *testing.T) {
	tx := sampleTx(false)
	encoded := tx.Bytes(true) // no witness present, so witness encoding == legacy encoding

	got, err := DecodeTx(encoded, true)
	require.NoError(t, err)
	require.Equal(t, tx.TxHash(), got.TxHash())
	require.Equal(t, tx.TxHash(), tx.WitnessHash()) // no witness data: wtxid == txid
}

func TestMsgTxRoundTripWitness(t *testing.T) {
	tx := sampleTx(true)
	encoded := tx.Bytes(true)

	got, err := DecodeTx(encoded, true)
	require.NoError(t, err)
	require.Equal(t, tx.TxHash(), got.TxHash())
	require.NotEqual(t, tx.TxHash(), tx.WitnessHash())

	legacy := tx.Bytes(false)
	require.NotEqual(t, encoded, legacy)

	legacyOnly, err := DecodeTx(legacy, true)
	require.NoError(t, err)
	require.Empty(t, legacyOnly.TxIn[0].Witness)
}

func TestMsgTxDecodeNonWitnessRejectsWitnessMarker(t *testing.T) {
	tx := sampleTx(true)
	encoded := tx.Bytes(true)

	_, err := DecodeTx(encoded, false)
	require.Error(t, err)
}

func TestStripWitnessPreservesTxHash(t *testing.T) {
	tx := sampleTx(true)
	stripped := tx.StripWitness()

	require.Equal(t, tx.TxHash(), stripped.TxHash())
	require.Equal(t, stripped.TxHash(), stripped.WitnessHash())
}

func TestEmptyInputTransactionIsAmbiguousUnderWitnessTolerantDecode(t *testing.T) {
	// A transaction with zero inputs serializes its input count as the
	// single byte 0x00 — indistinguishable from a BIP 141 witness marker.
	// Since it carries no witness data, Bytes(true) does not add a real
	// marker/flag pair, so a witness-tolerant decode of the result
	// misreads the next byte (an output count of 1) as the witness flag
	// instead of the output count, and the rest of the encoding then fails
	// to parse. This is an inherent wire-format ambiguity (also documented
	// by BIP 141 itself), not a bug in this decoder: producers are
	// expected to never need to serialize a zero-input transaction on
	// its own, and Check independently rejects such a transaction
	// structurally regardless of how it decoded.
	tx := &MsgTx{
		Version:  1,
		TxIn:     nil,
		TxOut:    []*TxOut{{Value: 1, PkScript: []byte{0x6a}}},
		LockTime: 0,
	}
	encoded := tx.Bytes(true)
	require.Equal(t, byte(0x00), encoded[4])

	_, err := DecodeTx(encoded, true)
	require.Error(t, err)
}

func TestWeightFormula(t *testing.T) {
	tx := sampleTx(true)
	base := tx.SerializedSize(false)
	total := tx.SerializedSize(true)
	require.Equal(t, int64(3*base+total), tx.Weight())
}

func TestCoinBaseDetection(t *testing.T) {
	cb := &MsgTx{
		Version: 1,
		TxIn: []*TxIn{{
			PreviousOutPoint: NullOutPoint(),
			SignatureScript:  []byte{0x03, 0x01, 0x02, 0x03},
			Sequence:         0xffffffff,
		}},
		TxOut: []*TxOut{{Value: 5_000_000_000, PkScript: []byte{0x6a}}},
	}
	require.True(t, cb.IsCoinBase())
	require.Equal(t, Hash{}, cb.WitnessHash())

	notCb := sampleTx(false)
	require.False(t, notCb.IsCoinBase())
}
