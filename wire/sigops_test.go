package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountOpcodeSigOpsBareChecksig(t *testing.T) {
	script := []byte{opCheckSig}
	require.Equal(t, 1, countOpcodeSigOps(script, false))
}

func TestCountOpcodeSigOpsAccurateMultisig(t *testing.T) {
	// OP_2 OP_CHECKMULTISIG -> accurate count 2
	script := []byte{op1 + 1, byte(opCheckMultiSig)}
	require.Equal(t, 2, countOpcodeSigOps(script, true))
}

func TestCountOpcodeSigOpsInaccurateMultisigUsesPolicyMax(t *testing.T) {
	script := []byte{opCheckMultiSig}
	require.Equal(t, MaxPubKeysPerMultiSig, countOpcodeSigOps(script, false))
}

func TestIsP2SHDetection(t *testing.T) {
	script := make([]byte, 23)
	script[0] = opHash160
	script[1] = 0x14
	script[22] = opEqual
	require.True(t, isP2SH(script))
	require.False(t, isP2SH(script[:22]))
}

func TestSigOpCountWithP2SHRedeem(t *testing.T) {
	redeem := []byte{op1 + 1, opCheckMultiSig}
	sigScript := append([]byte{byte(len(redeem))}, redeem...)

	prevScript := make([]byte, 23)
	prevScript[0] = opHash160
	prevScript[1] = 0x14
	prevScript[22] = opEqual

	tx := &MsgTx{
		TxIn: []*TxIn{{
			PreviousOutPoint: OutPoint{Index: 0},
			SignatureScript:  sigScript,
		}},
		TxOut: []*TxOut{{PkScript: []byte{}}},
	}
	prevOuts := map[OutPoint]*TxOut{
		tx.TxIn[0].PreviousOutPoint: {PkScript: prevScript},
	}

	legacyOnly := tx.SigOpCount(SigOpFlags{BIP16: false}, prevOuts)
	withP2SH := tx.SigOpCount(SigOpFlags{BIP16: true}, prevOuts)
	require.Equal(t, 0, legacyOnly)
	require.Equal(t, 2, withP2SH)
}
