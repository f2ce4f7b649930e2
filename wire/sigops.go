package wire

// Script opcodes relevant to sigop counting. Only the handful the counter
// needs to recognize are named; everything else is treated as an opaque
// push or no-op.
const (
	opZero                 = 0x00
	opPushData1            = 0x4c
	opPushData2            = 0x4d
	opPushData4            = 0x4e
	op1Negate               = 0x4f
	op1                     = 0x51
	op16                    = 0x60
	opCheckSig              = 0xac
	opCheckSigVerify        = 0xad
	opCheckMultiSig         = 0xae
	opCheckMultiSigVerify   = 0xaf
	opHash160               = 0xa9
	opEqual                 = 0x87

	// MaxPubKeysPerMultiSig is the policy ceiling used when a bare
	// CHECKMULTISIG's operand count cannot be determined from the
	// immediately preceding opcode.
	MaxPubKeysPerMultiSig = 20
)

// SigOpFlags selects which consensus-activated sigop-counting rules apply.
type SigOpFlags struct {
	// BIP16 enables counting sigops inside a P2SH redeem script (the last
	// data push of the spending input's SignatureScript) in addition to
	// the legacy scan.
	BIP16 bool
	// BIP141 is carried for callers but not consulted by SigOpCount:
	// witness stacks contribute no sigops whether it is set or not.
	BIP141 bool
}

// countOpcodeSigOps scans script counting legacy sigops. When accurate is
// true, a CHECKMULTISIG immediately preceded by a small-integer push
// (OP_1..OP_16) counts that many sigops; otherwise (or when the preceding
// opcode isn't a small-integer push) it counts MaxPubKeysPerMultiSig.
func countOpcodeSigOps(script []byte, accurate bool) int {
	count := 0
	lastOp := -1
	i := 0
	for i < len(script) {
		op := int(script[i])
		switch {
		case op == opCheckSig || op == opCheckSigVerify:
			count++
			i++
		case op == opCheckMultiSig || op == opCheckMultiSigVerify:
			if accurate && lastOp >= op1 && lastOp <= op16 {
				count += lastOp - op1 + 1
			} else {
				count += MaxPubKeysPerMultiSig
			}
			i++
		case op >= 0x01 && op <= 0x4b:
			i += 1 + op
		case op == opPushData1:
			if i+1 >= len(script) {
				i = len(script)
				break
			}
			n := int(script[i+1])
			i += 2 + n
		case op == opPushData2:
			if i+2 >= len(script) {
				i = len(script)
				break
			}
			n := int(script[i+1]) | int(script[i+2])<<8
			i += 3 + n
		case op == opPushData4:
			if i+4 >= len(script) {
				i = len(script)
				break
			}
			n := int(script[i+1]) | int(script[i+2])<<8 | int(script[i+3])<<16 | int(script[i+4])<<24
			i += 5 + n
		default:
			i++
		}
		lastOp = op
	}
	return count
}

// isP2SH reports whether pkScript is a pay-to-script-hash output:
// OP_HASH160 <20-byte hash> OP_EQUAL.
func isP2SH(pkScript []byte) bool {
	return len(pkScript) == 23 &&
		pkScript[0] == opHash160 &&
		pkScript[1] == 0x14 &&
		pkScript[22] == opEqual
}

// lastPush returns the final data push of script, used to recover a P2SH
// redeem script from the spending input's SignatureScript.
func lastPush(script []byte) []byte {
	var last []byte
	i := 0
	for i < len(script) {
		op := int(script[i])
		switch {
		case op >= 0x01 && op <= 0x4b:
			end := i + 1 + op
			if end > len(script) {
				return last
			}
			last = script[i+1 : end]
			i = end
		case op == opPushData1:
			if i+1 >= len(script) {
				return last
			}
			n := int(script[i+1])
			end := i + 2 + n
			if end > len(script) {
				return last
			}
			last = script[i+2 : end]
			i = end
		case op == opPushData2:
			if i+2 >= len(script) {
				return last
			}
			n := int(script[i+1]) | int(script[i+2])<<8
			end := i + 3 + n
			if end > len(script) {
				return last
			}
			last = script[i+3 : end]
			i = end
		case op == opPushData4:
			if i+4 >= len(script) {
				return last
			}
			n := int(script[i+1]) | int(script[i+2])<<8 | int(script[i+3])<<16 | int(script[i+4])<<24
			end := i + 5 + n
			if end > len(script) {
				return last
			}
			last = script[i+4+1 : end]
			i = end
		default:
			i++
		}
	}
	return last
}

// txInSigOps returns the number of signature operations input in
// contributes under flags: the legacy count of its SignatureScript plus,
// when BIP16 applies, the accurate count of its P2SH redeem script. The
// spent output's own PkScript is not counted. prevOut is the output being
// spent; it is required to evaluate BIP16 P2SH redeem
// scripts and may be nil to fall back to a legacy-only count (matching the
// context-free case of an input with no known previous output, e.g. during
// structural Check before UTXO lookup is available).
func txInSigOps(in *TxIn, prevOut *TxOut, flags SigOpFlags) int {
	count := countOpcodeSigOps(in.SignatureScript, false)
	if flags.BIP16 && prevOut != nil && isP2SH(prevOut.PkScript) {
		redeem := lastPush(in.SignatureScript)
		count += countOpcodeSigOps(redeem, true)
	}
	return count
}

// SigOpCount returns the total legacy (and, when BIP16 is set, P2SH) sigop
// count across every input and output of tx. prevOuts supplies the
// previous output for each input's OutPoint; a nil map or a missing entry
// falls back to legacy-only counting for that input.
func (tx *MsgTx) SigOpCount(flags SigOpFlags, prevOuts map[OutPoint]*TxOut) int {
	total := 0
	for _, in := range tx.TxIn {
		var prev *TxOut
		if prevOuts != nil {
			prev = prevOuts[in.PreviousOutPoint]
		}
		total += txInSigOps(in, prev, flags)
	}
	for _, out := range tx.TxOut {
		total += countOpcodeSigOps(out.PkScript, false)
	}
	return total
}
