package wire

// MaxTxInPerTx and MaxTxOutPerTx bound the input/output counts during
// decoding; both are generous relative to anything seen on mainnet but stop
// a corrupt CompactSize from requesting an absurd slice allocation.
const (
	MaxTxInPerTx  = 1_000_000
	MaxTxOutPerTx = 1_000_000
)

const witnessMarker = 0x00
const witnessFlag = 0x01

// MsgTx is a single transaction.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// IsCoinBase reports whether tx is a coinbase transaction: exactly one
// input, referencing the null OutPoint.
func (tx *MsgTx) IsCoinBase() bool {
	return len(tx.TxIn) == 1 && tx.TxIn[0].PreviousOutPoint.IsNull()
}

// HasWitness reports whether any input carries a non-empty witness stack.
func (tx *MsgTx) HasWitness() bool {
	for _, in := range tx.TxIn {
		if !in.Witness.IsEmpty() {
			return true
		}
	}
	return false
}

// Decode parses the wire encoding of a transaction from r. When
// allowWitness is true, an input count of zero followed by the 0x01 flag
// byte is read as the BIP 141 marker/flag prefix and the witness stacks are
// populated; an input count of zero followed by any other byte is a
// zero-input transaction whose next byte is its output count, and a plain
// non-witness encoding is accepted as well. When allowWitness is false, an
// input count of zero (the byte a witness marker occupies) is rejected with
// errNonWitnessMarker, so a witness-serialized encoding is never silently
// consumed as a zero-input transaction; a zero-input transaction cannot be
// decoded in this mode.
func (tx *MsgTx) Decode(r *Reader, allowWitness bool) {
	tx.Version = r.ReadI32LE()

	count := r.ReadVarInt()
	if r.Failed() {
		return
	}

	hasWitness := false
	if count == witnessMarker {
		if !allowWitness {
			r.fail(errNonWitnessMarker)
			return
		}
		if r.Remaining() > 0 && r.b[r.pos] == witnessFlag {
			r.ReadU8()
			hasWitness = true
			count = r.ReadVarInt()
			if r.Failed() {
				return
			}
		}
	}

	if count > MaxTxInPerTx {
		r.fail(errTooManyTxIn)
		return
	}
	tx.TxIn = make([]*TxIn, count)
	for i := range tx.TxIn {
		in := &TxIn{}
		in.decode(r)
		tx.TxIn[i] = in
	}

	outCount := r.ReadVarInt()
	if r.Failed() {
		return
	}
	if outCount > MaxTxOutPerTx {
		r.fail(errTooManyTxOut)
		return
	}
	tx.TxOut = make([]*TxOut, outCount)
	for i := range tx.TxOut {
		out := &TxOut{}
		out.decode(r)
		tx.TxOut[i] = out
	}

	if hasWitness {
		for _, in := range tx.TxIn {
			in.Witness.decode(r)
		}
	}

	tx.LockTime = r.ReadU32LE()
}

// hasAnyWitness reports whether encoding should use the BIP 141
// witness-serialization form: any input with a non-empty witness stack.
func (tx *MsgTx) hasAnyWitness() bool {
	return tx.HasWitness()
}

// Encode writes tx's wire encoding to w. When includeWitness is true and at
// least one input carries witness data, the BIP 141 marker/flag/witness
// form is used; otherwise the legacy encoding is produced.
func (tx *MsgTx) Encode(w *Writer, includeWitness bool) {
	w.WriteI32LE(tx.Version)

	useWitness := includeWitness && tx.hasAnyWitness()
	if useWitness {
		w.WriteU8(witnessMarker)
		w.WriteU8(witnessFlag)
	}

	w.WriteVarInt(uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		in.encode(w)
	}

	w.WriteVarInt(uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		out.encode(w)
	}

	if useWitness {
		for _, in := range tx.TxIn {
			in.Witness.encode(w)
		}
	}

	w.WriteU32LE(tx.LockTime)
}

// Bytes returns the serialized transaction. includeWitness selects between
// the witness and legacy (base) encodings.
func (tx *MsgTx) Bytes(includeWitness bool) []byte {
	w := NewWriter(tx.SerializedSize(includeWitness))
	tx.Encode(w, includeWitness)
	return w.Bytes()
}

// SerializedSize returns the byte length of tx's encoding without
// allocating it, for the requested witness mode.
func (tx *MsgTx) SerializedSize(includeWitness bool) int {
	useWitness := includeWitness && tx.hasAnyWitness()

	n := 4 // version
	if useWitness {
		n += 2 // marker + flag
	}
	n += VarIntSize(uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		n += in.serializedSize()
	}
	n += VarIntSize(uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		n += out.serializedSize()
	}
	if useWitness {
		for _, in := range tx.TxIn {
			n += in.Witness.serializedSize()
		}
	}
	n += 4 // locktime
	return n
}

// TxHash returns the txid: the double-SHA256 of the non-witness
// serialization. This value never depends on witness data.
func (tx *MsgTx) TxHash() Hash {
	return DoubleSHA256(tx.Bytes(false))
}

// WitnessHash returns the wtxid: the double-SHA256 of the witness
// serialization, per BIP 141. A coinbase transaction's wtxid is defined to
// be the all-zero hash regardless of its actual encoding.
func (tx *MsgTx) WitnessHash() Hash {
	if tx.IsCoinBase() {
		return Hash{}
	}
	return DoubleSHA256(tx.Bytes(true))
}

// StripWitness returns a copy of tx with every input's witness stack
// cleared. The returned transaction's TxHash is unchanged; its
// WitnessHash becomes equal to its TxHash (unless it is coinbase).
func (tx *MsgTx) StripWitness() *MsgTx {
	out := &MsgTx{
		Version:  tx.Version,
		LockTime: tx.LockTime,
		TxOut:    tx.TxOut,
	}
	out.TxIn = make([]*TxIn, len(tx.TxIn))
	for i, in := range tx.TxIn {
		out.TxIn[i] = &TxIn{
			PreviousOutPoint: in.PreviousOutPoint,
			SignatureScript:  in.SignatureScript,
			Sequence:         in.Sequence,
		}
	}
	return out
}

// Weight returns the BIP 141 block weight contribution of tx:
// 3*baseSize + totalSize, where baseSize excludes witness data and
// totalSize includes it.
func (tx *MsgTx) Weight() int64 {
	base := tx.SerializedSize(false)
	total := tx.SerializedSize(true)
	return int64(3*base + total)
}
