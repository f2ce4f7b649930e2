package wire

// MaxScriptSize bounds a single signature/public-key script during
// decoding. It is far above any script actually relayed but prevents a
// corrupt length prefix from driving an unbounded allocation.
const MaxScriptSize = 10_000_000

// MaxWitnessItems bounds the number of items in a single input's witness
// stack for the same reason.
const MaxWitnessItems = 100_000

// TxWitness is the witness stack carried by a single input, introduced by
// BIP 141. Each element is an independent push.
type TxWitness [][]byte

// IsEmpty reports whether the witness stack carries no items.
func (w TxWitness) IsEmpty() bool {
	return len(w) == 0
}

func (w *TxWitness) decode(r *Reader) {
	n := r.ReadVarInt()
	if r.Failed() {
		return
	}
	if n > MaxWitnessItems {
		r.fail(errTooManyWitnessItems)
		return
	}
	items := make(TxWitness, n)
	for i := range items {
		items[i] = r.ReadVarBytes(MaxScriptSize)
	}
	*w = items
}

func (w TxWitness) encode(wr *Writer) {
	wr.WriteVarInt(uint64(len(w)))
	for _, item := range w {
		wr.WriteVarBytes(item)
	}
}

func (w TxWitness) serializedSize() int {
	n := VarIntSize(uint64(len(w)))
	for _, item := range w {
		n += VarIntSize(uint64(len(item))) + len(item)
	}
	return n
}

// TxIn is one input of a transaction.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
	Witness          TxWitness
}

func (in *TxIn) decode(r *Reader) {
	in.PreviousOutPoint.decode(r)
	in.SignatureScript = r.ReadVarBytes(MaxScriptSize)
	in.Sequence = r.ReadU32LE()
}

func (in TxIn) encode(w *Writer) {
	in.PreviousOutPoint.encode(w)
	w.WriteVarBytes(in.SignatureScript)
	w.WriteU32LE(in.Sequence)
}

func (in TxIn) serializedSize() int {
	return 32 + 4 + VarIntSize(uint64(len(in.SignatureScript))) + len(in.SignatureScript) + 4
}

// TxOut is one output of a transaction. Value is denominated in the
// smallest indivisible unit of account.
type TxOut struct {
	Value    int64
	PkScript []byte
}

func (out *TxOut) decode(r *Reader) {
	out.Value = r.ReadI64LE()
	out.PkScript = r.ReadVarBytes(MaxScriptSize)
}

func (out TxOut) encode(w *Writer) {
	w.WriteI64LE(out.Value)
	w.WriteVarBytes(out.PkScript)
}

func (out TxOut) serializedSize() int {
	return 8 + VarIntSize(uint64(len(out.PkScript))) + len(out.PkScript)
}
