package wire

// MaxTxPerBlock bounds the transaction count during decoding.
const MaxTxPerBlock = 1_000_000

// MsgBlock is the plain wire form of a block: a header plus its
// transactions, with no derived-quantity cache. Callers that need cached
// totals (size, weight, segregation) should wrap a MsgBlock in a
// chainutil.Block.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// Decode parses a block from r. allowWitness controls whether individual
// transactions are permitted to use BIP 141 witness serialization, exactly
// as for MsgTx.Decode.
func (b *MsgBlock) Decode(r *Reader, allowWitness bool) {
	b.Header.Decode(r)

	count := r.ReadVarInt()
	if r.Failed() {
		return
	}
	if count > MaxTxPerBlock {
		r.fail(errTooManyTx)
		return
	}

	b.Transactions = make([]*MsgTx, count)
	for i := range b.Transactions {
		tx := &MsgTx{}
		tx.Decode(r, allowWitness)
		if r.Failed() {
			return
		}
		b.Transactions[i] = tx
	}
}

// Encode writes b's wire encoding to w. includeWitness controls whether
// transactions are serialized with their witness stacks.
func (b *MsgBlock) Encode(w *Writer, includeWitness bool) {
	b.Header.Encode(w)
	w.WriteVarInt(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		tx.Encode(w, includeWitness)
	}
}

// Bytes returns the serialized block for the requested witness mode.
func (b *MsgBlock) Bytes(includeWitness bool) []byte {
	w := NewWriter(1 << 16)
	b.Encode(w, includeWitness)
	return w.Bytes()
}

// Decode errors are reported on the Reader; DecodeBlock is a convenience
// wrapper that turns a failed Reader into a plain error.
func DecodeBlock(buf []byte, allowWitness bool) (*MsgBlock, error) {
	r := NewReader(buf)
	b := &MsgBlock{}
	b.Decode(r, allowWitness)
	if r.Failed() {
		return nil, r.Err()
	}
	return b, nil
}

// DecodeTx is the MsgTx equivalent of DecodeBlock.
func DecodeTx(buf []byte, allowWitness bool) (*MsgTx, error) {
	r := NewReader(buf)
	tx := &MsgTx{}
	tx.Decode(r, allowWitness)
	if r.Failed() {
		return nil, r.Err()
	}
	return tx, nil
}
