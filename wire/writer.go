package wire

import "encoding/binary"

// Writer accumulates a little-endian wire encoding. The zero value is ready
// to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with a pre-sized backing array.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16LE appends v little-endian.
func (w *Writer) WriteU16LE(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU32LE appends v little-endian.
func (w *Writer) WriteU32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteI32LE appends v little-endian.
func (w *Writer) WriteI32LE(v int32) {
	w.WriteU32LE(uint32(v))
}

// WriteU64LE appends v little-endian.
func (w *Writer) WriteU64LE(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteI64LE appends v little-endian.
func (w *Writer) WriteI64LE(v int64) {
	w.WriteU64LE(uint64(v))
}

// WriteBytes appends raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteHash appends a fixed 32-byte hash.
func (w *Writer) WriteHash(h Hash) {
	w.buf = append(w.buf, h[:]...)
}

// WriteVarInt appends n as a CompactSize varint, always choosing the
// shortest valid encoding.
func (w *Writer) WriteVarInt(n uint64) {
	switch {
	case n < 0xfd:
		w.WriteU8(uint8(n))
	case n <= 0xffff:
		w.WriteU8(0xfd)
		w.WriteU16LE(uint16(n))
	case n <= 0xffffffff:
		w.WriteU8(0xfe)
		w.WriteU32LE(uint32(n))
	default:
		w.WriteU8(0xff)
		w.WriteU64LE(n)
	}
}

// WriteVarBytes appends a CompactSize length prefix followed by b.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteVarInt(uint64(len(b)))
	w.WriteBytes(b)
}

// VarIntSize returns the number of bytes WriteVarInt would emit for n,
// without allocating.
func VarIntSize(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
