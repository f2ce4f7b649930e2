package wire

import (
	"encoding/binary"
	"fmt"
)

// Reader is a sticky-failure byte cursor. Once a read fails the cursor stops
// advancing and every subsequent read reports the same failure, so callers
// can chain a sequence of field reads and check Err (or Failed) exactly once
// at the end instead of threading an error return through every call.
type Reader struct {
	b   []byte
	pos int
	err error
}

// NewReader wraps b for sequential little-endian decoding starting at
// position 0.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Failed reports whether any prior read on this cursor has failed.
func (r *Reader) Failed() bool {
	return r.err != nil
}

// Err returns the first error encountered, or nil if every read so far has
// succeeded.
func (r *Reader) Err() error {
	return r.err
}

// Pos returns the current read offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes, or 0 once the cursor has
// failed or run past the end of the buffer.
func (r *Reader) Remaining() int {
	if r.err != nil || r.pos >= len(r.b) {
		return 0
	}
	return len(r.b) - r.pos
}

// Exhausted reports whether every byte has been consumed and no read has
// failed.
func (r *Reader) Exhausted() bool {
	return r.err == nil && r.pos == len(r.b)
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) readExact(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.Remaining() < n {
		r.fail(fmt.Errorf("wire: truncated read at offset %d (need %d, have %d)", r.pos, n, r.Remaining()))
		return nil
	}
	start := r.pos
	r.pos += n
	return r.b[start:r.pos]
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() uint8 {
	b := r.readExact(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadU16LE reads a little-endian uint16.
func (r *Reader) ReadU16LE() uint16 {
	b := r.readExact(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadU32LE reads a little-endian uint32.
func (r *Reader) ReadU32LE() uint32 {
	b := r.readExact(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadI32LE reads a little-endian int32.
func (r *Reader) ReadI32LE() int32 {
	return int32(r.ReadU32LE())
}

// ReadU64LE reads a little-endian uint64.
func (r *Reader) ReadU64LE() uint64 {
	b := r.readExact(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadI64LE reads a little-endian int64.
func (r *Reader) ReadI64LE() int64 {
	return int64(r.ReadU64LE())
}

// ReadBytes reads n raw bytes. The returned slice aliases the reader's
// backing array and must be copied by the caller if it outlives a mutation
// of the source buffer.
func (r *Reader) ReadBytes(n int) []byte {
	return r.readExact(n)
}

// ReadHash reads a fixed 32-byte hash.
func (r *Reader) ReadHash() Hash {
	var h Hash
	b := r.readExact(HashSize)
	if b != nil {
		copy(h[:], b)
	}
	return h
}

// ReadVarInt reads a CompactSize varint, rejecting non-minimal encodings.
func (r *Reader) ReadVarInt() uint64 {
	if r.err != nil {
		return 0
	}
	tag := r.ReadU8()
	if r.err != nil {
		return 0
	}
	switch {
	case tag < 0xfd:
		return uint64(tag)
	case tag == 0xfd:
		v := r.ReadU16LE()
		if r.err == nil && v < 0xfd {
			r.fail(fmt.Errorf("wire: non-minimal CompactSize (0xfd)"))
			return 0
		}
		return uint64(v)
	case tag == 0xfe:
		v := r.ReadU32LE()
		if r.err == nil && v <= 0xffff {
			r.fail(fmt.Errorf("wire: non-minimal CompactSize (0xfe)"))
			return 0
		}
		return uint64(v)
	default:
		v := r.ReadU64LE()
		if r.err == nil && v <= 0xffffffff {
			r.fail(fmt.Errorf("wire: non-minimal CompactSize (0xff)"))
			return 0
		}
		return v
	}
}

// ReadVarBytes reads a CompactSize-prefixed byte string, bounding the prefix
// against maxAllowed to avoid an attacker-controlled huge allocation before
// the truncation check can fire.
func (r *Reader) ReadVarBytes(maxAllowed uint64) []byte {
	n := r.ReadVarInt()
	if r.err != nil {
		return nil
	}
	if n > maxAllowed {
		r.fail(fmt.Errorf("wire: varbytes length %d exceeds limit %d", n, maxAllowed))
		return nil
	}
	out := r.readExact(int(n))
	if out == nil {
		return nil
	}
	cp := make([]byte, len(out))
	copy(cp, out)
	return cp
}
