package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestReaderPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.WriteU8(0xab)
	w.WriteU16LE(0x1234)
	w.WriteU32LE(0xdeadbeef)
	w.WriteU64LE(0x0102030405060708)
	h := Hash{1, 2, 3}
	w.WriteHash(h)

	r := NewReader(w.Bytes())
	require.Equal(t, uint8(0xab), r.ReadU8())
	require.Equal(t, uint16(0x1234), r.ReadU16LE())
	require.Equal(t, uint32(0xdeadbeef), r.ReadU32LE())
	require.Equal(t, uint64(0x0102030405060708), r.ReadU64LE())
	require.Equal(t, h, r.ReadHash())
	require.False(t, r.Failed())
	require.True(t, r.Exhausted())
}

func TestReaderStickyFailure(t *testing.T) {
	r := NewReader([]byte{0x01})
	_ = r.ReadU32LE()
	require.True(t, r.Failed())

	// Every subsequent read reports the same failure without panicking
	// or advancing further.
	_ = r.ReadU8()
	_ = r.ReadHash()
	require.True(t, r.Failed())
	require.Equal(t, 0, r.Remaining())
}

func TestVarIntMinimalEncoding(t *testing.T) {
	cases := []struct {
		n        uint64
		wantSize int
	}{
		{0, 1}, {0xfc, 1}, {0xfd, 3}, {0xffff, 3},
		{0x10000, 5}, {0xffffffff, 5}, {0x100000000, 9},
	}
	for _, c := range cases {
		w := NewWriter(0)
		w.WriteVarInt(c.n)
		require.Equal(t, c.wantSize, w.Len(), "n=%d", c.n)

		r := NewReader(w.Bytes())
		got := r.ReadVarInt()
		require.False(t, r.Failed())
		require.Equal(t, c.n, got)
	}
}

func TestVarIntRejectsNonMinimalEncoding(t *testing.T) {
	// 0xfd followed by a value that fits in a single byte is non-minimal.
	r := NewReader([]byte{0xfd, 0x01, 0x00})
	_ = r.ReadVarInt()
	require.True(t, r.Failed())
}

func TestVarIntRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint64().Draw(t, "n")
		w := NewWriter(0)
		w.WriteVarInt(n)
		require.Equal(t, VarIntSize(n), w.Len())

		r := NewReader(w.Bytes())
		got := r.ReadVarInt()
		require.False(t, r.Failed())
		require.Equal(t, n, got)
		require.True(t, r.Exhausted())
	})
}
