package wire

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBlockHeaderRoundTrip(t *testing.T) {
	h := BlockHeader{
		Version:    1,
		PrevBlock:  Hash{0xaa},
		MerkleRoot: Hash{0xbb},
		Timestamp:  time.Unix(1231006505, 0).UTC(),
		Bits:       0x1d00ffff,
		Nonce:      2083236893,
	}
	buf := h.Bytes()
	require.Len(t, buf, BlockHeaderSize)

	var got BlockHeader
	r := NewReader(buf)
	got.Decode(r)
	require.False(t, r.Failed())
	require.Equal(t, h.Version, got.Version)
	require.Equal(t, h.PrevBlock, got.PrevBlock)
	require.Equal(t, h.MerkleRoot, got.MerkleRoot)
	require.Equal(t, h.Timestamp.Unix(), got.Timestamp.Unix())
	require.Equal(t, h.Bits, got.Bits)
	require.Equal(t, h.Nonce, got.Nonce)
}

func TestGenesisBlockHeaderHash(t *testing.T) {
	// The Bitcoin genesis block header, a fixed, widely published vector.
	h := BlockHeader{
		Version:    1,
		PrevBlock:  Hash{},
		MerkleRoot: mustHashFromBigEndianHex(t, "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"),
		Timestamp:  time.Unix(1231006505, 0).UTC(),
		Bits:       0x1d00ffff,
		Nonce:      2083236893,
	}
	got := h.Hash()
	require.Equal(t, "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f", got.String())
}

// mustHashFromBigEndianHex decodes a conventional reversed-display hex
// string (as printed by Hash.String) back into internal byte order.
func mustHashFromBigEndianHex(t *testing.T, hexStr string) Hash {
	t.Helper()
	raw, err := hex.DecodeString(hexStr)
	require.NoError(t, err)
	require.Len(t, raw, HashSize)
	var h Hash
	for i := 0; i < HashSize; i++ {
		h[i] = raw[HashSize-1-i]
	}
	return h
}
