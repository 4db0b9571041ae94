package fst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteStoreWriteAndRead(t *testing.T) {
	s := NewByteStore()
	s.WriteByte(0xAB)
	s.WriteBytes([]byte{1, 2, 3})
	s.WriteVInt(300)
	s.WriteVLong(1 << 40)
	s.WriteInt(-7)
	s.WriteShort(65000)
	s.Finish()

	r := s.GetForwardReader()
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), b)

	for _, want := range []byte{1, 2, 3} {
		b, err := r.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, want, b)
	}

	v, err := r.ReadVInt()
	require.NoError(t, err)
	assert.Equal(t, uint32(300), v)

	vl, err := r.ReadVLong()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), vl)

	i, err := r.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i)

	sh, err := r.ReadShort()
	require.NoError(t, err)
	assert.Equal(t, uint16(65000), sh)
}

func TestByteStoreReverseRecoversForwardOrder(t *testing.T) {
	s := NewByteStore()
	start := s.Position()
	s.WriteVInt(42)
	s.WriteVLong(123456789)
	s.WriteByte('x')
	end := s.Position() - 1
	s.Reverse(start, end)
	s.Finish()

	r := s.GetReverseReader(end)
	v, err := r.ReadVInt()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	vl, err := r.ReadVLong()
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), vl)

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b)
}

func TestByteStoreCopyBytesDescendingOverlap(t *testing.T) {
	s := NewByteStore()
	s.WriteBytes([]byte{1, 2, 3})
	s.SkipBytes(2)
	// copy [0,3) to [2,5) — dst > src and the ranges overlap at position 2,
	// so the copy must be overlap-safe.
	s.CopyBytes(0, 2, 3)
	s.Finish()
	assert.Equal(t, []byte{1, 2, 1, 2, 3}, s.Bytes())
}

func TestByteStoreSpansBlockBoundary(t *testing.T) {
	s, err := NewByteStoreBits(2) // 4-byte blocks, force many block allocations
	require.NoError(t, err)
	var want []byte
	for i := 0; i < 100; i++ {
		s.WriteByte(byte(i))
		want = append(want, byte(i))
	}
	s.Finish()
	assert.Equal(t, want, s.Bytes())
}

func TestNewByteStoreBitsRejectsOutOfRange(t *testing.T) {
	_, err := NewByteStoreBits(0)
	require.Error(t, err)
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, CapacityExceeded, kind)

	_, err = NewByteStoreBits(31)
	require.Error(t, err)
}
