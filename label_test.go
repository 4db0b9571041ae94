package fst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadLabelByte1(t *testing.T) {
	s := NewByteStore()
	require.NoError(t, writeLabel(s, InputByte1, 250))
	s.Finish()
	r := s.GetForwardReader()
	got, err := readLabel(r, InputByte1)
	require.NoError(t, err)
	assert.Equal(t, 250, got)

	assert.Error(t, writeLabel(NewByteStore(), InputByte1, 256))
}

func TestWriteReadLabelByte2(t *testing.T) {
	s := NewByteStore()
	require.NoError(t, writeLabel(s, InputByte2, 60000))
	s.Finish()
	r := s.GetForwardReader()
	got, err := readLabel(r, InputByte2)
	require.NoError(t, err)
	assert.Equal(t, 60000, got)
}

func TestWriteReadLabelByte4(t *testing.T) {
	s := NewByteStore()
	require.NoError(t, writeLabel(s, InputByte4, 1<<20))
	s.Finish()
	r := s.GetForwardReader()
	got, err := readLabel(r, InputByte4)
	require.NoError(t, err)
	assert.Equal(t, 1<<20, got)
}

func TestLabelLenMatchesWrittenBytes(t *testing.T) {
	for _, label := range []int{0, 1, 127, 128, 16384, 1 << 24} {
		s := NewByteStore()
		before := s.Position()
		require.NoError(t, writeLabel(s, InputByte4, label))
		assert.Equal(t, labelLen(InputByte4, label), s.Position()-before)
	}
}

func TestInputTypeTagRoundTrip(t *testing.T) {
	for _, it := range []InputType{InputByte1, InputByte2, InputByte4} {
		got, err := inputTypeFromTag(it.tag())
		require.NoError(t, err)
		assert.Equal(t, it, got)
	}
	_, err := inputTypeFromTag(99)
	assert.Error(t, err)
}
