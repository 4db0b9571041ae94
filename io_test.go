package fst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.AddBytes([]byte("car"), int64(5)))
	require.NoError(t, b.AddBytes([]byte("cart"), int64(7)))
	require.NoError(t, b.AddBytes([]byte("cat"), int64(3)))
	f, err := b.Finish()
	require.NoError(t, err)

	buf, err := Save(f)
	require.NoError(t, err)

	loaded, err := Load(buf, Int64Outputs{})
	require.NoError(t, err)

	for _, key := range []string{"car", "cart", "cat"} {
		want, ok, err := f.Get([]byte(key))
		require.NoError(t, err)
		require.True(t, ok)
		got, ok, err := loaded.Get([]byte(key))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok, err := loaded.Get([]byte("ca"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveIdempotence(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.AddBytes([]byte("a"), int64(1)))
	require.NoError(t, b.AddBytes([]byte("b"), int64(2)))
	f, err := b.Finish()
	require.NoError(t, err)

	buf1, err := Save(f)
	require.NoError(t, err)

	loaded, err := Load(buf1, Int64Outputs{})
	require.NoError(t, err)

	buf2, err := Save(loaded)
	require.NoError(t, err)

	assert.Equal(t, buf1, buf2)
}

func TestSaveLoadWithEmptyOutput(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.Add(nil, int64(42)))
	require.NoError(t, b.AddBytes([]byte("z"), int64(1)))
	f, err := b.Finish()
	require.NoError(t, err)

	buf, err := Save(f)
	require.NoError(t, err)
	loaded, err := Load(buf, Int64Outputs{})
	require.NoError(t, err)

	eo, ok := loaded.EmptyOutput()
	require.True(t, ok)
	assert.Equal(t, int64(42), eo)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load([]byte("not an fst"), Int64Outputs{})
	require.Error(t, err)
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, FormatError, kind)
}

func TestLoadRejectsVersion3(t *testing.T) {
	store := NewByteStore()
	store.WriteBytes([]byte(formatMagic))
	store.WriteInt(int32(VersionPacked))
	store.Finish()
	_, err := Load(store.Bytes(), Int64Outputs{})
	require.Error(t, err)
}
