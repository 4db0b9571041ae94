package fst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackEquivalence(t *testing.T) {
	opts := DefaultBuilderOptions(Int64Outputs{})
	opts.WillPackFST = true
	b := NewBuilder(opts)
	require.NoError(t, b.AddBytes([]byte("ab"), int64(1)))
	require.NoError(t, b.AddBytes([]byte("ac"), int64(2)))
	require.NoError(t, b.AddBytes([]byte("ad"), int64(3)))
	f, err := b.Finish()
	require.NoError(t, err)

	packed, err := Pack(f, b.Encoder(), DefaultPackOptions())
	require.NoError(t, err)
	require.True(t, packed.IsPacked())

	assert.Equal(t, f.NodeCount(), packed.NodeCount())
	assert.Equal(t, f.ArcCount(), packed.ArcCount())
	assert.Equal(t, f.ArcWithOutputCount(), packed.ArcWithOutputCount())

	for _, key := range []string{"ab", "ac", "ad"} {
		want, ok, err := f.Get([]byte(key))
		require.NoError(t, err)
		require.True(t, ok)
		got, ok, err := packed.Get([]byte(key))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok, err := packed.Get([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPackRequiresWillPackBuild(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.AddBytes([]byte("a"), int64(1)))
	f, err := b.Finish()
	require.NoError(t, err)

	_, err = Pack(f, b.Encoder(), DefaultPackOptions())
	require.Error(t, err)
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, IllegalState, kind)
}

func TestPackWithDenseIDSharedTarget(t *testing.T) {
	// "aXc" and "bXc" share an identical "Xc" continuation and identical
	// trailing output, so the builder's suffix-sharing cache compiles both
	// occurrences to the same node address — a real in-degree-2 node, a
	// genuine candidate for dense-id assignment.
	opts := DefaultBuilderOptions(Int64Outputs{})
	opts.WillPackFST = true
	b := NewBuilder(opts)
	require.NoError(t, b.AddBytes([]byte("aXc"), int64(5)))
	require.NoError(t, b.AddBytes([]byte("bXc"), int64(5)))
	f, err := b.Finish()
	require.NoError(t, err)

	opts2 := DefaultPackOptions()
	opts2.MinInCountDeref = 2
	packed, err := Pack(f, b.Encoder(), opts2)
	require.NoError(t, err)

	for _, k := range []string{"aXc", "bXc"} {
		out, ok, err := packed.Get([]byte(k))
		require.NoError(t, err)
		require.True(t, ok, "key %q", k)
		assert.Equal(t, int64(5), out)
	}

	_, ok, err := packed.Get([]byte("aXd"))
	require.NoError(t, err)
	assert.False(t, ok)
}
