package fst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleFST(t *testing.T, entries []struct {
	key    string
	output int64
}) *FST {
	t.Helper()
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	for _, e := range entries {
		require.NoError(t, b.AddBytes([]byte(e.key), e.output))
	}
	f, err := b.Finish()
	require.NoError(t, err)
	return f
}

func TestCatCarCart(t *testing.T) {
	f := buildSimpleFST(t, []struct {
		key    string
		output int64
	}{
		{"car", 5},
		{"cart", 7},
		{"cat", 3},
	})

	for _, tc := range []struct {
		key   string
		want  int64
		found bool
	}{
		{"cat", 3, true},
		{"car", 5, true},
		{"cart", 7, true},
		{"ca", 0, false},
		{"carts", 0, false},
	} {
		out, ok, err := f.Get([]byte(tc.key))
		require.NoError(t, err)
		assert.Equal(t, tc.found, ok, "key %q", tc.key)
		if tc.found {
			assert.Equal(t, tc.want, out, "key %q", tc.key)
		}
	}
}

func TestSingleEntryCounters(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.AddBytes([]byte("a"), int64(1)))
	f, err := b.Finish()
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.NodeCount())
	assert.Equal(t, int64(1), f.ArcCount())
	assert.Equal(t, int64(1), f.ArcWithOutputCount())

	out, ok, err := f.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), out)
}

func TestEmptyOutputOnly(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.Add(nil, int64(42)))
	f, err := b.Finish()
	require.NoError(t, err)

	out, ok, err := f.Get(nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), out)

	eo, ok := f.EmptyOutput()
	require.True(t, ok)
	assert.Equal(t, int64(42), eo)

	_, ok, err = f.Get([]byte("x"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestElevenArcFixedArrayBinarySearch(t *testing.T) {
	entries := make([]struct {
		key    string
		output int64
	}, 11)
	for i := 0; i < 11; i++ {
		entries[i] = struct {
			key    string
			output int64
		}{string(rune('a' + i)), int64(i + 1)}
	}
	f := buildSimpleFST(t, entries)

	var arc Arc
	f.GetFirstArc(&arc)
	in := f.GetBytesReader()
	first, ok, err := f.FindTargetArc(int('a'), &arc, &arc, in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, first.isFixedArray())

	for i := 0; i < 11; i++ {
		label := int('a' + i)
		out, ok, err := f.Get([]byte{byte(label)})
		require.NoError(t, err)
		require.True(t, ok, "label %c", label)
		assert.Equal(t, int64(i+1), out)
	}
}

func TestAcyclicityAndLastArc(t *testing.T) {
	f := buildSimpleFST(t, []struct {
		key    string
		output int64
	}{
		{"ab", 1},
		{"ac", 2},
		{"ad", 3},
	})

	in := f.GetBytesReader()
	var first Arc
	f.GetFirstArc(&first)
	arc, err := f.ReadFirstTargetArc(&first, &Arc{}, in)
	require.NoError(t, err)

	seenLast := false
	for {
		if arc.Target > 0 {
			assert.Less(t, arc.Target, first.Target)
		}
		if arc.IsLast() {
			seenLast = true
			break
		}
		arc, err = f.readNextRealArc(arc, in)
		require.NoError(t, err)
	}
	assert.True(t, seenLast)
}

func TestRootCacheConsistency(t *testing.T) {
	f := buildSimpleFST(t, []struct {
		key    string
		output int64
	}{
		{"a", 1}, {"b", 2}, {"c", 3},
	})
	in := f.GetBytesReader()
	var first Arc
	f.GetFirstArc(&first)

	for label := 0; label < 128; label++ {
		cached := f.rootCache[label]

		var uncached Arc
		_, err := f.readFirstRealTargetArc(first.Target, &uncached, in)
		require.NoError(t, err)
		var found *Arc
		for {
			if uncached.Label == label {
				u := uncached
				found = &u
				break
			}
			if uncached.Label > label || uncached.IsLast() {
				break
			}
			_, err := f.readNextRealArc(&uncached, in)
			require.NoError(t, err)
		}

		if cached == nil {
			assert.Nil(t, found, "label %d", label)
		} else {
			require.NotNil(t, found, "label %d", label)
			assert.Equal(t, cached.Output, found.Output)
			assert.Equal(t, cached.Target, found.Target)
		}
	}
}

func TestBuilderRejectsOutOfOrderInput(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.AddBytes([]byte("b"), int64(1)))
	err := b.AddBytes([]byte("a"), int64(2))
	require.Error(t, err)
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, IllegalState, kind)
}

func TestFinishTwiceFails(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(Int64Outputs{}))
	require.NoError(t, b.AddBytes([]byte("a"), int64(1)))
	_, err := b.Finish()
	require.NoError(t, err)
	_, err = b.Finish()
	require.Error(t, err)
}
