package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixTable(t *testing.T) {
	tb := New[int]()
	tb.Insert([]byte("apple"), 1)
	tb.Insert([]byte("applet"), 2)
	tb.Insert([]byte("apricot"), 3)
	tb.Insert([]byte("apple"), 4)

	require.Equal(t, 3, tb.Size())

	v, ok := tb.Get([]byte("apple"))
	require.True(t, ok)
	require.Equal(t, 4, v)

	_, ok = tb.Get([]byte("app"))
	require.False(t, ok)

	var keys []string
	tb.Walk([]byte("appletie"), func(key []byte, _ int) bool {
		keys = append(keys, string(key))
		return false
	})
	require.Equal(t, []string{"apple", "applet"}, keys)

	keys = nil
	tb.Walk([]byte("application"), func(key []byte, _ int) bool {
		keys = append(keys, string(key))
		return false
	})
	require.Empty(t, keys)
}

func TestPrefixTable_Longest(t *testing.T) {
	tb := New[string]()
	tb.Insert([]byte{0xFF, 0xD8, 0xFF}, "short")
	tb.Insert([]byte{0xFF, 0xD8, 0xFF, 0xE0}, "long")

	v, n, ok := tb.Longest([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00})
	require.True(t, ok)
	require.Equal(t, "long", v)
	require.Equal(t, 4, n)

	v, n, ok = tb.Longest([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	require.True(t, ok)
	require.Equal(t, "short", v)
	require.Equal(t, 3, n)

	_, _, ok = tb.Longest([]byte{0xFF, 0xD8})
	require.False(t, ok)
}

func TestPrefixTable_StopEarly(t *testing.T) {
	tb := New[int]()
	tb.Insert([]byte("a"), 1)
	tb.Insert([]byte("ab"), 2)

	calls := 0
	tb.Walk([]byte("abc"), func([]byte, int) bool {
		calls++
		return true
	})
	require.Equal(t, 1, calls)
}
