package sessionstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_PutGetRemove(t *testing.T) {
	store := New()

	_, ok := store.Get("A")
	require.False(t, ok)

	store.Put("A", nil)
	_, ok = store.Get("A")
	require.True(t, ok)
	require.Equal(t, 1, store.Count())

	store.Remove("A")
	_, ok = store.Get("A")
	require.False(t, ok)
	require.Equal(t, 0, store.Count())
}

func TestStore_PutOverwrites(t *testing.T) {
	store := New()
	store.Put("A", nil)
	store.Put("A", nil)
	require.Equal(t, 1, store.Count())
}
