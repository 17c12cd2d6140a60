package realmregistry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_AllocatesSmallestFreeIDInOrder(t *testing.T) {
	reg := New()

	id0, ok := reg.Add("Realm0", "localhost:1", 0, false, 0, 0, 0, 1, 12, 1, 5875)
	require.True(t, ok)
	require.Equal(t, uint8(0), id0)

	id1, ok := reg.Add("Realm1", "localhost:2", 0, false, 0, 0, 0, 1, 12, 1, 5875)
	require.True(t, ok)
	require.Equal(t, uint8(1), id1)

	reg.Remove(id0)

	id2, ok := reg.Add("Realm2", "localhost:3", 0, false, 0, 0, 0, 1, 12, 1, 5875)
	require.True(t, ok)
	require.Equal(t, uint8(0), id2, "the freed ID must be reused before allocating a new high ID")
}

func TestAdd_ExhaustionReturnsFalseAfter256(t *testing.T) {
	reg := New()
	for i := 0; i < 256; i++ {
		_, ok := reg.Add("R", "addr", 0, false, 0, 0, 0, 0, 0, 0, 0)
		require.True(t, ok, "realm %d should have allocated", i)
	}

	_, ok := reg.Add("overflow", "addr", 0, false, 0, 0, 0, 0, 0, 0, 0)
	require.False(t, ok, "257th realm should fail to allocate")
	require.Len(t, reg.Snapshot(), 256)
}

func TestRemove_RemovesFromSnapshot(t *testing.T) {
	reg := New()
	id, ok := reg.Add("Test Realm", "localhost:8085", 200.0, false, 0, 0, 0, 0, 0, 0, 0)
	require.True(t, ok)
	require.Len(t, reg.Snapshot(), 1)

	reg.Remove(id)
	require.Empty(t, reg.Snapshot())
}

func TestRemove_NoOpWhenAbsent(t *testing.T) {
	reg := New()
	reg.Remove(42) // must not panic
	require.Empty(t, reg.Snapshot())
}
