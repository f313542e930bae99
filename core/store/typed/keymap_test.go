package typed

import (
	"fmt"
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/stretchr/testify/require"
)

func TestKeymap_InsertAndGet(t *testing.T) {
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	m := NewKeymap[string]("people")

	value, found, err := m.Get(snap, ctx, []byte("alice"))
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, "", value)

	err = m.Insert(snap, ctx, []byte("alice"), "A")
	require.NoError(t, err)

	value, found, err = m.Get(snap, ctx, []byte("alice"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "A", value)

	length, err := m.Len(snap)
	require.NoError(t, err)
	require.Equal(t, uint32(1), length)

	// Overwriting does not grow the index.
	err = m.Insert(snap, ctx, []byte("alice"), "AA")
	require.NoError(t, err)

	length, err = m.Len(snap)
	require.NoError(t, err)
	require.Equal(t, uint32(1), length)

	ok, err := m.Contains(snap, []byte("alice"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Contains(snap, []byte("bob"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeymap_Paging(t *testing.T) {
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	m := NewKeymap[int]("numbers")

	for i := 0; i < 5; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		require.NoError(t, m.Insert(snap, ctx, key, i))
	}

	entries, err := m.Paging(snap, ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, []byte("key-0"), entries[0].Key)
	require.Equal(t, 0, entries[0].Value)
	require.Equal(t, []byte("key-1"), entries[1].Key)

	entries, err = m.Paging(snap, ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 4, entries[0].Value)

	entries, err = m.Paging(snap, ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, entries, 0)

	entries, err = m.Paging(snap, ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 0)

	// A page whose 32-bit offset would wrap around is still past the end.
	entries, err = m.Paging(snap, ctx, 1<<26, 64)
	require.NoError(t, err)
	require.Len(t, entries, 0)
}

func TestKeymap_Remove(t *testing.T) {
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	m := NewKeymap[int]("numbers")

	for i := 0; i < 4; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		require.NoError(t, m.Insert(snap, ctx, key, i))
	}

	// Removing an absent key is a no-op.
	require.NoError(t, m.Remove(snap, []byte("missing")))

	length, err := m.Len(snap)
	require.NoError(t, err)
	require.Equal(t, uint32(4), length)

	// Removing in the middle swaps the last entry in.
	require.NoError(t, m.Remove(snap, []byte("key-1")))

	entries, err := m.Paging(snap, ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []byte("key-0"), entries[0].Key)
	require.Equal(t, []byte("key-3"), entries[1].Key)
	require.Equal(t, []byte("key-2"), entries[2].Key)

	_, found, err := m.Get(snap, ctx, []byte("key-1"))
	require.NoError(t, err)
	require.False(t, found)

	// Removing the last entry does not swap.
	require.NoError(t, m.Remove(snap, []byte("key-2")))

	entries, err = m.Paging(snap, ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, []byte("key-0"), entries[0].Key)
	require.Equal(t, []byte("key-3"), entries[1].Key)
}

func TestKeymap_Namespaces(t *testing.T) {
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	a := NewKeymap[int]("first")
	b := NewKeymap[int]("second")

	require.NoError(t, a.Insert(snap, ctx, []byte("key"), 1))

	_, found, err := b.Get(snap, ctx, []byte("key"))
	require.NoError(t, err)
	require.False(t, found)

	length, err := b.Len(snap)
	require.NoError(t, err)
	require.Equal(t, uint32(0), length)
}

func TestKeymap_BadSnapshot(t *testing.T) {
	m := NewKeymap[int]("numbers")
	bad := fake.NewBadSnapshot()
	ctx := fake.NewContext()

	err := m.Insert(bad, ctx, []byte("key"), 1)
	require.EqualError(t, err, fake.Err("failed to read position"))

	_, err = m.Len(bad)
	require.EqualError(t, err, fake.Err("failed to read length"))

	_, _, err = m.Get(bad, ctx, []byte("key"))
	require.EqualError(t, err, fake.Err("failed to read value"))

	err = m.Remove(bad, []byte("key"))
	require.EqualError(t, err, fake.Err("failed to read position"))

	_, err = m.Paging(bad, ctx, 0, 1)
	require.EqualError(t, err, fake.Err("failed to read length"))
}
