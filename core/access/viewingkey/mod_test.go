package viewingkey

import (
	"strings"
	"testing"
	"time"

	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/stretchr/testify/require"
)

// Fast parameters keep the unit tests snappy. The hardened defaults are only
// about cost, not behaviour.
func fastRegistry() Registry {
	return Registry{
		params: Params{Time: 1, Memory: 8, Threads: 1, KeyLen: 32},
	}
}

func TestRegistry_SetAndCheck(t *testing.T) {
	registry := fastRegistry()
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	alice := access.Address("flexaaaa")

	// No record yet.
	require.False(t, registry.Check(snap, ctx, alice, "secret"))

	err := registry.Set(snap, ctx, alice, "secret", time.Unix(1000, 0))
	require.NoError(t, err)

	require.True(t, registry.Check(snap, ctx, alice, "secret"))
	require.False(t, registry.Check(snap, ctx, alice, "wrong"))
	require.False(t, registry.Check(snap, ctx, alice, ""))

	// The record is per principal.
	require.False(t, registry.Check(snap, ctx, access.Address("flexbbbb"), "secret"))
}

func TestRegistry_Set_Rotation(t *testing.T) {
	registry := fastRegistry()
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	alice := access.Address("flexaaaa")

	require.NoError(t, registry.Set(snap, ctx, alice, "first", time.Unix(1000, 0)))
	require.NoError(t, registry.Set(snap, ctx, alice, "second", time.Unix(2000, 0)))

	require.False(t, registry.Check(snap, ctx, alice, "first"))
	require.True(t, registry.Check(snap, ctx, alice, "second"))
}

func TestRegistry_Set_BadSnapshot(t *testing.T) {
	registry := fastRegistry()

	err := registry.Set(fake.NewBadSnapshot(), fake.NewContext(),
		access.Address("flexaaaa"), "secret", time.Unix(1000, 0))
	require.EqualError(t, err,
		fake.Err("failed to save record: failed to set item"))
}

func TestRegistry_Create(t *testing.T) {
	registry := fastRegistry()
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	alice := access.Address("flexaaaa")
	bob := access.Address("flexbbbb")

	key, err := registry.Create(snap, ctx, alice, []byte("entropy"), []byte("seed"),
		time.Unix(1000, 0))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, KeyPrefix))

	require.True(t, registry.Check(snap, ctx, alice, key))
	require.False(t, registry.Check(snap, ctx, bob, key))

	// The key binds the principal: same entropy and seed, different key.
	other, err := registry.Create(snap, ctx, bob, []byte("entropy"), []byte("seed"),
		time.Unix(1000, 0))
	require.NoError(t, err)
	require.NotEqual(t, key, other)
}

func TestRegistry_Create_BadSnapshot(t *testing.T) {
	registry := fastRegistry()

	_, err := registry.Create(fake.NewBadSnapshot(), fake.NewContext(),
		access.Address("flexaaaa"), nil, nil, time.Unix(1000, 0))
	require.EqualError(t, err,
		fake.Err("failed to set created key: failed to save record: failed to set item"))
}

func TestRegistry_Check_BadSnapshot(t *testing.T) {
	registry := fastRegistry()

	// A read failure rejects like a missing record.
	require.False(t, registry.Check(fake.NewBadSnapshot(), fake.NewContext(),
		access.Address("flexaaaa"), "secret"))
}
