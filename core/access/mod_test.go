package access

import (
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/stretchr/testify/require"
)

func TestAddress_NewFromPublicKey(t *testing.T) {
	addr, err := NewAddressFromPublicKey(fake.PublicKey{})
	require.NoError(t, err)
	require.Len(t, string(addr), 4+40)
	require.Equal(t, "flex", string(addr)[:4])

	// Deterministic.
	again, err := NewAddressFromPublicKey(fake.PublicKey{})
	require.NoError(t, err)
	require.Equal(t, addr, again)

	_, err = NewAddressFromPublicKey(fake.NewBadPublicKey())
	require.EqualError(t, err, fake.Err("couldn't marshal public key"))
}

func TestAuthorized_Reader(t *testing.T) {
	backend := fake.NewSnapshot()

	a := NewAuthorized("flexaaaa", backend)
	require.Equal(t, Address("flexaaaa"), a.Principal())

	b := NewAuthorized("flexbbbb", backend)

	require.NoError(t, backend.Set([]byte("key"), []byte("value")))

	// The capability reads through a namespace, not the raw store.
	value, err := a.Reader().Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = b.Reader().Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)
}
