package access

import (
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	ok bool
}

func (c fakeChecker) Check(store.Readable, serde.Context, Address, string) bool {
	return c.ok
}

type fakeValidator struct {
	principal Address
	err       error
}

func (v fakeValidator) Validate(store.Readable, serde.Context, serde.Message,
	Address, string) (Address, error) {

	return v.principal, v.err
}

func TestController_Authorize_ViewingKey(t *testing.T) {
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	cred := WithViewingKey{Viewer: "flexaaaa", Key: "secret"}

	c := NewController(fakeChecker{ok: true}, fakeValidator{})

	authorized, err := c.Authorize(snap, ctx, cred, "flexcontract", "balance")
	require.NoError(t, err)
	require.Equal(t, Address("flexaaaa"), authorized.Principal())

	c = NewController(fakeChecker{ok: false}, fakeValidator{})

	_, err = c.Authorize(snap, ctx, cred, "flexcontract", "balance")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestController_Authorize_Permit(t *testing.T) {
	snap := fake.NewSnapshot()
	ctx := fake.NewContext()

	cred := WithPermit{Permit: fake.PublicKey{}}

	c := NewController(fakeChecker{}, fakeValidator{principal: "flexaaaa"})

	authorized, err := c.Authorize(snap, ctx, cred, "flexcontract", "balance")
	require.NoError(t, err)
	require.Equal(t, Address("flexaaaa"), authorized.Principal())

	c = NewController(fakeChecker{}, fakeValidator{err: ErrBadSignature})

	_, err = c.Authorize(snap, ctx, cred, "flexcontract", "balance")
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestController_Authorize_UnknownCredential(t *testing.T) {
	c := NewController(fakeChecker{ok: true}, fakeValidator{})

	_, err := c.Authorize(fake.NewSnapshot(), fake.NewContext(), nil,
		"flexcontract", "balance")
	require.ErrorIs(t, err, ErrUnauthorized)
}
