package permit

import (
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/crypto/ed25519"
	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/TriviumNode/scrt-flex-multisig/serde/json"
	"github.com/stretchr/testify/require"
)

func TestParams_SignBytes(t *testing.T) {
	params := Params{
		Name:        "observer",
		Chain:       "secret-4",
		Contracts:   []string{"flexbb", "flexaa"},
		Permissions: []string{"history", "balance"},
	}

	// The canonical bytes are order-insensitive for the lists.
	shuffled := Params{
		Name:        "observer",
		Chain:       "secret-4",
		Contracts:   []string{"flexaa", "flexbb"},
		Permissions: []string{"balance", "history"},
	}

	require.Equal(t, params.SignBytes(), shuffled.SignBytes())

	// Field boundaries are unambiguous.
	a := Params{Name: "ab", Chain: "c"}
	b := Params{Name: "a", Chain: "bc"}
	require.NotEqual(t, a.SignBytes(), b.SignBytes())
}

func TestSign(t *testing.T) {
	signer := ed25519.NewSigner()

	params := Params{Name: "observer", Chain: "secret-4"}

	p, err := Sign(signer, params)
	require.NoError(t, err)
	require.Equal(t, params, p.GetParams())
	require.True(t, signer.GetPublicKey().Equal(p.GetPublicKey()))

	err = p.GetPublicKey().Verify(params.SignBytes(), p.GetSignature())
	require.NoError(t, err)

	_, err = Sign(fake.NewBadSigner(), params)
	require.EqualError(t, err, fake.Err("couldn't sign claims"))
}

func TestPermit_Serialize(t *testing.T) {
	ctx := json.NewContext()

	p, err := Sign(ed25519.NewSigner(), Params{Name: "observer"})
	require.NoError(t, err)

	data, err := p.Serialize(ctx)
	require.NoError(t, err)
	require.Contains(t, string(data), `"permit_name":"observer"`)

	bad := NewPermit(Params{}, fake.NewBadPublicKey(), fake.Signature{})
	_, err = bad.Serialize(ctx)
	require.EqualError(t, err, fake.Err("couldn't serialize public key"))

	bad = NewPermit(Params{}, fake.PublicKey{}, fake.NewBadSignature())
	_, err = bad.Serialize(ctx)
	require.EqualError(t, err, fake.Err("couldn't serialize signature"))
}

func TestFactory_PermitOf(t *testing.T) {
	ctx := json.NewContext()

	signer := ed25519.NewSigner()

	params := Params{
		Name:        "observer",
		Chain:       "secret-4",
		Contracts:   []string{"flexaa"},
		Permissions: []string{"balance"},
	}

	p, err := Sign(signer, params)
	require.NoError(t, err)

	data, err := p.Serialize(ctx)
	require.NoError(t, err)

	factory := NewFactory(ed25519.NewPublicKeyFactory(), ed25519.NewSignatureFactory())

	decoded, err := factory.PermitOf(ctx, data)
	require.NoError(t, err)
	require.Equal(t, params, decoded.GetParams())
	require.True(t, p.GetPublicKey().Equal(decoded.GetPublicKey()))

	err = decoded.GetPublicKey().Verify(params.SignBytes(), decoded.GetSignature())
	require.NoError(t, err)

	msg, err := factory.Deserialize(ctx, data)
	require.NoError(t, err)
	require.IsType(t, Permit{}, msg)

	_, err = factory.PermitOf(ctx, []byte("not json"))
	require.Error(t, err)

	badFactory := NewFactory(fake.NewBadPublicKeyFactory(), ed25519.NewSignatureFactory())
	_, err = badFactory.PermitOf(ctx, data)
	require.EqualError(t, err, fake.Err("couldn't decode public key"))

	badFactory = NewFactory(ed25519.NewPublicKeyFactory(), fake.NewBadSignatureFactory())
	_, err = badFactory.PermitOf(ctx, data)
	require.EqualError(t, err, fake.Err("couldn't decode signature"))
}
