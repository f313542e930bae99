package ed25519_test

import (
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/crypto/ed25519"
	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/TriviumNode/scrt-flex-multisig/serde/json"
	"github.com/stretchr/testify/require"
)

func TestPublicKey_MarshalAndRestore(t *testing.T) {
	signer := ed25519.NewSigner()

	data, err := signer.GetPublicKey().MarshalBinary()
	require.NoError(t, err)

	pubkey, err := ed25519.NewPublicKey(data)
	require.NoError(t, err)
	require.True(t, pubkey.Equal(signer.GetPublicKey()))
	require.False(t, pubkey.Equal(ed25519.NewSigner().GetPublicKey()))
	require.False(t, pubkey.Equal(struct{}{}))

	_, err = ed25519.NewPublicKey([]byte("not a point"))
	require.Error(t, err)
}

func TestPublicKey_MarshalText(t *testing.T) {
	signer := ed25519.NewSigner()

	text, err := signer.GetPublicKey().(ed25519.PublicKey).MarshalText()
	require.NoError(t, err)
	require.Contains(t, string(text), "schnorr:")

	str := signer.GetPublicKey().(ed25519.PublicKey).String()
	require.Len(t, str, 8+16)
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer := ed25519.NewSigner()

	sig, err := signer.Sign([]byte("message"))
	require.NoError(t, err)

	err = signer.GetPublicKey().Verify([]byte("message"), sig)
	require.NoError(t, err)

	err = signer.GetPublicKey().Verify([]byte("tampered"), sig)
	require.Error(t, err)

	err = signer.GetPublicKey().Verify([]byte("message"), fake.Signature{})
	require.EqualError(t, err, "invalid signature type 'fake.Signature'")

	err = ed25519.NewSigner().GetPublicKey().Verify([]byte("message"), sig)
	require.Error(t, err)
}

func TestSigner_RestoreFromBytes(t *testing.T) {
	signer := ed25519.NewSigner()

	data, err := signer.MarshalPrivateKey()
	require.NoError(t, err)

	restored, err := ed25519.NewSignerFromBytes(data)
	require.NoError(t, err)
	require.True(t, restored.GetPublicKey().Equal(signer.GetPublicKey()))

	sig, err := restored.Sign([]byte("message"))
	require.NoError(t, err)
	require.NoError(t, signer.GetPublicKey().Verify([]byte("message"), sig))

	_, err = ed25519.NewSignerFromBytes([]byte("garbage"))
	require.Error(t, err)
}

func TestPublicKey_SerializeAndDeserialize(t *testing.T) {
	ctx := json.NewContext()

	signer := ed25519.NewSigner()

	data, err := signer.GetPublicKey().Serialize(ctx)
	require.NoError(t, err)

	factory := ed25519.NewPublicKeyFactory()

	pubkey, err := factory.PublicKeyOf(ctx, data)
	require.NoError(t, err)
	require.True(t, pubkey.Equal(signer.GetPublicKey()))

	_, err = factory.PublicKeyOf(ctx, []byte("garbage"))
	require.Error(t, err)

	raw, err := signer.GetPublicKey().MarshalBinary()
	require.NoError(t, err)

	pubkey, err = factory.FromBytes(raw)
	require.NoError(t, err)
	require.True(t, pubkey.Equal(signer.GetPublicKey()))
}

func TestSignature_SerializeAndDeserialize(t *testing.T) {
	ctx := json.NewContext()

	signer := ed25519.NewSigner()

	sig, err := signer.Sign([]byte("message"))
	require.NoError(t, err)

	data, err := sig.Serialize(ctx)
	require.NoError(t, err)

	factory := ed25519.NewSignatureFactory()

	restored, err := factory.SignatureOf(ctx, data)
	require.NoError(t, err)
	require.True(t, restored.Equal(sig))
	require.False(t, restored.Equal(fake.Signature{}))

	_, err = factory.SignatureOf(ctx, []byte("garbage"))
	require.Error(t, err)
}
