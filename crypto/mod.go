// Package crypto defines the cryptographic primitives consumed by the
// module: hashing, public keys, signatures and signers.
//
// The concrete implementation used by the permit authentication path is the
// Ed25519 Schnorr scheme in the ed25519 subpackage.
package crypto

import (
	"encoding"
	"hash"

	"github.com/TriviumNode/scrt-flex-multisig/serde"
)

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// PublicKey is a public identity that can be used to verify a signature.
type PublicKey interface {
	serde.Message
	encoding.BinaryMarshaler
	encoding.TextMarshaler

	// Verify returns nil if the signature matches the message for this
	// public key.
	Verify(msg []byte, signature Signature) error

	// Equal returns true when both objects are similar.
	Equal(other interface{}) bool
}

// PublicKeyFactory is a factory to decode the public keys.
type PublicKeyFactory interface {
	serde.Factory

	// PublicKeyOf returns the public key associated to the data.
	PublicKeyOf(ctx serde.Context, data []byte) (PublicKey, error)

	// FromBytes returns the public key unmarshaled from the bytes.
	FromBytes(data []byte) (PublicKey, error)
}

// Signature is a verifiable element for a unique message.
type Signature interface {
	serde.Message
	encoding.BinaryMarshaler

	// Equal returns true when both objects are similar.
	Equal(other Signature) bool
}

// SignatureFactory is a factory to decode the signatures.
type SignatureFactory interface {
	serde.Factory

	// SignatureOf returns the signature associated to the data.
	SignatureOf(ctx serde.Context, data []byte) (Signature, error)
}

// Signer provides the primitives to sign and verify signatures.
type Signer interface {
	// GetPublicKeyFactory returns a factory that can deserialize public keys
	// of the scheme of the signer.
	GetPublicKeyFactory() PublicKeyFactory

	// GetSignatureFactory returns a factory that can deserialize signatures
	// of the scheme of the signer.
	GetSignatureFactory() SignatureFactory

	// GetPublicKey returns the public key of the signer.
	GetPublicKey() PublicKey

	// Sign returns a signature that will match the message for the signer
	// public key.
	Sign(msg []byte) (Signature, error)
}
