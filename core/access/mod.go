// Package access defines the principals and the query access controller of
// the confidential contract.
//
// A query is authenticated by one of two credentials: a viewing key, which
// is a long-lived shared secret registered on-chain, or a permit, which is a
// stateless signed authorization scoped to specific contracts and query
// kinds. The controller resolves the credential and, on success, hands out a
// capability to read the state of the authenticated principal.
package access

import (
	"encoding/hex"

	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/prefixed"
	"github.com/TriviumNode/scrt-flex-multisig/crypto"
	"golang.org/x/xerrors"
)

var (
	// ErrUnauthorized is returned for any viewing-key failure. The cause is
	// deliberately not distinguishable: a wrong secret and an account with
	// no key registered produce the same error.
	ErrUnauthorized = xerrors.New("unauthorized")

	// ErrBadSignature is returned when a permit signature does not match its
	// claims.
	ErrBadSignature = xerrors.New("bad signature")

	// ErrWrongContract is returned when a permit is not valid for the
	// verifying contract.
	ErrWrongContract = xerrors.New("wrong contract")

	// ErrInsufficientScope is returned when a permit does not cover the
	// requested query kind.
	ErrInsufficientScope = xerrors.New("insufficient scope")
)

// Address is the opaque identifier of a principal on the host chain. It is
// used as the storage namespace key and as the subject of credentials.
type Address string

// Bytes returns the byte representation of the address.
func (a Address) Bytes() []byte {
	return []byte(a)
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return string(a)
}

// NewAddressFromPublicKey derives the address owning the given public key.
func NewAddressFromPublicKey(pk crypto.PublicKey) (Address, error) {
	data, err := pk.MarshalBinary()
	if err != nil {
		return "", xerrors.Errorf("couldn't marshal public key: %v", err)
	}

	h := crypto.NewHashFactory(crypto.Sha256).New()
	h.Write(data)

	return Address("flex" + hex.EncodeToString(h.Sum(nil)[:20])), nil
}

// Authorized is the capability handed out by a successful authorization. It
// is valid only for the current message execution: it is neither
// serializable nor persisted.
type Authorized struct {
	principal Address
	reader    store.Readable
}

// Principal returns the authenticated principal.
func (a Authorized) Principal() Address {
	return a.principal
}

// Reader returns a read-only view of the store namespaced to the
// authenticated principal.
func (a Authorized) Reader() store.Readable {
	return a.reader
}

// NewAuthorized creates a capability for the principal over the given store.
// It is exported for the contract packages that compose their own
// authorization flow in tests.
func NewAuthorized(principal Address, read store.Readable) Authorized {
	return Authorized{
		principal: principal,
		reader:    prefixed.NewReadable("principal/"+string(principal), read),
	}
}
