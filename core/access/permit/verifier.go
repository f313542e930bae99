package permit

import (
	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/prefixed"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"golang.org/x/xerrors"
)

const revokedNamespace = "flexmultisig/revoked-permits/"

// Verifier validates permits against the state of the contract. Validation
// checks, in order: the signature over the canonical claims, the contract
// list, the scope set and the revocation registry.
//
// - implements access.PermitValidator
type Verifier struct{}

// NewVerifier creates a permit verifier.
func NewVerifier() Verifier {
	return Verifier{}
}

// Validate implements access.PermitValidator. On success, it returns the
// address of the principal that signed the permit, which is the only way a
// caller identity is established on this path.
func (v Verifier) Validate(read store.Readable, ctx serde.Context,
	msg serde.Message, contract access.Address, scope string) (access.Address, error) {

	p, ok := msg.(Permit)
	if !ok {
		return "", xerrors.Errorf("invalid permit of type '%T': %w",
			msg, access.ErrUnauthorized)
	}

	err := p.pubkey.Verify(p.params.SignBytes(), p.signature)
	if err != nil {
		return "", xerrors.Errorf("signature mismatch: %v: %w", err, access.ErrBadSignature)
	}

	if !contains(p.params.Contracts, string(contract)) {
		return "", xerrors.Errorf("permit is not valid for '%s': %w",
			contract, access.ErrWrongContract)
	}

	if !contains(p.params.Permissions, scope) {
		return "", xerrors.Errorf("permit does not grant '%s': %w",
			scope, access.ErrInsufficientScope)
	}

	principal, err := access.NewAddressFromPublicKey(p.pubkey)
	if err != nil {
		return "", xerrors.Errorf("couldn't derive principal: %v", err)
	}

	revoked, err := IsRevoked(read, principal, p.params.Name)
	if err != nil {
		return "", xerrors.Errorf("couldn't check revocation: %v", err)
	}

	if revoked {
		return "", xerrors.Errorf("permit '%s' is revoked: %w",
			p.params.Name, access.ErrUnauthorized)
	}

	return principal, nil
}

func revokedKey(principal access.Address, name string) []byte {
	return prefixed.NewPrefixedKey(
		[]byte(revokedNamespace+string(principal)), []byte(name))
}

// Revoke marks the named permit of the principal as revoked. Any permit
// presented later under that name and principal fails validation.
func Revoke(snap store.Snapshot, principal access.Address, name string) error {
	err := snap.Set(revokedKey(principal, name), []byte{1})
	if err != nil {
		return xerrors.Errorf("failed to write revocation: %v", err)
	}

	return nil
}

// IsRevoked returns true when the named permit of the principal has been
// revoked.
func IsRevoked(read store.Readable, principal access.Address, name string) (bool, error) {
	data, err := read.Get(revokedKey(principal, name))
	if err != nil {
		return false, xerrors.Errorf("failed to read revocation: %v", err)
	}

	return data != nil, nil
}
