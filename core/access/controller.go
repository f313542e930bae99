package access

import (
	flex "github.com/TriviumNode/scrt-flex-multisig"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"github.com/rs/zerolog"
)

// Credential is the tagged union of the two authentication paths of a
// query.
type Credential interface {
	credential()
}

// WithViewingKey authenticates a query with the long-lived secret the
// claimed principal registered on-chain.
//
// - implements access.Credential
type WithViewingKey struct {
	Viewer Address
	Key    string
}

func (WithViewingKey) credential() {}

// WithPermit authenticates a query with a signed, scoped permit constructed
// off-chain by the caller.
//
// - implements access.Credential
type WithPermit struct {
	Permit serde.Message
}

func (WithPermit) credential() {}

// KeyChecker is the primitive the controller delegates viewing-key
// verification to.
type KeyChecker interface {
	// Check returns true only when the candidate secret matches the record
	// of the viewer. It must run in constant time whatever the outcome.
	Check(read store.Readable, ctx serde.Context, viewer Address, key string) bool
}

// PermitValidator is the primitive the controller delegates permit
// verification to.
type PermitValidator interface {
	// Validate returns the principal that signed the permit when the
	// signature, the contract list and the scope set all check out.
	Validate(read store.Readable, ctx serde.Context, permit serde.Message,
		contract Address, scope string) (Address, error)
}

// Controller authorizes queries against the contract state. It never writes
// state: on success it returns a read capability scoped to the principal.
type Controller struct {
	keys    KeyChecker
	permits PermitValidator
	logger  zerolog.Logger
}

// NewController creates a controller from the credential providers.
func NewController(keys KeyChecker, permits PermitValidator) Controller {
	return Controller{
		keys:    keys,
		permits: permits,
		logger:  flex.Logger.With().Str("component", "access").Logger(),
	}
}

// Authorize resolves the credential and returns the capability of the
// authenticated principal. Viewing-key failures all map to ErrUnauthorized;
// permit failures keep their internal variant, which the query entry point
// must not expose to the caller.
func (c Controller) Authorize(read store.Readable, ctx serde.Context,
	cred Credential, contract Address, scope string) (Authorized, error) {

	switch cr := cred.(type) {
	case WithViewingKey:
		if !c.keys.Check(read, ctx, cr.Viewer, cr.Key) {
			return Authorized{}, ErrUnauthorized
		}

		return NewAuthorized(cr.Viewer, read), nil

	case WithPermit:
		principal, err := c.permits.Validate(read, ctx, cr.Permit, contract, scope)
		if err != nil {
			c.logger.Debug().Err(err).Msg("permit rejected")
			return Authorized{}, err
		}

		return NewAuthorized(principal, read), nil

	default:
		return Authorized{}, ErrUnauthorized
	}
}
