// Package permit implements the stateless, signed, scoped authorization
// tokens of the contract.
//
// A permit is constructed and signed off-chain by the caller and presented
// with a query. Verification is stateless: nothing is written, and apart
// from the revocation lookup nothing is read. Revocability is traded for
// zero storage cost, so a permit with broad scopes and many allowed
// contracts is a risk the caller takes, not a contract defect: callers
// should scope permits narrowly.
package permit

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/TriviumNode/scrt-flex-multisig/crypto"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"golang.org/x/xerrors"
)

// Params are the claims of a permit: who may verify it and what it grants.
type Params struct {
	// Name identifies the permit for revocation.
	Name string

	// Chain is the identifier of the chain the permit is bound to.
	Chain string

	// Contracts lists the addresses of the contracts the permit is valid
	// for.
	Contracts []string

	// Permissions lists the query scopes the permit grants.
	Permissions []string
}

// SignBytes returns the canonical serialization of the claims. Every field
// is length-delimited and the lists are sorted, so the bytes are
// deterministic whatever the in-memory ordering is.
func (p Params) SignBytes() []byte {
	buffer := new(bytes.Buffer)

	writeString(buffer, p.Name)
	writeString(buffer, p.Chain)
	writeList(buffer, p.Contracts)
	writeList(buffer, p.Permissions)

	return buffer.Bytes()
}

func writeString(buffer *bytes.Buffer, value string) {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(value)))

	buffer.Write(length)
	buffer.WriteString(value)
}

func writeList(buffer *bytes.Buffer, values []string) {
	sorted := append([]string{}, values...)
	sort.Strings(sorted)

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(sorted)))
	buffer.Write(length)

	for _, value := range sorted {
		writeString(buffer, value)
	}
}

// Permit is a signed set of claims. The signature covers the canonical
// serialization of the claims and validates against the public key of the
// principal presenting the permit.
//
// - implements serde.Message
type Permit struct {
	params    Params
	pubkey    crypto.PublicKey
	signature crypto.Signature
}

// NewPermit creates a permit from its parts. It does not verify the
// signature.
func NewPermit(params Params, pubkey crypto.PublicKey, signature crypto.Signature) Permit {
	return Permit{
		params:    params,
		pubkey:    pubkey,
		signature: signature,
	}
}

// Sign creates a permit by signing the canonical claims with the given
// signer.
func Sign(signer crypto.Signer, params Params) (Permit, error) {
	signature, err := signer.Sign(params.SignBytes())
	if err != nil {
		return Permit{}, xerrors.Errorf("couldn't sign claims: %v", err)
	}

	return Permit{
		params:    params,
		pubkey:    signer.GetPublicKey(),
		signature: signature,
	}, nil
}

// GetParams returns the claims of the permit.
func (p Permit) GetParams() Params {
	return p.params
}

// GetPublicKey returns the public key of the signer of the permit.
func (p Permit) GetPublicKey() crypto.PublicKey {
	return p.pubkey
}

// GetSignature returns the signature of the permit.
func (p Permit) GetSignature() crypto.Signature {
	return p.signature
}

// permitJSON is the JSON message of a permit.
type permitJSON struct {
	Name        string   `json:"permit_name"`
	Chain       string   `json:"chain_id"`
	Contracts   []string `json:"allowed_contracts"`
	Permissions []string `json:"permissions"`
	PubKey      []byte   `json:"pub_key"`
	Signature   []byte   `json:"signature"`
}

// Serialize implements serde.Message. It returns the JSON data of the
// permit.
func (p Permit) Serialize(ctx serde.Context) ([]byte, error) {
	pubkey, err := p.pubkey.Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("couldn't serialize public key: %v", err)
	}

	signature, err := p.signature.Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("couldn't serialize signature: %v", err)
	}

	m := permitJSON{
		Name:        p.params.Name,
		Chain:       p.params.Chain,
		Contracts:   p.params.Contracts,
		Permissions: p.params.Permissions,
		PubKey:      pubkey,
		Signature:   signature,
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Factory deserializes permits using the key and signature factories of the
// signature scheme.
//
// - implements serde.Factory
type Factory struct {
	pubkeyFactory crypto.PublicKeyFactory
	sigFactory    crypto.SignatureFactory
}

// NewFactory creates a factory for the given scheme factories.
func NewFactory(pubkey crypto.PublicKeyFactory, sig crypto.SignatureFactory) Factory {
	return Factory{
		pubkeyFactory: pubkey,
		sigFactory:    sig,
	}
}

// Deserialize implements serde.Factory. It returns the permit of the data if
// appropriate, otherwise an error.
func (f Factory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.PermitOf(ctx, data)
}

// PermitOf returns the permit of the data if appropriate, otherwise an
// error.
func (f Factory) PermitOf(ctx serde.Context, data []byte) (Permit, error) {
	m := permitJSON{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return Permit{}, xerrors.Errorf("couldn't unmarshal permit: %v", err)
	}

	pubkey, err := f.pubkeyFactory.PublicKeyOf(ctx, m.PubKey)
	if err != nil {
		return Permit{}, xerrors.Errorf("couldn't decode public key: %v", err)
	}

	signature, err := f.sigFactory.SignatureOf(ctx, m.Signature)
	if err != nil {
		return Permit{}, xerrors.Errorf("couldn't decode signature: %v", err)
	}

	params := Params{
		Name:        m.Name,
		Chain:       m.Chain,
		Contracts:   m.Contracts,
		Permissions: m.Permissions,
	}

	return NewPermit(params, pubkey, signature), nil
}

// contains returns true when the needle is part of the list.
func contains(list []string, needle string) bool {
	for _, value := range list {
		if value == needle {
			return true
		}
	}

	return false
}
