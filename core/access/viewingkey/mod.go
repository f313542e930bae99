// Package viewingkey implements the credential registry for the long-lived
// query secrets of the contract.
//
// A principal registers a secret once and presents it with every private
// query. Only a salted argon2id digest of the secret is ever stored, and
// verification runs in constant time whether a record exists or not, so the
// timing of a rejection does not reveal whether an account is registered.
package viewingkey

import (
	"crypto/subtle"
	"encoding/base64"
	"time"

	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/typed"
	"github.com/TriviumNode/scrt-flex-multisig/crypto"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"golang.org/x/crypto/argon2"
	"golang.org/x/xerrors"
)

// KeyPrefix is prepended to the keys derived by Create so that a generated
// key is recognizable as such.
const KeyPrefix = "api_key_"

const recordNamespace = "flexmultisig/viewing-key/"

// Params are the argon2id parameters of a record. They are stored with the
// record so that they can evolve without invalidating existing keys.
type Params struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
	KeyLen  uint32 `json:"key_len"`
}

// DefaultParams are the parameters used for new records.
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
}

// Record is the stored form of a viewing key. The secret itself never
// touches the store.
type Record struct {
	Hash      []byte    `json:"hash"`
	Salt      []byte    `json:"salt"`
	Params    Params    `json:"params"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry manages the viewing-key records. There is at most one active
// record per principal: setting a key overwrites the previous record, and a
// record is never physically deleted.
//
// - implements access.KeyChecker
type Registry struct {
	params Params
}

// NewRegistry creates a registry with the default argon2id parameters.
func NewRegistry() Registry {
	return Registry{
		params: DefaultParams,
	}
}

func recordItem(viewer access.Address) typed.Item[Record] {
	return typed.NewItem[Record](recordNamespace + string(viewer))
}

// salt derives the record salt for a principal. The salt only needs to be
// unique per principal, not secret, so it can be deterministic: contract
// execution has no private randomness of its own.
func (r Registry) salt(viewer access.Address) []byte {
	h := crypto.NewHashFactory(crypto.Sha256).New()
	h.Write([]byte(recordNamespace))
	h.Write(viewer.Bytes())

	return h.Sum(nil)[:16]
}

func (r Registry) digest(key string, salt []byte, params Params) []byte {
	return argon2.IDKey([]byte(key), salt, params.Time, params.Memory,
		params.Threads, params.KeyLen)
}

// Set stores the salted digest of the secret as the sole record of the
// viewer, overwriting any previous record. Overwriting is the rotation
// primitive and always succeeds.
func (r Registry) Set(snap store.Snapshot, ctx serde.Context,
	viewer access.Address, key string, now time.Time) error {

	salt := r.salt(viewer)

	record := Record{
		Hash:      r.digest(key, salt, r.params),
		Salt:      salt,
		Params:    r.params,
		CreatedAt: now,
	}

	err := recordItem(viewer).Save(snap, ctx, record)
	if err != nil {
		return xerrors.Errorf("failed to save record: %v", err)
	}

	return nil
}

// Create derives a fresh key from the caller entropy and the seed provided
// by the host environment, registers it and returns it. The plaintext key is
// returned exactly once.
func (r Registry) Create(snap store.Snapshot, ctx serde.Context,
	viewer access.Address, entropy, seed []byte, now time.Time) (string, error) {

	h := crypto.NewHashFactory(crypto.Sha256).New()
	h.Write(seed)
	h.Write(viewer.Bytes())
	h.Write(entropy)

	key := KeyPrefix + base64.StdEncoding.EncodeToString(h.Sum(nil))

	err := r.Set(snap, ctx, viewer, key, now)
	if err != nil {
		return "", xerrors.Errorf("failed to set created key: %v", err)
	}

	return key, nil
}

// Check implements access.KeyChecker. It recomputes the digest of the
// candidate and compares it to the stored record in constant time. A missing
// record is checked against a placeholder so that the two rejection causes
// are indistinguishable, in result and in timing.
func (r Registry) Check(read store.Readable, ctx serde.Context,
	viewer access.Address, key string) bool {

	record, found, err := recordItem(viewer).Load(read, ctx)

	valid := found && err == nil
	if !valid {
		record = Record{
			Hash:   make([]byte, r.params.KeyLen),
			Salt:   r.salt(viewer),
			Params: r.params,
		}
	}

	sum := r.digest(key, record.Salt, record.Params)

	match := subtle.ConstantTimeCompare(sum, record.Hash) == 1

	return match && valid
}
