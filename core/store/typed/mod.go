// Package typed implements typed records on top of the raw byte store. An
// Item holds a single record under a fixed key, a Keymap holds a collection
// of records with deterministic, insertion-ordered pagination.
//
// Records are serialized with the serde context of the caller. The host
// storage stays opaque: it only ever sees namespaced byte keys and encoded
// byte values.
package typed

import (
	"golang.org/x/xerrors"
)

// ErrCodec is the sentinel error wrapping any serialization or
// deserialization failure of a typed record. It is distinct from a missing
// record, which is not an error.
var ErrCodec = xerrors.New("codec failure")

func codecError(action string, err error) error {
	return xerrors.Errorf("%s: %v: %w", action, err, ErrCodec)
}
