package typed

import (
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/prefixed"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"golang.org/x/xerrors"
)

// Item is a single typed record stored under a fixed namespaced key.
type Item[T any] struct {
	key []byte
}

// NewItem creates an item for the given namespace.
func NewItem[T any](namespace string) Item[T] {
	return Item[T]{
		key: prefixed.NewPrefixedKey([]byte(namespace), nil),
	}
}

// Save serializes the value and writes it under the item key.
func (i Item[T]) Save(snap store.Snapshot, ctx serde.Context, value T) error {
	data, err := ctx.Marshal(value)
	if err != nil {
		return codecError("marshal item", err)
	}

	err = snap.Set(i.key, data)
	if err != nil {
		return xerrors.Errorf("failed to set item: %v", err)
	}

	return nil
}

// Load reads the record if it exists. The boolean return is false when no
// record is stored, which is a valid state and not an error.
func (i Item[T]) Load(read store.Readable, ctx serde.Context) (T, bool, error) {
	var value T

	data, err := read.Get(i.key)
	if err != nil {
		return value, false, xerrors.Errorf("failed to read item: %v", err)
	}

	if data == nil {
		return value, false, nil
	}

	err = ctx.Unmarshal(data, &value)
	if err != nil {
		return value, false, codecError("unmarshal item", err)
	}

	return value, true, nil
}
