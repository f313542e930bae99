package typed

import (
	"encoding/binary"

	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/prefixed"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"golang.org/x/xerrors"
)

// Entry is a key/value pair returned by a Keymap page.
type Entry[V any] struct {
	Key   []byte
	Value V
}

// Keymap is a collection of typed records with deterministic pagination. It
// maintains its own position index inside the store, so iteration follows
// the insertion order whatever the underlying storage does, and removal
// swaps the last entry into the freed position.
type Keymap[V any] struct {
	namespace []byte
}

// NewKeymap creates a keymap for the given namespace.
func NewKeymap[V any](namespace string) Keymap[V] {
	return Keymap[V]{
		namespace: []byte(namespace),
	}
}

func (m Keymap[V]) valueKey(key []byte) []byte {
	return prefixed.NewPrefixedKey(append(append([]byte{}, m.namespace...), 'v'), key)
}

func (m Keymap[V]) indexKey(pos uint32) []byte {
	buffer := make([]byte, 4)
	binary.BigEndian.PutUint32(buffer, pos)

	return prefixed.NewPrefixedKey(append(append([]byte{}, m.namespace...), 'i'), buffer)
}

func (m Keymap[V]) positionKey(key []byte) []byte {
	return prefixed.NewPrefixedKey(append(append([]byte{}, m.namespace...), 'p'), key)
}

func (m Keymap[V]) lengthKey() []byte {
	return prefixed.NewPrefixedKey(append(append([]byte{}, m.namespace...), 'n'), nil)
}

// Len returns the number of entries in the keymap.
func (m Keymap[V]) Len(read store.Readable) (uint32, error) {
	data, err := read.Get(m.lengthKey())
	if err != nil {
		return 0, xerrors.Errorf("failed to read length: %v", err)
	}

	if data == nil {
		return 0, nil
	}

	return binary.BigEndian.Uint32(data), nil
}

func (m Keymap[V]) setLen(snap store.Snapshot, length uint32) error {
	buffer := make([]byte, 4)
	binary.BigEndian.PutUint32(buffer, length)

	err := snap.Set(m.lengthKey(), buffer)
	if err != nil {
		return xerrors.Errorf("failed to write length: %v", err)
	}

	return nil
}

// Contains returns true when the key is present in the keymap.
func (m Keymap[V]) Contains(read store.Readable, key []byte) (bool, error) {
	data, err := read.Get(m.positionKey(key))
	if err != nil {
		return false, xerrors.Errorf("failed to read position: %v", err)
	}

	return data != nil, nil
}

// Get reads the record of the key if it exists. The boolean return is false
// when the key is absent, which is a valid state and not an error.
func (m Keymap[V]) Get(read store.Readable, ctx serde.Context, key []byte) (V, bool, error) {
	var value V

	data, err := read.Get(m.valueKey(key))
	if err != nil {
		return value, false, xerrors.Errorf("failed to read value: %v", err)
	}

	if data == nil {
		return value, false, nil
	}

	err = ctx.Unmarshal(data, &value)
	if err != nil {
		return value, false, codecError("unmarshal value", err)
	}

	return value, true, nil
}

// Insert writes the record for the key, appending it to the iteration order
// when the key is new and overwriting in place otherwise.
func (m Keymap[V]) Insert(snap store.Snapshot, ctx serde.Context, key []byte, value V) error {
	data, err := ctx.Marshal(value)
	if err != nil {
		return codecError("marshal value", err)
	}

	found, err := m.Contains(snap, key)
	if err != nil {
		return err
	}

	if !found {
		length, err := m.Len(snap)
		if err != nil {
			return err
		}

		err = snap.Set(m.indexKey(length), key)
		if err != nil {
			return xerrors.Errorf("failed to write index: %v", err)
		}

		buffer := make([]byte, 4)
		binary.BigEndian.PutUint32(buffer, length)

		err = snap.Set(m.positionKey(key), buffer)
		if err != nil {
			return xerrors.Errorf("failed to write position: %v", err)
		}

		err = m.setLen(snap, length+1)
		if err != nil {
			return err
		}
	}

	err = snap.Set(m.valueKey(key), data)
	if err != nil {
		return xerrors.Errorf("failed to write value: %v", err)
	}

	return nil
}

// Remove deletes the record of the key if it exists. The last entry of the
// iteration order is swapped into the freed position so that the index stays
// dense.
func (m Keymap[V]) Remove(snap store.Snapshot, key []byte) error {
	posData, err := snap.Get(m.positionKey(key))
	if err != nil {
		return xerrors.Errorf("failed to read position: %v", err)
	}

	if posData == nil {
		return nil
	}

	pos := binary.BigEndian.Uint32(posData)

	length, err := m.Len(snap)
	if err != nil {
		return err
	}

	last := length - 1

	if pos != last {
		lastKey, err := snap.Get(m.indexKey(last))
		if err != nil {
			return xerrors.Errorf("failed to read index: %v", err)
		}

		err = snap.Set(m.indexKey(pos), lastKey)
		if err != nil {
			return xerrors.Errorf("failed to write index: %v", err)
		}

		err = snap.Set(m.positionKey(lastKey), posData)
		if err != nil {
			return xerrors.Errorf("failed to write position: %v", err)
		}
	}

	err = snap.Delete(m.indexKey(last))
	if err != nil {
		return xerrors.Errorf("failed to delete index: %v", err)
	}

	err = snap.Delete(m.positionKey(key))
	if err != nil {
		return xerrors.Errorf("failed to delete position: %v", err)
	}

	err = snap.Delete(m.valueKey(key))
	if err != nil {
		return xerrors.Errorf("failed to delete value: %v", err)
	}

	return m.setLen(snap, last)
}

// Paging returns the page of entries starting at page*size, in insertion
// order. A page beyond the end returns an empty slice.
func (m Keymap[V]) Paging(read store.Readable, ctx serde.Context, page, size uint32) ([]Entry[V], error) {
	length, err := m.Len(read)
	if err != nil {
		return nil, err
	}

	// The offset is computed in 64 bits so that a page far beyond the end
	// does not wrap around and leak entries from the start of the map.
	start := uint64(page) * uint64(size)
	if start >= uint64(length) || size == 0 {
		return []Entry[V]{}, nil
	}

	end := start + uint64(size)
	if end > uint64(length) {
		end = uint64(length)
	}

	entries := make([]Entry[V], 0, end-start)

	for pos := uint32(start); pos < uint32(end); pos++ {
		key, err := read.Get(m.indexKey(pos))
		if err != nil {
			return nil, xerrors.Errorf("failed to read index: %v", err)
		}

		value, found, err := m.Get(read, ctx, key)
		if err != nil {
			return nil, err
		}

		if !found {
			return nil, xerrors.Errorf("index out of sync at position %d", pos)
		}

		entries = append(entries, Entry[V]{Key: key, Value: value})
	}

	return entries, nil
}
