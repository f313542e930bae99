package kv

import (
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
)

// bucketSnapshot adapts a bucket to the store.Snapshot interface so that a
// contract can be executed inside a database transaction.
//
// - implements store.Snapshot
type bucketSnapshot struct {
	bucket Bucket
}

// NewSnapshot returns a snapshot backed by the given bucket. It is only
// valid for the lifetime of the transaction the bucket belongs to.
func NewSnapshot(bucket Bucket) store.Snapshot {
	return bucketSnapshot{bucket: bucket}
}

// Get implements store.Readable. It returns nil if the key does not exist.
func (s bucketSnapshot) Get(key []byte) ([]byte, error) {
	return s.bucket.Get(key), nil
}

// Set implements store.Writable.
func (s bucketSnapshot) Set(key, value []byte) error {
	return s.bucket.Set(key, value)
}

// Delete implements store.Writable.
func (s bucketSnapshot) Delete(key []byte) error {
	return s.bucket.Delete(key)
}
