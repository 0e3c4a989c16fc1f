// Package prefixed implements store wrappers that isolate the keys of an
// instance under a prefix.
//
// The prefix and the key are hashed together with their lengths so that two
// different splits of the same bytes can never collide. A contract writing
// under its own prefix therefore cannot reach the keys of another instance.
//
// Documentation Last Review: 25.08.2026
package prefixed

import (
	"encoding/binary"

	"go.dedis.ch/custody/core/store"
	"go.dedis.ch/custody/crypto"
)

type readable struct {
	store.Readable
	prefix []byte
}

type writable struct {
	store.Writable
	prefix []byte
}

type snapshot struct {
	*writable
	*readable
}

// NewSnapshot wraps the snapshot so that every read and write goes through
// the prefix.
func NewSnapshot(prefix string, snap store.Snapshot) store.Snapshot {
	p := []byte(prefix)

	return &snapshot{
		&writable{snap, p},
		&readable{snap, p},
	}
}

// NewReadable wraps the readable so that every read goes through the prefix.
func NewReadable(prefix string, r store.Readable) store.Readable {
	return &readable{r, []byte(prefix)}
}

// Get implements store.Readable. It reads the value stored under the prefixed
// key.
func (s *readable) Get(key []byte) ([]byte, error) {
	return s.Readable.Get(NewPrefixedKey(s.prefix, key))
}

// Set implements store.Writable. It writes the value under the prefixed key.
func (s *writable) Set(key []byte, value []byte) error {
	return s.Writable.Set(NewPrefixedKey(s.prefix, key), value)
}

// Delete implements store.Writable. It deletes the value under the prefixed
// key.
func (s *writable) Delete(key []byte) error {
	return s.Writable.Delete(NewPrefixedKey(s.prefix, key))
}

// NewPrefixedKey derives the 256 bits key of the prefix and the base key. It
// is exported so that tests can compute the location of a value.
func NewPrefixedKey(prefix, key []byte) []byte {
	h := crypto.NewHashFactory(crypto.Sha256).New()

	length := []byte{0, 0}
	binary.LittleEndian.PutUint16(length, uint16(len(prefix)))

	h.Write(length)
	h.Write(prefix)

	length = []byte{0, 0}
	binary.LittleEndian.PutUint16(length, uint16(len(key)))

	h.Write(length)
	h.Write(key)

	return h.Sum(nil)
}
