// Package mem implements in-memory storages.
//
// The package provides a map-backed snapshot, and a staging snapshot that
// buffers the writes applied on top of a readable parent. The staged writes
// are applied to a destination store only when asked for, so an execution
// that fails can simply drop the staging snapshot and leave the destination
// untouched.
//
// Documentation Last Review: 25.08.2026
package mem

import (
	"sort"

	"go.dedis.ch/custody/core/store"
	"golang.org/x/xerrors"
)

// Snapshot is an in-memory implementation of a store snapshot.
//
// - implements store.Snapshot
type Snapshot struct {
	values map[string][]byte
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		values: make(map[string][]byte),
	}
}

// Get implements store.Readable. It returns the value associated to the key,
// or nil if it is not set.
func (snap *Snapshot) Get(key []byte) ([]byte, error) {
	return snap.values[string(key)], nil
}

// Set implements store.Writable. It sets the value for the key.
func (snap *Snapshot) Set(key, value []byte) error {
	snap.values[string(key)] = value

	return nil
}

// Delete implements store.Writable. It removes the key from the snapshot.
func (snap *Snapshot) Delete(key []byte) error {
	delete(snap.values, string(key))

	return nil
}

// Staging is a snapshot that buffers the writes applied on top of a readable
// parent. Reads look up the staged values first and fall back to the parent.
//
// - implements store.Snapshot
type Staging struct {
	parent store.Readable

	updates map[string][]byte
	deleted map[string]struct{}
}

// NewStaging creates a new staging snapshot on top of the parent.
func NewStaging(parent store.Readable) *Staging {
	return &Staging{
		parent:  parent,
		updates: make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}
}

// Get implements store.Readable. It returns the staged value if one exists,
// otherwise the value of the parent.
func (s *Staging) Get(key []byte) ([]byte, error) {
	str := string(key)

	if _, found := s.deleted[str]; found {
		return nil, nil
	}

	if value, found := s.updates[str]; found {
		return value, nil
	}

	value, err := s.parent.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("parent failed: %v", err)
	}

	return value, nil
}

// Set implements store.Writable. It stages the value for the key.
func (s *Staging) Set(key, value []byte) error {
	str := string(key)

	delete(s.deleted, str)
	s.updates[str] = value

	return nil
}

// Delete implements store.Writable. It stages the removal of the key.
func (s *Staging) Delete(key []byte) error {
	str := string(key)

	delete(s.updates, str)
	s.deleted[str] = struct{}{}

	return nil
}

// WriteTo applies the staged writes to the store. The keys are written in
// their natural order so that the result is deterministic.
func (s *Staging) WriteTo(out store.Writable) error {
	for _, key := range sortedKeysOf(s.deleted) {
		err := out.Delete([]byte(key))
		if err != nil {
			return xerrors.Errorf("couldn't delete '%x': %v", key, err)
		}
	}

	keys := make([]string, 0, len(s.updates))
	for key := range s.updates {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		err := out.Set([]byte(key), s.updates[key])
		if err != nil {
			return xerrors.Errorf("couldn't set '%x': %v", key, err)
		}
	}

	return nil
}

func sortedKeysOf(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
