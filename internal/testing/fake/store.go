package fake

import "go.dedis.ch/custody/core/store"

// InMemorySnapshot is a fake implementation of a store snapshot backed by a
// map. Each operation can be armed with its own error so that a test can make
// only the reads, only the writes, or only the deletions fail.
//
// - implements store.Snapshot
type InMemorySnapshot struct {
	store.Snapshot

	entries   map[string][]byte
	ErrRead   error
	ErrWrite  error
	ErrDelete error
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		entries: make(map[string][]byte),
	}
}

// NewBadSnapshot creates a new empty snapshot that always returns an error.
func NewBadSnapshot() *InMemorySnapshot {
	snap := NewSnapshot()
	snap.ErrRead = fakeErr
	snap.ErrWrite = fakeErr
	snap.ErrDelete = fakeErr

	return snap
}

// Get implements store.Snapshot.
func (snap *InMemorySnapshot) Get(key []byte) ([]byte, error) {
	return snap.entries[string(key)], snap.ErrRead
}

// Set implements store.Snapshot.
func (snap *InMemorySnapshot) Set(key, value []byte) error {
	snap.entries[string(key)] = value

	return snap.ErrWrite
}

// Delete implements store.Snapshot.
func (snap *InMemorySnapshot) Delete(key []byte) error {
	delete(snap.entries, string(key))

	return snap.ErrDelete
}
