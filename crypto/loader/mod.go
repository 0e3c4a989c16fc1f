// Package loader defines an abstraction to load a private key from a
// persistent storage. The key is read from the storage when it exists,
// otherwise a generator provides a new one that is stored for the next time.
//
// Documentation Last Review: 25.08.2026
//
package loader

// Generator is the interface to implement to generate a key.
type Generator interface {
	Generate() ([]byte, error)
}

// Loader is an abstraction to load a key from a storage. It allows for instance
// to load a private key from the disk, or generate it if it doesn't exist.
type Loader interface {
	// LoadOrCreate tries to load the key and returns it if found, otherwise it
	// generates a new one using the generator and stores it.
	LoadOrCreate(Generator) ([]byte, error)

	// Load loads the key and returns an error when it is missing.
	Load() ([]byte, error)
}
