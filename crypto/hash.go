// This file provides the factories for the hash functions used to fingerprint
// claims and transactions.
//
// Documentation Last Review: 25.08.2026
//

package crypto

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/sha3"
)

// HashAlgorithm identifies one of the supported hash functions.
type HashAlgorithm int

const (
	// Sha256 is the SHA-2 function with a 256 bits digest.
	Sha256 HashAlgorithm = iota

	// Sha3_224 is the SHA-3 function with a 224 bits digest.
	Sha3_224
)

// hashFactory is a hash factory built on the SHA family.
//
// - implements crypto.HashFactory
type hashFactory struct {
	algorithm HashAlgorithm
}

// NewSha256Factory returns a factory of SHA-256 hashes.
// Deprecated: use NewHashFactory instead.
func NewSha256Factory() hashFactory {
	return hashFactory{Sha256}
}

// NewHashFactory returns a factory of hashes for the given algorithm.
func NewHashFactory(a HashAlgorithm) hashFactory {
	return hashFactory{a}
}

// New implements crypto.HashFactory. It returns a new Hash instance.
func (f hashFactory) New() hash.Hash {
	switch f.algorithm {
	case Sha256:
		return sha256.New()
	case Sha3_224:
		return sha3.New224()
	default:
		panic("unknown hash type")
	}
}
