// Package common implements the factories of the crypto primitives to allow
// the support of multiple algorithms over the same communication channel. A
// public key factory and a signature factory are available. The supported
// algorithms are the followings:
// - Ed25519 (Schnorr)
//
// Documentation Last Review: 25.08.2026
package common

import (
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/serde"
	"go.dedis.ch/custody/serde/registry"
	"golang.org/x/xerrors"
)

var algFormats = registry.NewSimpleRegistry()

// RegisterAlgorithmFormat registers the engine for the provided format.
func RegisterAlgorithmFormat(format serde.Format, engine serde.FormatEngine) {
	algFormats.Register(format, engine)
}

// Algorithm contains the information about a signature algorithm so that the
// factories can dispatch the deserialization.
//
// - implements serde.Message
type Algorithm struct {
	name string
}

// NewAlgorithm returns a new algorithm from the provided name.
func NewAlgorithm(name string) Algorithm {
	return Algorithm{name: name}
}

// GetName returns the name of the algorithm.
func (alg Algorithm) GetName() string {
	return alg.name
}

// Serialize implements serde.Message. It returns the serialized data of the
// algorithm.
func (alg Algorithm) Serialize(ctx serde.Context) ([]byte, error) {
	format := algFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, alg)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode algorithm: %v", err)
	}

	return data, nil
}

// PublicKeyFactory is a public key factory for commonly known algorithms.
//
// - implements crypto.PublicKeyFactory
type PublicKeyFactory struct {
	factories map[string]crypto.PublicKeyFactory
}

// NewPublicKeyFactory returns a new instance of the common public key factory.
func NewPublicKeyFactory() PublicKeyFactory {
	factory := PublicKeyFactory{
		factories: make(map[string]crypto.PublicKeyFactory),
	}

	factory.RegisterAlgorithm(ed25519.Algorithm, ed25519.NewPublicKeyFactory())

	return factory
}

// RegisterAlgorithm registers the factory for the algorithm. It will override
// an already existing key.
func (f PublicKeyFactory) RegisterAlgorithm(algo string, factory crypto.PublicKeyFactory) {
	f.factories[algo] = factory
}

// Deserialize implements serde.Factory. It looks up the format and returns the
// public key of the data if appropriate, otherwise an error.
func (f PublicKeyFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.PublicKeyOf(ctx, data)
}

// PublicKeyOf implements crypto.PublicKeyFactory. It returns the public key of
// the data if appropriate, otherwise an error.
func (f PublicKeyFactory) PublicKeyOf(ctx serde.Context, data []byte) (crypto.PublicKey, error) {
	format := algFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode algorithm: %v", err)
	}

	alg, ok := msg.(Algorithm)
	if !ok {
		return nil, xerrors.Errorf("invalid message of type '%T'", msg)
	}

	factory := f.factories[alg.name]
	if factory == nil {
		return nil, xerrors.Errorf("unknown algorithm '%s'", alg.name)
	}

	return factory.PublicKeyOf(ctx, data)
}

// FromBytes implements crypto.PublicKeyFactory. The common factory does not
// support raw keys as it cannot determine the algorithm, therefore it always
// returns an error.
func (f PublicKeyFactory) FromBytes(data []byte) (crypto.PublicKey, error) {
	return nil, xerrors.New("common factory cannot decode raw keys")
}

// SignatureFactory is a signature factory for commonly known algorithms.
//
// - implements crypto.SignatureFactory
type SignatureFactory struct {
	factories map[string]crypto.SignatureFactory
}

// NewSignatureFactory returns a new instance of the common signature factory.
func NewSignatureFactory() SignatureFactory {
	factory := SignatureFactory{
		factories: make(map[string]crypto.SignatureFactory),
	}

	factory.RegisterAlgorithm(ed25519.Algorithm, ed25519.NewSignatureFactory())

	return factory
}

// RegisterAlgorithm registers the factory for the algorithm. It will override
// an already existing key.
func (f SignatureFactory) RegisterAlgorithm(algo string, factory crypto.SignatureFactory) {
	f.factories[algo] = factory
}

// Deserialize implements serde.Factory. It looks up the format and returns the
// signature of the data if appropriate, otherwise an error.
func (f SignatureFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.SignatureOf(ctx, data)
}

// SignatureOf implements crypto.SignatureFactory. It returns the signature of
// the data if appropriate, otherwise an error.
func (f SignatureFactory) SignatureOf(ctx serde.Context, data []byte) (crypto.Signature, error) {
	format := algFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode algorithm: %v", err)
	}

	alg, ok := msg.(Algorithm)
	if !ok {
		return nil, xerrors.Errorf("invalid message of type '%T'", msg)
	}

	factory := f.factories[alg.name]
	if factory == nil {
		return nil, xerrors.Errorf("unknown algorithm '%s'", alg.name)
	}

	return factory.SignatureOf(ctx, data)
}
