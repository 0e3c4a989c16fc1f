// Package types implements the messages of the holding contract.
//
// An identity is the unit of ownership stored under a key. A signature
// directs how the caller identity of a signed update is derived and proven.
// Both are closed sums with an explicit format for each variant, registered
// by the contracts/holding/json package.
//
// Documentation Last Review: 25.08.2026
//
package types

import (
	"bytes"
	"fmt"
	"io"

	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/serde"
	"go.dedis.ch/custody/serde/registry"
	"golang.org/x/xerrors"
)

// IdentitySize is the number of bytes of an identity payload.
const IdentitySize = 32

var identityFormats = registry.NewSimpleRegistry()

// RegisterIdentityFormat registers the engine for the provided format.
func RegisterIdentityFormat(format serde.Format, engine serde.FormatEngine) {
	identityFormats.Register(format, engine)
}

// Identity designates either an account or a contract instance. It is the
// unit of ownership and authorization stored under a key.
//
// - implements access.Identity
type Identity interface {
	serde.Message
	serde.Fingerprinter

	// Equal returns true when the other object designates the same identity.
	Equal(other interface{}) bool
}

// Account is the identity of a key pair holder. It wraps the canonical
// 32 bytes encoding of an Ed25519 public key.
//
// - implements types.Identity
type Account struct {
	key [IdentitySize]byte
}

// NewAccount creates an account identity from the canonical encoding of a
// public key.
func NewAccount(key []byte) (Account, error) {
	account := Account{}

	if len(key) != IdentitySize {
		return account, xerrors.Errorf("expect %d bytes, got %d", IdentitySize, len(key))
	}

	copy(account.key[:], key)

	return account, nil
}

// NewAccountFromPublicKey creates the account identity of a public key.
func NewAccountFromPublicKey(pubkey crypto.PublicKey) (Account, error) {
	buffer, err := pubkey.MarshalBinary()
	if err != nil {
		return Account{}, xerrors.Errorf("couldn't marshal public key: %v", err)
	}

	account, err := NewAccount(buffer)
	if err != nil {
		return Account{}, err
	}

	return account, nil
}

// GetKey returns the canonical encoding of the account's public key.
func (a Account) GetKey() []byte {
	return a.key[:]
}

// Equal implements types.Identity.
func (a Account) Equal(other interface{}) bool {
	account, ok := other.(Account)

	return ok && account.key == a.key
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic
// binary representation of the account.
func (a Account) Fingerprint(w io.Writer) error {
	_, err := w.Write([]byte{0})
	if err != nil {
		return xerrors.Errorf("couldn't write tag: %v", err)
	}

	_, err = w.Write(a.key[:])
	if err != nil {
		return xerrors.Errorf("couldn't write key: %v", err)
	}

	return nil
}

// Serialize implements serde.Message.
func (a Account) Serialize(ctx serde.Context) ([]byte, error) {
	format := identityFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, a)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode identity: %v", err)
	}

	return data, nil
}

// String implements fmt.Stringer.
func (a Account) String() string {
	return fmt.Sprintf("Account:%x", a.key[:8])
}

// Contract is the identity of a deployed contract instance.
//
// - implements types.Identity
type Contract struct {
	id [IdentitySize]byte
}

// NewContract creates a contract identity from an instance identifier.
func NewContract(id []byte) (Contract, error) {
	contract := Contract{}

	if len(id) != IdentitySize {
		return contract, xerrors.Errorf("expect %d bytes, got %d", IdentitySize, len(id))
	}

	copy(contract.id[:], id)

	return contract, nil
}

// GetID returns the instance identifier of the contract.
func (c Contract) GetID() []byte {
	return c.id[:]
}

// Equal implements types.Identity.
func (c Contract) Equal(other interface{}) bool {
	contract, ok := other.(Contract)

	return ok && contract.id == c.id
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic
// binary representation of the contract identity.
func (c Contract) Fingerprint(w io.Writer) error {
	_, err := w.Write([]byte{1})
	if err != nil {
		return xerrors.Errorf("couldn't write tag: %v", err)
	}

	_, err = w.Write(c.id[:])
	if err != nil {
		return xerrors.Errorf("couldn't write id: %v", err)
	}

	return nil
}

// Serialize implements serde.Message.
func (c Contract) Serialize(ctx serde.Context) ([]byte, error) {
	format := identityFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, c)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode identity: %v", err)
	}

	return data, nil
}

// String implements fmt.Stringer.
func (c Contract) String() string {
	return fmt.Sprintf("Contract:%x", c.id[:8])
}

// IdentityFactory is the factory for identity messages.
//
// - implements serde.Factory
type IdentityFactory struct{}

// Deserialize implements serde.Factory.
func (f IdentityFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.IdentityOf(ctx, data)
}

// IdentityOf returns the identity of the data if appropriate, otherwise an
// error.
func (f IdentityFactory) IdentityOf(ctx serde.Context, data []byte) (Identity, error) {
	format := identityFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode identity: %v", err)
	}

	identity, ok := msg.(Identity)
	if !ok {
		return nil, xerrors.Errorf("invalid identity of type '%T'", msg)
	}

	return identity, nil
}

// fingerprintOf returns the deterministic binary representation of the
// identity.
func fingerprintOf(identity Identity) ([]byte, error) {
	buffer := new(bytes.Buffer)

	err := identity.Fingerprint(buffer)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint identity: %v", err)
	}

	return buffer.Bytes(), nil
}
