package types

import (
	"encoding/binary"
	"math"

	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/serde"
	"go.dedis.ch/custody/serde/registry"
	"golang.org/x/xerrors"
)

// ClaimTag is the operation tag bound into every update claim.
const ClaimTag = "change"

var signatureFormats = registry.NewSimpleRegistry()

// RegisterSignatureFormat registers the engine for the provided format.
func RegisterSignatureFormat(format serde.Format, engine serde.FormatEngine) {
	signatureFormats.Register(format, engine)
}

// Signature directs how the caller identity of a signed update is derived.
// It is a closed sum: either the invoker variant, which defers to the
// transaction signer, or a proof carrying its own cryptographic evidence.
type Signature interface {
	serde.Message

	// Equal returns true when the other object is the same signature.
	Equal(other interface{}) bool
}

// Invoker is the signature variant that defers to the transaction signer.
// It requires no extra proof.
//
// - implements types.Signature
type Invoker struct{}

// Equal implements types.Signature.
func (i Invoker) Equal(other interface{}) bool {
	_, ok := other.(Invoker)

	return ok
}

// Serialize implements serde.Message.
func (i Invoker) Serialize(ctx serde.Context) ([]byte, error) {
	format := signatureFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, i)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signature: %v", err)
	}

	return data, nil
}

// Proof is the signature variant that carries an Ed25519 public key and a
// Schnorr signature over the claim digest of the update.
//
// - implements types.Signature
type Proof struct {
	pubkey crypto.PublicKey
	sig    crypto.Signature
}

// NewProof creates a proof from a public key and a signature over the claim
// digest of the update.
func NewProof(pubkey crypto.PublicKey, sig crypto.Signature) Proof {
	return Proof{
		pubkey: pubkey,
		sig:    sig,
	}
}

// GetPublicKey returns the public key the proof asserts.
func (p Proof) GetPublicKey() crypto.PublicKey {
	return p.pubkey
}

// GetSignature returns the signature of the proof.
func (p Proof) GetSignature() crypto.Signature {
	return p.sig
}

// GetIdentity returns the account identity the proof asserts.
func (p Proof) GetIdentity() (Account, error) {
	return NewAccountFromPublicKey(p.pubkey)
}

// Verify returns nil when the proof signature matches the digest for the
// asserted public key.
func (p Proof) Verify(digest []byte) error {
	return p.pubkey.Verify(digest, p.sig)
}

// Equal implements types.Signature.
func (p Proof) Equal(other interface{}) bool {
	proof, ok := other.(Proof)
	if !ok {
		return false
	}

	return proof.pubkey.Equal(p.pubkey) && proof.sig.Equal(p.sig)
}

// Serialize implements serde.Message.
func (p Proof) Serialize(ctx serde.Context) ([]byte, error) {
	format := signatureFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, p)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signature: %v", err)
	}

	return data, nil
}

// SignatureFactory is the factory for signature messages.
//
// - implements serde.Factory
type SignatureFactory struct{}

// Deserialize implements serde.Factory.
func (f SignatureFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.SignatureOf(ctx, data)
}

// SignatureOf returns the signature of the data if appropriate, otherwise
// an error.
func (f SignatureFactory) SignatureOf(ctx serde.Context, data []byte) (Signature, error) {
	format := signatureFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode signature: %v", err)
	}

	signature, ok := msg.(Signature)
	if !ok {
		return nil, xerrors.Errorf("invalid signature of type '%T'", msg)
	}

	return signature, nil
}

// NewClaim computes the digest binding an update to its arguments. The
// digest covers the operation tag, the key and the new value, in that
// order, each chunk length-prefixed.
func NewClaim(key []byte, value Identity, fac crypto.HashFactory) ([]byte, error) {
	if len(key) > math.MaxUint16 {
		return nil, xerrors.Errorf("key of %d bytes is too long", len(key))
	}

	fingerprint, err := fingerprintOf(value)
	if err != nil {
		return nil, err
	}

	h := fac.New()

	for _, chunk := range [][]byte{[]byte(ClaimTag), key, fingerprint} {
		size := make([]byte, 2)
		binary.LittleEndian.PutUint16(size, uint16(len(chunk)))

		_, err := h.Write(size)
		if err != nil {
			return nil, xerrors.Errorf("couldn't write size: %v", err)
		}

		_, err = h.Write(chunk)
		if err != nil {
			return nil, xerrors.Errorf("couldn't write chunk: %v", err)
		}
	}

	return h.Sum(nil), nil
}
