// This file contains the JSON formats of the holding contract messages,
// which follow the tagged-variant encoding of the wire package.
//
// Documentation Last Review: 25.08.2026
//

package json

import (
	"go.dedis.ch/custody/contracts/holding/types"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/serde"
	"go.dedis.ch/custody/wire"
	"golang.org/x/xerrors"
)

// Variant names of the identity and signature sums.
const (
	accountVariant  = wire.Symbol("Account")
	contractVariant = wire.Symbol("Contract")
	invokerVariant  = wire.Symbol("Invoker")
	proofVariant    = wire.Symbol("Ed25519")
)

func init() {
	types.RegisterIdentityFormat(serde.FormatJSON, identityFormat{})
	types.RegisterSignatureFormat(serde.FormatJSON, signatureFormat{})
}

// identityFormat is the JSON format engine for identities.
//
// - implements serde.FormatEngine
type identityFormat struct{}

// Encode implements serde.FormatEngine. It returns the tagged-variant JSON
// of the identity if appropriate, otherwise an error.
func (identityFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var value wire.Vec

	switch identity := msg.(type) {
	case types.Account:
		value = wire.Vec{accountVariant, wire.AccountID(identity.GetKey())}
	case types.Contract:
		value = wire.Vec{contractVariant, wire.Bytes(identity.GetID())}
	default:
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	data, err := wire.Encode(value)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode variant: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the identity of the JSON
// data if appropriate, otherwise an error.
func (identityFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	sym, payload, err := decodeVariant(data)
	if err != nil {
		return nil, err
	}

	switch sym {
	case accountVariant:
		if len(payload) != 1 {
			return nil, xerrors.Errorf("expect 1 value, got %d", len(payload))
		}

		account, ok := payload[0].(wire.AccountID)
		if !ok {
			return nil, xerrors.Errorf("payload of type '%T' is not an account", payload[0])
		}

		identity, err := types.NewAccount(account)
		if err != nil {
			return nil, xerrors.Errorf("couldn't create account: %v", err)
		}

		return identity, nil

	case contractVariant:
		if len(payload) != 1 {
			return nil, xerrors.Errorf("expect 1 value, got %d", len(payload))
		}

		id, ok := payload[0].(wire.Bytes)
		if !ok {
			return nil, xerrors.Errorf("payload of type '%T' is not bytes", payload[0])
		}

		identity, err := types.NewContract(id)
		if err != nil {
			return nil, xerrors.Errorf("couldn't create contract: %v", err)
		}

		return identity, nil

	default:
		return nil, xerrors.Errorf("unknown variant '%s'", sym)
	}
}

// signatureFormat is the JSON format engine for signatures.
//
// - implements serde.FormatEngine
type signatureFormat struct{}

// Encode implements serde.FormatEngine. It returns the tagged-variant JSON
// of the signature if appropriate, otherwise an error.
func (signatureFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var value wire.Vec

	switch signature := msg.(type) {
	case types.Invoker:
		value = wire.Vec{invokerVariant}

	case types.Proof:
		pubkey, err := signature.GetPublicKey().MarshalBinary()
		if err != nil {
			return nil, xerrors.Errorf("couldn't marshal public key: %v", err)
		}

		sig, err := signature.GetSignature().MarshalBinary()
		if err != nil {
			return nil, xerrors.Errorf("couldn't marshal signature: %v", err)
		}

		value = wire.Vec{proofVariant, wire.Bytes(pubkey), wire.Bytes(sig)}

	default:
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	data, err := wire.Encode(value)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode variant: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the signature of the
// JSON data if appropriate, otherwise an error.
func (signatureFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	sym, payload, err := decodeVariant(data)
	if err != nil {
		return nil, err
	}

	switch sym {
	case invokerVariant:
		if len(payload) != 0 {
			return nil, xerrors.Errorf("expect 0 value, got %d", len(payload))
		}

		return types.Invoker{}, nil

	case proofVariant:
		if len(payload) != 2 {
			return nil, xerrors.Errorf("expect 2 values, got %d", len(payload))
		}

		raw, ok := payload[0].(wire.Bytes)
		if !ok {
			return nil, xerrors.Errorf("payload of type '%T' is not bytes", payload[0])
		}

		pubkey, err := ed25519.NewPublicKey(raw)
		if err != nil {
			return nil, xerrors.Errorf("couldn't create public key: %v", err)
		}

		raw, ok = payload[1].(wire.Bytes)
		if !ok {
			return nil, xerrors.Errorf("payload of type '%T' is not bytes", payload[1])
		}

		return types.NewProof(pubkey, ed25519.NewSignature(raw)), nil

	default:
		return nil, xerrors.Errorf("unknown variant '%s'", sym)
	}
}

func decodeVariant(data []byte) (wire.Symbol, wire.Vec, error) {
	value, err := wire.Decode(data)
	if err != nil {
		return "", nil, xerrors.Errorf("couldn't decode value: %v", err)
	}

	vec, ok := value.(wire.Vec)
	if !ok {
		return "", nil, xerrors.Errorf("value of type '%T' is not a vector", value)
	}

	sym, payload, err := vec.Variant()
	if err != nil {
		return "", nil, xerrors.Errorf("couldn't read variant: %v", err)
	}

	return sym, payload, nil
}
