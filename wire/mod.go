// Package wire implements the self-describing value encoding used at the
// invocation boundary.
//
// Arguments and return values travel as JSON where every value declares its
// own kind: a symbol, a byte sequence, an unsigned or signed integer, or an
// object wrapping either a vector of values or an account identifier. Enum
// values follow a fixed convention on top of the vector kind: a unit variant
// V encodes as a vector of the single symbol V, a tuple variant V(x) as a
// vector of the symbol V followed by the encoded x.
//
// The set of kinds is closed and the encoder/decoder pair is written by
// hand so that the format stays stable and auditable.
//
// Documentation Last Review: 25.08.2026
//
package wire

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/xerrors"
)

// MaxSymbolLen is the maximum number of characters of a symbol.
const MaxSymbolLen = 10

// Value is one element of the encoding. Implementations are the closed set
// of kinds a value can have.
type Value interface {
	json.Marshaler

	isValue()
}

// Symbol is a short tag used to name enum variants and functions.
//
// - implements wire.Value
type Symbol string

// Bytes is an opaque byte sequence, hex-encoded on the wire.
//
// - implements wire.Value
type Bytes []byte

// U64 is an unsigned 64-bit integer.
//
// - implements wire.Value
type U64 uint64

// I64 is a signed 64-bit integer.
//
// - implements wire.Value
type I64 int64

// Vec is an ordered list of values.
//
// - implements wire.Value
type Vec []Value

// AccountID identifies an account by the raw bytes of its Ed25519 public
// key, hex-encoded on the wire.
//
// - implements wire.Value
type AccountID []byte

func (Symbol) isValue()    {}
func (Bytes) isValue()     {}
func (U64) isValue()       {}
func (I64) isValue()       {}
func (Vec) isValue()       {}
func (AccountID) isValue() {}

// valueJSON is the JSON message of a value. Exactly one field is set.
type valueJSON struct {
	Symbol *string     `json:"symbol,omitempty"`
	Bytes  *string     `json:"bytes,omitempty"`
	U64    *uint64     `json:"u64,omitempty"`
	I64    *int64      `json:"i64,omitempty"`
	Object *objectJSON `json:"object,omitempty"`
}

// objectJSON is the JSON message of the object kind. Exactly one field is
// set.
type objectJSON struct {
	Vec       *[]json.RawMessage `json:"vec,omitempty"`
	AccountID *accountIDJSON     `json:"accountId,omitempty"`
}

// accountIDJSON is the JSON message of an account identifier.
type accountIDJSON struct {
	PublicKeyTypeEd25519 string `json:"publicKeyTypeEd25519"`
}

// Validate returns an error when the symbol does not fit the constraints of
// the format, which allows at most MaxSymbolLen characters from the set
// [a-zA-Z0-9_].
func (s Symbol) Validate() error {
	if len(s) == 0 || len(s) > MaxSymbolLen {
		return xerrors.Errorf("symbol '%s' length not in [1, %d]", string(s), MaxSymbolLen)
	}

	for _, r := range s {
		ok := r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')

		if !ok {
			return xerrors.Errorf("symbol '%s' contains invalid character '%c'", string(s), r)
		}
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Symbol) MarshalJSON() ([]byte, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	value := string(s)

	return json.Marshal(valueJSON{Symbol: &value})
}

// MarshalJSON implements json.Marshaler.
func (b Bytes) MarshalJSON() ([]byte, error) {
	value := hex.EncodeToString(b)

	return json.Marshal(valueJSON{Bytes: &value})
}

// MarshalJSON implements json.Marshaler.
func (u U64) MarshalJSON() ([]byte, error) {
	value := uint64(u)

	return json.Marshal(valueJSON{U64: &value})
}

// MarshalJSON implements json.Marshaler.
func (i I64) MarshalJSON() ([]byte, error) {
	value := int64(i)

	return json.Marshal(valueJSON{I64: &value})
}

// MarshalJSON implements json.Marshaler.
func (v Vec) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, len(v))
	for i, value := range v {
		raw, err := Encode(value)
		if err != nil {
			return nil, xerrors.Errorf("index %d: %v", i, err)
		}

		raws[i] = raw
	}

	return json.Marshal(valueJSON{Object: &objectJSON{Vec: &raws}})
}

// Variant reads the vector as an enum value. It returns the leading symbol
// and the remaining payload values.
func (v Vec) Variant() (Symbol, Vec, error) {
	if len(v) == 0 {
		return "", nil, xerrors.New("empty vector")
	}

	sym, ok := v[0].(Symbol)
	if !ok {
		return "", nil, xerrors.Errorf("leading value of type '%T' is not a symbol", v[0])
	}

	return sym, v[1:], nil
}

// MarshalJSON implements json.Marshaler.
func (id AccountID) MarshalJSON() ([]byte, error) {
	account := accountIDJSON{
		PublicKeyTypeEd25519: hex.EncodeToString(id),
	}

	return json.Marshal(valueJSON{Object: &objectJSON{AccountID: &account}})
}

// Encode returns the JSON encoding of the value.
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return nil, xerrors.New("value is nil")
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode value: %v", err)
	}

	return data, nil
}

// Decode returns the value of the JSON data, or an error when the data does
// not match any kind of the encoding.
func Decode(data []byte) (Value, error) {
	m := valueJSON{}
	err := json.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal value: %v", err)
	}

	switch {
	case m.Symbol != nil:
		s := Symbol(*m.Symbol)

		err = s.Validate()
		if err != nil {
			return nil, err
		}

		return s, nil

	case m.Bytes != nil:
		b, err := hex.DecodeString(*m.Bytes)
		if err != nil {
			return nil, xerrors.Errorf("couldn't decode bytes: %v", err)
		}

		return Bytes(b), nil

	case m.U64 != nil:
		return U64(*m.U64), nil

	case m.I64 != nil:
		return I64(*m.I64), nil

	case m.Object != nil:
		return decodeObject(m.Object)

	default:
		return nil, xerrors.Errorf("unknown value in '%s'", data)
	}
}

func decodeObject(m *objectJSON) (Value, error) {
	switch {
	case m.Vec != nil:
		vec := make(Vec, len(*m.Vec))
		for i, raw := range *m.Vec {
			value, err := Decode(raw)
			if err != nil {
				return nil, xerrors.Errorf("index %d: %v", i, err)
			}

			vec[i] = value
		}

		return vec, nil

	case m.AccountID != nil:
		key, err := hex.DecodeString(m.AccountID.PublicKeyTypeEd25519)
		if err != nil {
			return nil, xerrors.Errorf("couldn't decode account: %v", err)
		}

		return AccountID(key), nil

	default:
		return nil, xerrors.New("unknown object value")
	}
}
