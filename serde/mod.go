// Package serde defines the primitives to serialize and deserialize the
// messages of the module.
//
// A message implementation serializes itself to any of the supported formats
// by looking up the format engine registered for the context it is given. A
// factory does the reverse and instantiates the message from raw data. Both
// sides stay agnostic of the actual encoding so that a format can be added
// without touching the data models.
//
// Documentation Last Review: 25.08.2026
package serde

import (
	"io"
)

// Message is the interface that a data model should implement to be
// serialized into any of the supported formats.
type Message interface {
	// Serialize returns the bytes of the message according to the format of
	// the context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface to implement to instantiate a data model from raw
// bytes.
type Factory interface {
	// Deserialize returns the message instantiated from the data according to
	// the format of the context.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// Fingerprinter is the interface to implement to expose a deterministic
// fingerprint of a data model, so that it can be fed to a hash function.
type Fingerprinter interface {
	// Fingerprint writes itself in a deterministic way to the writer.
	Fingerprint(writer io.Writer) error
}

// Format is the identifier of a serialization format.
type Format string

// FormatJSON is the identifier of the JSON format.
const FormatJSON Format = "JSON"

// FormatEngine is the interface to implement to encode and decode a specific
// message type in a specific format.
type FormatEngine interface {
	// Encode returns the bytes of the message encoded in the format.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message decoded from the data.
	Decode(ctx Context, data []byte) (Message, error)
}
