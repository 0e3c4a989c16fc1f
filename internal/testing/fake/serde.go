package fake

import (
	"io"

	"go.dedis.ch/custody/serde"
)

const (
	// GoodFormat should register working formats.
	GoodFormat = serde.Format("FakeGood")

	// BadFormat should register failing formats.
	BadFormat = serde.Format("FakeBad")
)

// Message is a fake implementation of a serde message.
//
// - implements serde.Message
type Message struct {
	Digest []byte
}

// Fingerprint implements serde.Fingerprinter.
func (m Message) Fingerprint(w io.Writer) error {
	w.Write(m.Digest)

	return nil
}

// Serialize implements serde.Message.
func (m Message) Serialize(ctx serde.Context) ([]byte, error) {
	return ctx.Marshal(struct{}{})
}

// MessageFactory is a fake implementation of a serde factory.
//
// - implements serde.Factory
type MessageFactory struct {
	err error
}

// NewBadMessageFactory returns a fake message factory that returns an error
// when appropriate.
func NewBadMessageFactory() MessageFactory {
	return MessageFactory{err: fakeErr}
}

// Deserialize implements serde.Factory.
func (f MessageFactory) Deserialize(serde.Context, []byte) (serde.Message, error) {
	return Message{}, f.err
}

// GetFakeFormatValue returns the data returned by the encoding function of a
// fake format.
func GetFakeFormatValue() []byte {
	return []byte(`fake format`)
}

// Format is a fake format engine implementation.
//
// - implements serde.FormatEngine
type Format struct {
	Msg  serde.Message
	err  error
	Call *Call
}

// NewBadFormat returns a new format engine that produces errors.
func NewBadFormat() Format {
	return Format{err: fakeErr}
}

// Encode implements serde.FormatEngine.
func (f Format) Encode(ctx serde.Context, m serde.Message) ([]byte, error) {
	if f.Call != nil {
		f.Call.Add(ctx, m)
	}

	return GetFakeFormatValue(), f.err
}

// Decode implements serde.FormatEngine.
func (f Format) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	if f.Call != nil {
		f.Call.Add(ctx, data)
	}

	return f.Msg, f.err
}
