package serde_test

import (
	"errors"
	"fmt"

	"go.dedis.ch/custody/serde"
	"go.dedis.ch/custody/serde/json"
	"go.dedis.ch/custody/serde/registry"
)

func ExampleMessage_Serialize_json() {
	// Register a JSON format engine for the message type.
	holdingRegistry.Register(serde.FormatJSON, holdingJSONFormat{})

	msg := holdingMessage{
		key:   "deadbeef",
		owner: "alice",
	}

	ctx := json.NewContext()

	data, err := msg.Serialize(ctx)
	if err != nil {
		panic("serialization failed: " + err.Error())
	}

	fmt.Println(string(data))

	// Output: {"key":"deadbeef","owner":"alice"}
}

func ExampleFactory_Deserialize_json() {
	ctx := json.NewContext()

	data := []byte(`{"key":"deadbeef","owner":"alice"}`)

	factory := holdingFactory{}

	msg, err := factory.Deserialize(ctx, data)
	if err != nil {
		panic("deserialization failed: " + err.Error())
	}

	fmt.Printf("%+v", msg)

	// Output: {key:deadbeef owner:alice}
}

var holdingRegistry = registry.NewSimpleRegistry()

// holdingMessage is the data model of an example holding.
//
// - implements serde.Message
type holdingMessage struct {
	key   string
	owner string
}

// Serialize implements serde.Message. It looks up the format of the context
// and encodes the holding.
func (m holdingMessage) Serialize(ctx serde.Context) ([]byte, error) {
	format := holdingRegistry.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, m)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// holdingFactory is an example of a message factory.
//
// - implements serde.Factory
type holdingFactory struct{}

// Deserialize implements serde.Factory. It populates the holding message.
func (holdingFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := holdingRegistry.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	m, ok := msg.(holdingMessage)
	if !ok {
		return nil, errors.New("invalid message")
	}

	return m, nil
}

// holdingMessageJSON is the JSON form of a holding message.
type holdingMessageJSON struct {
	Key   string `json:"key"`
	Owner string `json:"owner"`
}

// holdingJSONFormat is an example of a format to serialize a holding message
// using a JSON encoding.
//
// - implements serde.FormatEngine
type holdingJSONFormat struct{}

// Encode implements serde.FormatEngine. It populates a message that complies
// the JSON encoding and marshal it.
func (holdingJSONFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	holding, ok := msg.(holdingMessage)
	if !ok {
		return nil, errors.New("unsupported message")
	}

	m := holdingMessageJSON{
		Key:   holding.key,
		Owner: holding.owner,
	}

	return ctx.Marshal(m)
}

// Decode implements serde.FormatEngine. It reads the JSON form back into a
// holding message.
func (holdingJSONFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var m holdingMessageJSON
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, err
	}

	msg := holdingMessage{
		key:   m.Key,
		owner: m.Owner,
	}

	return msg, nil
}
