package json

import (
	"go.dedis.ch/custody/crypto/common"
	"go.dedis.ch/custody/serde"
	"golang.org/x/xerrors"
)

func init() {
	common.RegisterAlgorithmFormat(serde.FormatJSON, algoFormat{})
}

// Algorithm is a common JSON message to identify which signature algorithm a
// message has been produced with.
type Algorithm struct {
	Name string
}

// PublicKey is the common JSON message for a public key. It contains the
// algorithm name and the data to deserialize.
type PublicKey struct {
	Algorithm
	Data []byte
}

// Signature is the common JSON message for a signature. It contains the
// algorithm name and the data to deserialize.
type Signature struct {
	Algorithm
	Data []byte
}

// algoFormat is the engine to encode and decode the algorithm part of a
// message in JSON format.
//
// - implements serde.FormatEngine
type algoFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON representation of
// an algorithm message.
func (f algoFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	algo, ok := msg.(common.Algorithm)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m := Algorithm{
		Name: algo.GetName(),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It only reads the algorithm name of
// the data so that the common factories can dispatch to the concrete factory.
func (f algoFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := Algorithm{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't deserialize algorithm: %v", err)
	}

	return common.NewAlgorithm(m.Name), nil
}
