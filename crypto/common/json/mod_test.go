package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/custody/crypto/common"
	"go.dedis.ch/custody/internal/testing/fake"
	"go.dedis.ch/custody/serde"
)

func TestAlgoFormat_Encode(t *testing.T) {
	format := algoFormat{}
	ctx := serde.NewContext(fake.ContextEngine{})

	algo := common.NewAlgorithm("fake")

	data, err := format.Encode(ctx, algo)
	require.NoError(t, err)
	require.Equal(t, `{"Name":"fake"}`, string(data))

	_, err = format.Encode(ctx, fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")

	_, err = format.Encode(fake.NewBadContext(), algo)
	require.EqualError(t, err, fake.Err("couldn't marshal"))
}

func TestAlgoFormat_Decode(t *testing.T) {
	format := algoFormat{}
	ctx := serde.NewContext(fake.ContextEngine{})

	// The other fields of the message are ignored.
	algo, err := format.Decode(ctx, []byte(`{"Name":"fake","Data":"3q0="}`))
	require.NoError(t, err)
	require.Equal(t, common.NewAlgorithm("fake"), algo)

	_, err = format.Decode(fake.NewBadContext(), []byte(`{}`))
	require.EqualError(t, err, fake.Err("couldn't deserialize algorithm"))
}
