package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/custody/core/txn"
	"go.dedis.ch/custody/core/txn/signed"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/internal/testing/fake"
	"go.dedis.ch/custody/serde"
)

func TestTxFormat_Encode(t *testing.T) {
	format := txFormat{}

	ctx := fake.NewContext()

	tx := newTx(t, 1, fake.PublicKey{}, signed.WithArg("holding:command", []byte("GET")))

	data, err := format.Encode(ctx, tx)
	require.NoError(t, err)
	require.Equal(t,
		`{"Nonce":1,"Args":{"holding:command":"R0VU"},"PublicKey":{},"Signature":{}}`,
		string(data))

	_, err = format.Encode(ctx, fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")

	_, err = format.Encode(ctx, &signed.Transaction{})
	require.EqualError(t, err, "signature is missing")

	badTx := newTx(t, 0, fake.PublicKey{}, signed.WithSignature(fake.NewBadSignature()))
	_, err = format.Encode(ctx, badTx)
	require.EqualError(t, err, fake.Err("failed to encode signature"))

	_, err = format.Encode(fake.NewBadContext(), tx)
	require.EqualError(t, err, fake.Err("failed to marshal"))

	tx = newTx(t, 0, badPublicKey{})
	_, err = format.Encode(fake.NewBadContextWithDelay(1), tx)
	require.EqualError(t, err, fake.Err("failed to encode public key"))
}

func TestTxFormat_Decode(t *testing.T) {
	format := txFormat{}

	ctx := fake.NewContext()
	ctx = serde.WithFactory(ctx, signed.PublicKeyFac{}, fake.PublicKeyFactory{})
	ctx = serde.WithFactory(ctx, signed.SignatureFac{}, fake.SignatureFactory{})

	msg, err := format.Decode(ctx, []byte(`{"Nonce":2,"Args":{"holding:key":"ZGVhZGJlZWY="}}`))
	require.NoError(t, err)
	expected := newTx(t, 2, fake.PublicKey{}, signed.WithArg("holding:key", []byte("deadbeef")))
	require.Equal(t, expected, msg)

	_, err = format.Decode(fake.NewBadContext(), []byte(`{}`))
	require.EqualError(t, err, fake.Err("failed to unmarshal"))

	format.hashFactory = fake.NewHashFactory(fake.NewBadHash())
	_, err = format.Decode(ctx, []byte(`{}`))
	require.EqualError(t, err,
		fake.Err("failed to create tx: couldn't fingerprint tx: couldn't write nonce"))

	badCtx := serde.WithFactory(ctx, signed.PublicKeyFac{}, nil)
	_, err = format.Decode(badCtx, []byte(`{}`))
	require.EqualError(t, err, "public key: invalid factory '<nil>'")

	badCtx = serde.WithFactory(ctx, signed.PublicKeyFac{}, fake.NewBadPublicKeyFactory())
	_, err = format.Decode(badCtx, []byte(`{}`))
	require.EqualError(t, err, fake.Err("public key: malformed"))

	badCtx = serde.WithFactory(ctx, signed.SignatureFac{}, nil)
	_, err = format.Decode(badCtx, []byte(`{}`))
	require.EqualError(t, err, "signature: invalid factory '<nil>'")

	badCtx = serde.WithFactory(ctx, signed.SignatureFac{}, fake.NewBadSignatureFactory())
	_, err = format.Decode(badCtx, []byte(`{}`))
	require.EqualError(t, err, fake.Err("signature: malformed"))
}

// -----------------------------------------------------------------------------
// Utility functions

func newTx(t *testing.T, nonce uint64,
	pk crypto.PublicKey, opts ...signed.TransactionOption) txn.Transaction {

	opts = append([]signed.TransactionOption{signed.WithSignature(fake.Signature{})}, opts...)

	tx, err := signed.NewTransaction(nonce, pk, opts...)
	require.NoError(t, err)

	return tx
}

type badPublicKey struct {
	crypto.PublicKey
}

func (badPublicKey) Serialize(serde.Context) ([]byte, error) {
	return nil, fake.GetError()
}

func (badPublicKey) MarshalBinary() ([]byte, error) {
	return []byte{}, nil
}

func (badPublicKey) Verify([]byte, crypto.Signature) error {
	return nil
}
