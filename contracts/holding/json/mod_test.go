package json

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/custody/contracts/holding/types"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/internal/testing/fake"
)

func TestIdentityFormat_Encode(t *testing.T) {
	format := identityFormat{}

	account, err := types.NewAccount(bytes.Repeat([]byte{0xab}, 32))
	require.NoError(t, err)

	data, err := format.Encode(fake.NewContext(), account)
	require.NoError(t, err)

	expected := fmt.Sprintf(
		`{"object":{"vec":[{"symbol":"Account"},{"object":{"accountId":{"publicKeyTypeEd25519":"%x"}}}]}}`,
		account.GetKey())
	require.Equal(t, expected, string(data))

	contract, err := types.NewContract(bytes.Repeat([]byte{0xcd}, 32))
	require.NoError(t, err)

	data, err = format.Encode(fake.NewContext(), contract)
	require.NoError(t, err)

	expected = fmt.Sprintf(
		`{"object":{"vec":[{"symbol":"Contract"},{"bytes":"%x"}]}}`, contract.GetID())
	require.Equal(t, expected, string(data))

	_, err = format.Encode(fake.NewContext(), fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")
}

func TestIdentityFormat_Decode(t *testing.T) {
	format := identityFormat{}

	key := bytes.Repeat([]byte{0xab}, 32)
	data := fmt.Sprintf(
		`{"object":{"vec":[{"symbol":"Account"},{"object":{"accountId":{"publicKeyTypeEd25519":"%x"}}}]}}`,
		key)

	msg, err := format.Decode(fake.NewContext(), []byte(data))
	require.NoError(t, err)

	account, err := types.NewAccount(key)
	require.NoError(t, err)
	require.Equal(t, account, msg)

	id := bytes.Repeat([]byte{0xcd}, 32)
	data = fmt.Sprintf(`{"object":{"vec":[{"symbol":"Contract"},{"bytes":"%x"}]}}`, id)

	msg, err = format.Decode(fake.NewContext(), []byte(data))
	require.NoError(t, err)

	contract, err := types.NewContract(id)
	require.NoError(t, err)
	require.Equal(t, contract, msg)
}

func TestIdentityFormat_Decode_Failures(t *testing.T) {
	format := identityFormat{}

	_, err := format.Decode(fake.NewContext(), []byte(`{`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't decode value: ")

	_, err = format.Decode(fake.NewContext(), []byte(`{"u64":1}`))
	require.EqualError(t, err, "value of type 'wire.U64' is not a vector")

	_, err = format.Decode(fake.NewContext(), []byte(`{"object":{"vec":[]}}`))
	require.EqualError(t, err, "couldn't read variant: empty vector")

	_, err = format.Decode(fake.NewContext(), []byte(`{"object":{"vec":[{"symbol":"Nope"}]}}`))
	require.EqualError(t, err, "unknown variant 'Nope'")

	_, err = format.Decode(fake.NewContext(), []byte(`{"object":{"vec":[{"symbol":"Account"}]}}`))
	require.EqualError(t, err, "expect 1 value, got 0")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Account"},{"u64":1}]}}`))
	require.EqualError(t, err, "payload of type 'wire.U64' is not an account")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Account"},{"object":{"accountId":{"publicKeyTypeEd25519":"abab"}}}]}}`))
	require.EqualError(t, err, "couldn't create account: expect 32 bytes, got 2")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Contract"},{"symbol":"x"}]}}`))
	require.EqualError(t, err, "payload of type 'wire.Symbol' is not bytes")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Contract"},{"bytes":"ab"}]}}`))
	require.EqualError(t, err, "couldn't create contract: expect 32 bytes, got 1")
}

func TestSignatureFormat_Encode(t *testing.T) {
	format := signatureFormat{}

	data, err := format.Encode(fake.NewContext(), types.Invoker{})
	require.NoError(t, err)
	require.Equal(t, `{"object":{"vec":[{"symbol":"Invoker"}]}}`, string(data))

	proof := types.NewProof(fake.PublicKey{}, fake.Signature{})

	data, err = format.Encode(fake.NewContext(), proof)
	require.NoError(t, err)
	require.Equal(t,
		`{"object":{"vec":[{"symbol":"Ed25519"},{"bytes":"504b"},{"bytes":"fe"}]}}`,
		string(data))

	proof = types.NewProof(fake.NewBadPublicKey(), fake.Signature{})
	_, err = format.Encode(fake.NewContext(), proof)
	require.EqualError(t, err, fake.Err("couldn't marshal public key"))

	proof = types.NewProof(fake.PublicKey{}, fake.NewBadSignature())
	_, err = format.Encode(fake.NewContext(), proof)
	require.EqualError(t, err, fake.Err("couldn't marshal signature"))

	_, err = format.Encode(fake.NewContext(), fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")
}

func TestSignatureFormat_Decode(t *testing.T) {
	format := signatureFormat{}

	msg, err := format.Decode(fake.NewContext(), []byte(`{"object":{"vec":[{"symbol":"Invoker"}]}}`))
	require.NoError(t, err)
	require.Equal(t, types.Invoker{}, msg)

	signer := ed25519.NewSigner()

	sig, err := signer.Sign([]byte{0xaa})
	require.NoError(t, err)

	proof := types.NewProof(signer.GetPublicKey(), sig)

	data, err := format.Encode(fake.NewContext(), proof)
	require.NoError(t, err)

	msg, err = format.Decode(fake.NewContext(), data)
	require.NoError(t, err)
	require.True(t, proof.Equal(msg))
}

func TestSignatureFormat_Decode_Failures(t *testing.T) {
	format := signatureFormat{}

	_, err := format.Decode(fake.NewContext(), []byte(`{`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't decode value: ")

	_, err = format.Decode(fake.NewContext(), []byte(`{"object":{"vec":[{"symbol":"Nope"}]}}`))
	require.EqualError(t, err, "unknown variant 'Nope'")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Invoker"},{"u64":1}]}}`))
	require.EqualError(t, err, "expect 0 value, got 1")

	_, err = format.Decode(fake.NewContext(), []byte(`{"object":{"vec":[{"symbol":"Ed25519"}]}}`))
	require.EqualError(t, err, "expect 2 values, got 0")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Ed25519"},{"symbol":"x"},{"bytes":"fe"}]}}`))
	require.EqualError(t, err, "payload of type 'wire.Symbol' is not bytes")

	_, err = format.Decode(fake.NewContext(),
		[]byte(`{"object":{"vec":[{"symbol":"Ed25519"},{"bytes":"ab"},{"bytes":"fe"}]}}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't create public key: ")

	pubkey, err := ed25519.NewSigner().GetPublicKey().MarshalBinary()
	require.NoError(t, err)

	data := fmt.Sprintf(
		`{"object":{"vec":[{"symbol":"Ed25519"},{"bytes":"%x"},{"symbol":"x"}]}}`, pubkey)
	_, err = format.Decode(fake.NewContext(), []byte(data))
	require.EqualError(t, err, "payload of type 'wire.Symbol' is not bytes")
}
