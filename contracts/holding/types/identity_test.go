package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/internal/testing/fake"
	"go.dedis.ch/custody/serde"
)

func init() {
	RegisterIdentityFormat(fake.GoodFormat, fake.Format{Msg: Account{}})
	RegisterIdentityFormat(fake.BadFormat, fake.NewBadFormat())
	RegisterIdentityFormat(serde.Format("BAD_TYPE"), fake.Format{Msg: fake.Message{}})
}

func TestAccount_New(t *testing.T) {
	key := bytes.Repeat([]byte{0xab}, IdentitySize)

	account, err := NewAccount(key)
	require.NoError(t, err)
	require.Equal(t, key, account.GetKey())

	_, err = NewAccount([]byte{1})
	require.EqualError(t, err, "expect 32 bytes, got 1")
}

func TestAccount_NewFromPublicKey(t *testing.T) {
	signer := ed25519.NewSigner()

	account, err := NewAccountFromPublicKey(signer.GetPublicKey())
	require.NoError(t, err)
	require.Len(t, account.GetKey(), IdentitySize)

	_, err = NewAccountFromPublicKey(fake.PublicKey{})
	require.EqualError(t, err, "expect 32 bytes, got 2")

	_, err = NewAccountFromPublicKey(fake.NewBadPublicKey())
	require.EqualError(t, err, fake.Err("couldn't marshal public key"))
}

func TestAccount_Equal(t *testing.T) {
	key := bytes.Repeat([]byte{1}, IdentitySize)

	account, err := NewAccount(key)
	require.NoError(t, err)

	same, err := NewAccount(key)
	require.NoError(t, err)
	require.True(t, account.Equal(same))

	other, err := NewAccount(bytes.Repeat([]byte{2}, IdentitySize))
	require.NoError(t, err)
	require.False(t, account.Equal(other))

	contract, err := NewContract(key)
	require.NoError(t, err)
	require.False(t, account.Equal(contract))
	require.False(t, account.Equal(nil))
}

func TestAccount_Fingerprint(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, IdentitySize)

	account, err := NewAccount(key)
	require.NoError(t, err)

	buffer := new(bytes.Buffer)
	err = account.Fingerprint(buffer)
	require.NoError(t, err)
	require.Equal(t, append([]byte{0}, key...), buffer.Bytes())

	err = account.Fingerprint(fake.NewBadHash())
	require.EqualError(t, err, fake.Err("couldn't write tag"))

	err = account.Fingerprint(fake.NewBadHashWithDelay(1))
	require.EqualError(t, err, fake.Err("couldn't write key"))
}

func TestAccount_Serialize(t *testing.T) {
	account := Account{}

	data, err := account.Serialize(fake.NewContext())
	require.NoError(t, err)
	require.Equal(t, fake.GetFakeFormatValue(), data)

	_, err = account.Serialize(fake.NewBadContext())
	require.EqualError(t, err, fake.Err("couldn't encode identity"))
}

func TestAccount_String(t *testing.T) {
	account, err := NewAccount(bytes.Repeat([]byte{0xab}, IdentitySize))
	require.NoError(t, err)

	require.Equal(t, "Account:abababababababab", account.String())
}

func TestContract_New(t *testing.T) {
	id := bytes.Repeat([]byte{0xcd}, IdentitySize)

	contract, err := NewContract(id)
	require.NoError(t, err)
	require.Equal(t, id, contract.GetID())

	_, err = NewContract(nil)
	require.EqualError(t, err, "expect 32 bytes, got 0")
}

func TestContract_Equal(t *testing.T) {
	id := bytes.Repeat([]byte{3}, IdentitySize)

	contract, err := NewContract(id)
	require.NoError(t, err)

	same, err := NewContract(id)
	require.NoError(t, err)
	require.True(t, contract.Equal(same))

	other, err := NewContract(bytes.Repeat([]byte{4}, IdentitySize))
	require.NoError(t, err)
	require.False(t, contract.Equal(other))

	account, err := NewAccount(id)
	require.NoError(t, err)
	require.False(t, contract.Equal(account))
}

func TestContract_Fingerprint(t *testing.T) {
	id := bytes.Repeat([]byte{0x22}, IdentitySize)

	contract, err := NewContract(id)
	require.NoError(t, err)

	buffer := new(bytes.Buffer)
	err = contract.Fingerprint(buffer)
	require.NoError(t, err)
	require.Equal(t, append([]byte{1}, id...), buffer.Bytes())

	err = contract.Fingerprint(fake.NewBadHash())
	require.EqualError(t, err, fake.Err("couldn't write tag"))

	err = contract.Fingerprint(fake.NewBadHashWithDelay(1))
	require.EqualError(t, err, fake.Err("couldn't write id"))
}

func TestContract_Serialize(t *testing.T) {
	contract := Contract{}

	data, err := contract.Serialize(fake.NewContext())
	require.NoError(t, err)
	require.Equal(t, fake.GetFakeFormatValue(), data)

	_, err = contract.Serialize(fake.NewBadContext())
	require.EqualError(t, err, fake.Err("couldn't encode identity"))
}

func TestContract_String(t *testing.T) {
	contract, err := NewContract(bytes.Repeat([]byte{0xcd}, IdentitySize))
	require.NoError(t, err)

	require.Equal(t, "Contract:cdcdcdcdcdcdcdcd", contract.String())
}

func TestIdentityFactory_Deserialize(t *testing.T) {
	factory := IdentityFactory{}

	msg, err := factory.Deserialize(fake.NewContext(), nil)
	require.NoError(t, err)
	require.Equal(t, Account{}, msg)

	_, err = factory.Deserialize(fake.NewBadContext(), nil)
	require.EqualError(t, err, fake.Err("couldn't decode identity"))

	_, err = factory.Deserialize(fake.NewContextWithFormat("BAD_TYPE"), nil)
	require.EqualError(t, err, "invalid identity of type 'fake.Message'")
}
