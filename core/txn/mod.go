// Package txn defines the abstraction of transactions.
//
// A transaction is the input of the contract executions. It is uniquely
// identifiable via a digest and it carries the nonce that orders the
// transactions of a single identity. The identity that created the
// transaction is available so that a contract can base its decisions on it.
//
// The manager helps to create transactions as the nonce needs to match the
// state of the store for the transaction to be accepted.
//
// Documentation Last Review: 25.08.2026
//
package txn

import (
	"go.dedis.ch/custody/core/access"
	"go.dedis.ch/custody/serde"
)

// Transaction is what triggers a contract execution by passing it as part of
// the input.
type Transaction interface {
	serde.Message
	serde.Fingerprinter

	// GetID returns the unique identifier for the transaction.
	GetID() []byte

	// GetNonce returns the nonce of the transaction which corresponds to the
	// sequence number of a unique identity.
	GetNonce() uint64

	// GetIdentity returns the identity that created the transaction.
	GetIdentity() access.Identity

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte
}

// Factory is the definition of a factory to deserialize transaction
// messages.
type Factory interface {
	serde.Factory

	TransactionOf(serde.Context, []byte) (Transaction, error)
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}

// Manager is a manager to create transactions. It fills the fields that
// depend on the state of the store, like the nonce of the identity.
type Manager interface {
	Make(args ...Arg) (Transaction, error)

	Sync() error
}
