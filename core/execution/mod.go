// Package execution defines the service to execute a step in a validation
// batch.
//
// Documentation Last Review: 25.08.2026
//
package execution

import (
	"go.dedis.ch/custody/core/store"
	"go.dedis.ch/custody/core/txn"
)

// Step is the smallest unit of execution. It contains the transaction to
// process and the previous transactions of the same call, if any.
type Step struct {
	Previous []txn.Transaction
	Current  txn.Transaction
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a chance to the execution to explain why a transaction
	// has failed.
	Message string

	// Value is the output returned by the contract when the transaction is
	// accepted.
	Value []byte
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the
	// result of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
