package native

import (
	"encoding/binary"
	"fmt"

	"go.dedis.ch/custody/core/execution"
	"go.dedis.ch/custody/core/store"
	"go.dedis.ch/custody/core/store/mem"
	"go.dedis.ch/custody/core/txn/signed"
	"go.dedis.ch/custody/crypto/ed25519"
)

func ExampleService_Execute() {
	srvc := NewExecution()
	srvc.Set("example", exampleContract{})

	snap := mem.NewSnapshot()
	signer := ed25519.NewSigner()

	increment := make([]byte, 8)
	binary.LittleEndian.PutUint64(increment, 5)

	opts := []signed.TransactionOption{
		signed.WithArg("increment", increment),
		signed.WithArg(ContractArg, []byte("example")),
	}

	tx, err := signed.NewTransaction(0, signer.GetPublicKey(), opts...)
	if err != nil {
		panic("failed to create transaction: " + err.Error())
	}

	step := execution.Step{
		Current: tx,
	}

	for i := 0; i < 2; i++ {
		res, err := srvc.Execute(snap, step)
		if err != nil {
			panic("failed to execute: " + err.Error())
		}

		if res.Accepted {
			fmt.Println("accepted")
		}
	}

	value, err := snap.Get([]byte("counter"))
	if err != nil {
		panic("store failed: " + err.Error())
	}

	fmt.Println(binary.LittleEndian.Uint64(value))

	// Output: accepted
	// accepted
	// 10
}

// exampleContract is an example contract that reads a counter value in the
// store and increases it with the increment in the transaction.
//
// - implements native.Contract
type exampleContract struct{}

// Execute implements native.Contract. It increases the counter with the
// increment in the transaction and returns the new counter value.
func (exampleContract) Execute(snap store.Snapshot, step execution.Step) ([]byte, error) {
	value, err := snap.Get([]byte("counter"))
	if err != nil {
		return nil, err
	}

	counter := uint64(0)
	if len(value) == 8 {
		counter = binary.LittleEndian.Uint64(value)
	}

	incr := binary.LittleEndian.Uint64(step.Current.GetArg("increment"))

	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, counter+incr)

	err = snap.Set([]byte("counter"), buffer)
	if err != nil {
		return nil, err
	}

	return buffer, nil
}

// UID implements native.Contract.
func (exampleContract) UID() string {
	return "EXMP"
}
