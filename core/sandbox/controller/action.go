// This file implements the actions of the controller
//
// Documentation Last Review: 25.08.2026
//

package controller

import (
	"fmt"
	"path/filepath"

	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/core/execution/native"
	"go.dedis.ch/custody/core/sandbox"
	"go.dedis.ch/custody/core/txn"
	"go.dedis.ch/custody/core/txn/signed"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/crypto/loader"
	"golang.org/x/xerrors"
)

// getManager is the function called when we need a transaction manager. It
// allows us to use a different manager for the tests.
var getManager = func(signer crypto.Signer, s signed.Client) txn.Manager {
	return signed.NewManager(signer, s)
}

// deployAction describes an action to deploy an instance of a contract.
//
// - implements node.ActionTemplate
type deployAction struct{}

// Execute implements node.ActionTemplate. It creates a transaction deploying
// an instance of the contract and prints the identifier of the instance.
func (deployAction) Execute(ctx node.Context) error {
	var srvc *sandbox.Service
	err := ctx.Injector.Resolve(&srvc)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	manager, err := makeManager(ctx, srvc)
	if err != nil {
		return err
	}

	tx, err := manager.Make(txn.Arg{
		Key:   sandbox.DeployArg,
		Value: []byte(ctx.Flags.String("contract")),
	})
	if err != nil {
		return xerrors.Errorf("creating transaction: %v", err)
	}

	_, err = srvc.Process(tx)
	if err != nil {
		return xerrors.Errorf("transaction refused: %v", err)
	}

	fmt.Fprintf(ctx.Out, "instance %x deployed\n", tx.GetID())

	return nil
}

// invokeAction describes an action to invoke a command on a deployed
// instance.
//
// - implements node.ActionTemplate
type invokeAction struct{}

// Execute implements node.ActionTemplate. It creates a transaction with the
// key-value pairs of the arguments and prints the value returned by the
// contract.
func (invokeAction) Execute(ctx node.Context) error {
	var srvc *sandbox.Service
	err := ctx.Injector.Resolve(&srvc)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	manager, err := makeManager(ctx, srvc)
	if err != nil {
		return err
	}

	args, err := getArgs(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get args: %v", err)
	}

	args = append([]txn.Arg{
		{Key: sandbox.InstanceArg, Value: []byte(ctx.Flags.String("instance"))},
		{Key: native.ContractArg, Value: []byte(ctx.Flags.String("contract"))},
	}, args...)

	tx, err := manager.Make(args...)
	if err != nil {
		return xerrors.Errorf("creating transaction: %v", err)
	}

	res, err := srvc.Process(tx)
	if err != nil {
		return xerrors.Errorf("transaction refused: %v", err)
	}

	if !res.Accepted {
		fmt.Fprintf(ctx.Out, "transaction rejected: %s\n", res.Message)

		return nil
	}

	if len(res.Value) > 0 {
		fmt.Fprintf(ctx.Out, "%s\n", res.Value)
	} else {
		fmt.Fprintln(ctx.Out, "transaction accepted")
	}

	return nil
}

// nonceAction describes an action to read the nonce of an identity.
//
// - implements node.ActionTemplate
type nonceAction struct{}

// Execute implements node.ActionTemplate. It prints the next nonce the
// service expects from the signer identity.
func (nonceAction) Execute(ctx node.Context) error {
	var srvc *sandbox.Service
	err := ctx.Injector.Resolve(&srvc)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	signer, err := getSigner(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get signer: %v", err)
	}

	nonce, err := srvc.GetNonce(signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("failed to get nonce: %v", err)
	}

	fmt.Fprintf(ctx.Out, "%d\n", nonce)

	return nil
}

// makeManager returns a transaction manager signing with the signer of the
// flags, synchronized with the nonce the service expects.
func makeManager(ctx node.Context, client signed.Client) (txn.Manager, error) {
	signer, err := getSigner(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to get signer: %v", err)
	}

	manager := getManager(signer, client)

	err = manager.Sync()
	if err != nil {
		return nil, xerrors.Errorf("failed to sync manager: %v", err)
	}

	return manager, nil
}

// getArgs extracts and parses arguments from the context.
func getArgs(ctx node.Context) ([]txn.Arg, error) {
	inArgs := ctx.Flags.StringSlice("args")
	if len(inArgs)%2 != 0 {
		return nil, xerrors.New("number of args should be even")
	}

	args := make([]txn.Arg, len(inArgs)/2)
	for i := 0; i < len(args); i++ {
		args[i] = txn.Arg{
			Key:   inArgs[i*2],
			Value: []byte(inArgs[i*2+1]),
		}
	}

	return args, nil
}

// getSigner loads the signer of the key flag, or defaults to the signer of
// the daemon.
func getSigner(ctx node.Context) (crypto.Signer, error) {
	path := ctx.Flags.Path(signerFlag)
	if path == "" {
		path = filepath.Join(ctx.Flags.Path("config"), privateKeyFile)
	}

	l := loader.NewFileLoader(path)

	signerdata, err := l.Load()
	if err != nil {
		return nil, xerrors.Errorf("failed to load signer: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(signerdata)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal signer: %v", err)
	}

	return signer, nil
}
