// This file implements the actions of the controller. The client commands
// run the contract through the transaction service of the daemon, while
// keygen and sign only touch the client keyfile so that a proof can be made
// without the daemon.
//
// Documentation Last Review: 25.08.2026
//

package controller

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/contracts/holding"
	"go.dedis.ch/custody/contracts/holding/types"
	"go.dedis.ch/custody/core/execution"
	"go.dedis.ch/custody/core/execution/native"
	"go.dedis.ch/custody/core/sandbox"
	"go.dedis.ch/custody/core/txn"
	"go.dedis.ch/custody/core/txn/signed"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/crypto/loader"
	"go.dedis.ch/custody/serde/json"
	"golang.org/x/xerrors"
)

// keygenAction describes an action to create the client key if it does not
// exist and print its account identity.
//
// - implements node.ActionTemplate
type keygenAction struct{}

// Execute implements node.ActionTemplate. It loads or creates the client key
// and prints the serialized account identity, which can be used as the value
// of an update.
func (keygenAction) Execute(ctx node.Context) error {
	l := loader.NewFileLoader(signerPath(ctx))

	data, err := l.LoadOrCreate(generator{})
	if err != nil {
		return xerrors.Errorf("while loading: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return xerrors.Errorf("while unmarshaling: %v", err)
	}

	account, err := types.NewAccountFromPublicKey(signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("couldn't make account: %v", err)
	}

	identity, err := account.Serialize(json.NewContext())
	if err != nil {
		return xerrors.Errorf("couldn't serialize identity: %v", err)
	}

	fmt.Fprintf(ctx.Out, "%s\n", identity)

	return nil
}

// signAction describes an action to sign an update claim and print the
// serialized proof.
//
// - implements node.ActionTemplate
type signAction struct{}

// Execute implements node.ActionTemplate. It computes the claim digest of
// the update defined by the key and value flags, signs it with the client
// key and prints the proof to use with the signedset command.
func (signAction) Execute(ctx node.Context) error {
	signer, err := getSigner(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get signer: %v", err)
	}

	key, err := hex.DecodeString(ctx.Flags.String("key"))
	if err != nil {
		return xerrors.Errorf("malformed key: %v", err)
	}

	value, err := types.IdentityFactory{}.IdentityOf(json.NewContext(), []byte(ctx.Flags.String("value")))
	if err != nil {
		return xerrors.Errorf("couldn't decode value: %v", err)
	}

	claim, err := types.NewClaim(key, value, crypto.NewSha256Factory())
	if err != nil {
		return xerrors.Errorf("couldn't make claim: %v", err)
	}

	sig, err := signer.Sign(claim)
	if err != nil {
		return xerrors.Errorf("couldn't sign claim: %v", err)
	}

	proof, err := types.NewProof(signer.GetPublicKey(), sig).Serialize(json.NewContext())
	if err != nil {
		return xerrors.Errorf("couldn't serialize proof: %v", err)
	}

	fmt.Fprintf(ctx.Out, "%s\n", proof)

	return nil
}

// setAction describes an action to store a value under a key, with the
// transaction signer as the caller.
//
// - implements node.ActionTemplate
type setAction struct{}

// Execute implements node.ActionTemplate. It runs the SET command on the
// instance of the flags.
func (setAction) Execute(ctx node.Context) error {
	res, err := runCommand(ctx, holding.CmdSet, []txn.Arg{
		{Key: holding.ValueArg, Value: []byte(ctx.Flags.String("value"))},
	})
	if err != nil {
		return err
	}

	if !res.Accepted {
		fmt.Fprintf(ctx.Out, "transaction rejected: %s\n", res.Message)

		return nil
	}

	fmt.Fprintln(ctx.Out, "value set")

	return nil
}

// getAction describes an action to read the value stored under a key.
//
// - implements node.ActionTemplate
type getAction struct{}

// Execute implements node.ActionTemplate. It runs the GET command on the
// instance of the flags and prints the serialized identity stored under the
// key.
func (getAction) Execute(ctx node.Context) error {
	res, err := runCommand(ctx, holding.CmdGet, nil)
	if err != nil {
		return err
	}

	if !res.Accepted {
		fmt.Fprintf(ctx.Out, "transaction rejected: %s\n", res.Message)

		return nil
	}

	fmt.Fprintf(ctx.Out, "%s\n", res.Value)

	return nil
}

// signedSetAction describes an action to store a value under a key with an
// explicit signature, so that the update can be submitted by anyone.
//
// - implements node.ActionTemplate
type signedSetAction struct{}

// Execute implements node.ActionTemplate. It runs the SIGNEDSET command on
// the instance of the flags, with the serialized signature of the signature
// flag.
func (signedSetAction) Execute(ctx node.Context) error {
	res, err := runCommand(ctx, holding.CmdSignedSet, []txn.Arg{
		{Key: holding.ValueArg, Value: []byte(ctx.Flags.String("value"))},
		{Key: holding.SignatureArg, Value: []byte(ctx.Flags.String("signature"))},
	})
	if err != nil {
		return err
	}

	if !res.Accepted {
		fmt.Fprintf(ctx.Out, "transaction rejected: %s\n", res.Message)

		return nil
	}

	fmt.Fprintln(ctx.Out, "value set")

	return nil
}

// runCommand signs and processes a transaction running the command on the
// instance of the flags, with the extra arguments appended.
func runCommand(ctx node.Context, cmd holding.Command, extra []txn.Arg) (execution.Result, error) {
	var srvc *sandbox.Service
	err := ctx.Injector.Resolve(&srvc)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("injector: %v", err)
	}

	manager, err := makeManager(ctx, srvc)
	if err != nil {
		return execution.Result{}, err
	}

	key, err := hex.DecodeString(ctx.Flags.String("key"))
	if err != nil {
		return execution.Result{}, xerrors.Errorf("malformed key: %v", err)
	}

	args := append([]txn.Arg{
		{Key: sandbox.InstanceArg, Value: []byte(ctx.Flags.String("instance"))},
		{Key: native.ContractArg, Value: []byte(holding.ContractName)},
		{Key: holding.CmdArg, Value: []byte(cmd)},
		{Key: holding.KeyArg, Value: key},
	}, extra...)

	tx, err := manager.Make(args...)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("creating transaction: %v", err)
	}

	res, err := srvc.Process(tx)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("transaction refused: %v", err)
	}

	return res, nil
}

// makeManager returns a transaction manager signing with the client key,
// synchronized with the nonce the service expects.
func makeManager(ctx node.Context, client signed.Client) (txn.Manager, error) {
	signer, err := getSigner(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to get signer: %v", err)
	}

	manager := signed.NewManager(signer, client)

	err = manager.Sync()
	if err != nil {
		return nil, xerrors.Errorf("failed to sync manager: %v", err)
	}

	return manager, nil
}

// getSigner loads the signer of the signer flag, or defaults to the client
// key of the config folder.
func getSigner(ctx node.Context) (crypto.Signer, error) {
	l := loader.NewFileLoader(signerPath(ctx))

	data, err := l.Load()
	if err != nil {
		return nil, xerrors.Errorf("failed to load signer: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal signer: %v", err)
	}

	return signer, nil
}

func signerPath(ctx node.Context) string {
	path := ctx.Flags.Path(signerFlag)
	if path == "" {
		path = filepath.Join(ctx.Flags.Path("config"), keyFile)
	}

	return path
}

// generator is an implementation to generate a private key.
//
// - implements loader.Generator
type generator struct{}

// Generate implements loader.Generator. It returns the marshaled data of a
// private key.
func (generator) Generate() ([]byte, error) {
	signer := ed25519.NewSigner()

	data, err := signer.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal signer: %v", err)
	}

	return data, nil
}
