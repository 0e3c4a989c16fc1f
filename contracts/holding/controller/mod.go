// Package controller implements a controller for the holding contract. It
// registers the contract on the execution service of the daemon and provides
// the client commands to hold keys: generating an identity, signing an
// update claim and running the contract commands on a deployed instance.
//
// Documentation Last Review: 25.08.2026
//
package controller

import (
	"go.dedis.ch/custody/cli"
	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/contracts/holding"
	"go.dedis.ch/custody/core/execution/native"
	"go.dedis.ch/custody/serde/json"
	"golang.org/x/xerrors"
)

const (
	// signerFlag is the flag name containing the path to the private keyfile.
	signerFlag = "signer"

	// keyFile is the name of the default client keyfile in the config folder.
	keyFile = "holding.key"
)

// miniController is a CLI initializer to register the holding contract.
//
// - implements node.Initializer
type miniController struct {
}

// NewController creates a new minimal controller for the holding contract.
func NewController() node.Initializer {
	return miniController{}
}

// SetCommands implements node.Initializer. It sets the commands to interact
// with the holding contract.
func (miniController) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("holding")
	cmd.SetDescription("interact with the holding contract")

	sub := cmd.SetSubCommand("keygen")
	sub.SetDescription("print the identity of the client key, creating the keyfile when missing")
	sub.SetFlags(cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the client key",
	})
	sub.SetAction(builder.MakeAction(keygenAction{}))

	sub = cmd.SetSubCommand("sign")
	sub.SetDescription("sign an update claim and print the proof")
	sub.SetFlags(cli.StringFlag{
		Name:     "key",
		Usage:    "hex key of the update",
		Required: true,
	}, cli.StringFlag{
		Name:     "value",
		Usage:    "serialized identity the update stores",
		Required: true,
	}, cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the client key",
	})
	sub.SetAction(builder.MakeAction(signAction{}))

	sub = cmd.SetSubCommand("set")
	sub.SetDescription("store a value under a key, as the transaction signer")
	sub.SetFlags(cli.StringFlag{
		Name:     "instance",
		Usage:    "hex identifier of the instance",
		Required: true,
	}, cli.StringFlag{
		Name:     "key",
		Usage:    "hex key to update",
		Required: true,
	}, cli.StringFlag{
		Name:     "value",
		Usage:    "serialized identity to store",
		Required: true,
	}, cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the client key",
	})
	sub.SetAction(builder.MakeAction(setAction{}))

	sub = cmd.SetSubCommand("get")
	sub.SetDescription("print the value stored under a key")
	sub.SetFlags(cli.StringFlag{
		Name:     "instance",
		Usage:    "hex identifier of the instance",
		Required: true,
	}, cli.StringFlag{
		Name:     "key",
		Usage:    "hex key to read",
		Required: true,
	}, cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the client key",
	})
	sub.SetAction(builder.MakeAction(getAction{}))

	sub = cmd.SetSubCommand("signedset")
	sub.SetDescription("store a value under a key with an explicit signature")
	sub.SetFlags(cli.StringFlag{
		Name:     "instance",
		Usage:    "hex identifier of the instance",
		Required: true,
	}, cli.StringFlag{
		Name:     "key",
		Usage:    "hex key to update",
		Required: true,
	}, cli.StringFlag{
		Name:     "value",
		Usage:    "serialized identity to store",
		Required: true,
	}, cli.StringFlag{
		Name:     "signature",
		Usage:    "serialized signature of the update",
		Required: true,
	}, cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the client key",
	})
	sub.SetAction(builder.MakeAction(signedSetAction{}))
}

// OnStart implements node.Initializer. It registers the holding contract on
// the execution service of the daemon.
func (miniController) OnStart(flags cli.Flags, inj node.Injector) error {
	var exec *native.Service
	err := inj.Resolve(&exec)
	if err != nil {
		return xerrors.Errorf("failed to resolve native service: %v", err)
	}

	holding.RegisterContract(exec, holding.NewContract(json.NewContext()))

	return nil
}

// OnStop implements node.Initializer.
func (miniController) OnStop(node.Injector) error {
	return nil
}
