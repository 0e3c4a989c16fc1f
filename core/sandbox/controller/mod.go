// Package controller implements a controller for the sandbox. It runs the
// execution service over the database of the daemon, owns the daemon keyfile
// and exposes the vault commands and the endpoints of the gateway.
//
// Documentation Last Review: 25.08.2026
//
package controller

import (
	"path/filepath"

	"go.dedis.ch/custody/cli"
	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/core/execution/native"
	"go.dedis.ch/custody/core/sandbox"
	"go.dedis.ch/custody/core/store/kv"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/crypto/loader"
	"go.dedis.ch/custody/proxy"
	"golang.org/x/xerrors"
)

const (
	// signerFlag is the flag name containing the path to the private keyfile.
	signerFlag = "key"

	// privateKeyFile is the name of the keyfile of the daemon identity.
	privateKeyFile = "private.key"
)

// miniController is a CLI initializer to run the sandbox service.
//
// - implements node.Initializer
type miniController struct {
}

// NewController creates a new minimal controller for the sandbox.
func NewController() node.Initializer {
	return miniController{}
}

// SetCommands implements node.Initializer. It sets the commands to interact
// with the sandbox.
func (miniController) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("vault")
	cmd.SetDescription("interact with the vault")

	sub := cmd.SetSubCommand("deploy")
	sub.SetDescription("deploy an instance of a contract")
	sub.SetFlags(cli.StringFlag{
		Name:     "contract",
		Usage:    "name of the contract",
		Required: true,
	}, cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the daemon key",
	})
	sub.SetAction(builder.MakeAction(deployAction{}))

	sub = cmd.SetSubCommand("invoke")
	sub.SetDescription("invoke a command on a deployed instance")
	sub.SetFlags(cli.StringFlag{
		Name:     "instance",
		Usage:    "hex identifier of the instance",
		Required: true,
	}, cli.StringFlag{
		Name:     "contract",
		Usage:    "name of the contract the instance runs",
		Required: true,
	}, cli.StringSliceFlag{
		Name:  "args",
		Usage: "list of key-value pairs",
	}, cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the daemon key",
	})
	sub.SetAction(builder.MakeAction(invokeAction{}))

	sub = cmd.SetSubCommand("nonce")
	sub.SetDescription("print the next nonce of an identity")
	sub.SetFlags(cli.StringFlag{
		Name:  signerFlag,
		Usage: "path to the private keyfile, defaults to the daemon key",
	})
	sub.SetAction(builder.MakeAction(nonceAction{}))
}

// OnStart implements node.Initializer. It starts the sandbox service over the
// database of the daemon and registers the endpoints of the gateway when a
// proxy is running.
func (m miniController) OnStart(flags cli.Flags, inj node.Injector) error {
	var db kv.DB
	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	exec := native.NewExecution()
	inj.Inject(exec)

	srvc := sandbox.NewService(db, exec)
	inj.Inject(srvc)

	signer, err := loadSigner(filepath.Join(flags.Path("config"), privateKeyFile))
	if err != nil {
		return xerrors.Errorf("signer: %v", err)
	}

	inj.Inject(signer)

	// The proxy is only injected when the daemon is started with a proxy
	// address, in which case the service is exposed over HTTP.
	var px proxy.Proxy
	err = inj.Resolve(&px)
	if err == nil {
		registerHandlers(px, srvc)
	}

	return nil
}

// OnStop implements node.Initializer.
func (miniController) OnStop(node.Injector) error {
	return nil
}

// loadSigner loads the signer of the daemon from the keyfile, or creates the
// keyfile with a new random signer when it does not exist yet.
func loadSigner(path string) (crypto.Signer, error) {
	l := loader.NewFileLoader(path)

	signerdata, err := l.LoadOrCreate(generator{})
	if err != nil {
		return nil, xerrors.Errorf("while loading: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(signerdata)
	if err != nil {
		return nil, xerrors.Errorf("while unmarshaling: %v", err)
	}

	return signer, nil
}

// generator creates the private key of a new random signer.
//
// - implements loader.Generator
type generator struct{}

// Generate implements loader.Generator.
func (generator) Generate() ([]byte, error) {
	signer := ed25519.NewSigner()

	data, err := signer.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal signer: %v", err)
	}

	return data, nil
}
