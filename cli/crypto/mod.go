// Package main provides a cli to manage the keys of the clients without a
// running node, like generating a keyfile or reading the identity stored in
// one.
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/custody/cli"
	"go.dedis.ch/custody/cli/ucli"
	ed25519 "go.dedis.ch/custody/crypto/ed25519/command"
)

var builder cli.Builder = ucli.NewBuilder("crypto", nil)
var printer io.Writer = os.Stderr

func main() {
	err := run(os.Args, ed25519.Initializer{})
	if err != nil {
		fmt.Fprintf(printer, "%+v\n", err)
	}
}

func run(args []string, inits ...cli.Initializer) error {
	for _, init := range inits {
		init.SetCommands(builder)
	}

	app := builder.Build()

	return app.Run(args)
}
