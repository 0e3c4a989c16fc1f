// Package main implements a standalone vault node backed by a bbolt database.
//
//  go run mod.go start
//  go run mod.go --config /tmp/vault start --proxyaddr 127.0.0.1:8080
//  go run mod.go --config /tmp/vault holding keygen
//  go run mod.go --config /tmp/vault vault deploy\
//    --contract go.dedis.ch/custody.Holding
//  go run mod.go --config /tmp/vault holding set --instance XX\
//    --key 68656c6c6f --value XX
//
//
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/custody/cli/node"
	holding "go.dedis.ch/custody/contracts/holding/controller"
	sandbox "go.dedis.ch/custody/core/sandbox/controller"
	db "go.dedis.ch/custody/core/store/kv/controller"
	proxy "go.dedis.ch/custody/proxy/http/controller"
)

type config struct {
	Channel chan os.Signal
	Writer  io.Writer
}

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Printf("%+v\n", err)
	}
}

func run(args []string) error {
	return runWithCfg(args, config{})
}

func runWithCfg(args []string, cfg config) error {
	builder := node.NewBuilderWithCfg(
		cfg.Channel,
		cfg.Writer,
		db.NewController(),
		proxy.NewController(),
		sandbox.NewController(),
		holding.NewController(),
	)

	app := builder.Build()

	err := app.Run(args)
	if err != nil {
		return err
	}

	return nil
}
