// Package controller implements a controller for the http proxy. It provides
// the commands to start the server and to expose the prometheus collectors
// of the application, and a start flag to run the server with the daemon.
//
// Documentation Last Review: 25.08.2026
//
package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.dedis.ch/custody"
	"go.dedis.ch/custody/cli"
	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/proxy"
	"golang.org/x/xerrors"
)

const defaultAddr = "127.0.0.1:8080"

const defaultProm = "/metrics"

// NewController returns a new minimal initializer
func NewController() node.Initializer {
	return minimal{}
}

// minimal is an initializer with the minimum set of commands. Indeed it only
// creates and injects a new client proxy
//
// - implements node.Initializer
type minimal struct{}

// SetCommands implements node.Initializer. It sets the commands to start the
// server and to register the prometheus handler.
func (m minimal) SetCommands(builder node.Builder) {
	builder.SetStartFlags(cli.StringFlag{
		Name:     "proxyaddr",
		Required: false,
		Usage:    "the address of the http proxy, empty to run without one",
		Value:    "",
	})

	cmd := builder.SetCommand("proxy")
	sub := cmd.SetSubCommand("start")

	sub.SetDescription("start the proxy http server")
	sub.SetFlags(cli.StringFlag{
		Name:     "clientaddr",
		Required: false,
		Usage:    "the address of the http client",
		Value:    defaultAddr,
	})
	sub.SetAction(builder.MakeAction(startAction{}))

	sub = cmd.SetSubCommand("prom")

	sub.SetDescription("registers the collectors and starts a prometheus handler. " +
		"Will panic if the path is used more than once.")
	sub.SetFlags(cli.StringFlag{
		Name:     "path",
		Required: false,
		Usage:    "the handler path",
		Value:    defaultProm,
	})
	sub.SetAction(builder.MakeAction(promAction{}))
}

// OnStart implements node.Initializer. It starts the proxy server and exposes
// the prometheus collectors when the daemon is started with a proxy address,
// so that the services of the other controllers can register their endpoints.
func (m minimal) OnStart(flags cli.Flags, inj node.Injector) error {
	addr := flags.String("proxyaddr")
	if addr == "" {
		return nil
	}

	proxyhttp, err := startProxy(addr, inj)
	if err != nil {
		return xerrors.Errorf("proxy: %v", err)
	}

	for _, c := range custody.PromCollectors {
		err = prometheus.DefaultRegisterer.Register(c)
		if err != nil {
			custody.Logger.Warn().Err(err).Msg("failed to register collector")
		}
	}

	proxyhttp.RegisterHandler(defaultProm, promhttp.Handler().ServeHTTP)

	return nil
}

// OnStop implements node.Initializer. It stops the http server if one is
// running.
func (m minimal) OnStop(inj node.Injector) error {
	var srv proxy.Proxy
	err := inj.Resolve(&srv)
	if err == nil {
		srv.Stop()
	}

	return nil
}
