// Package proxy defines the primitives of the http server that exposes the
// services of the node to clients.
//
// Documentation Last Review: 25.08.2026
//
package proxy

import (
	"net"
	"net/http"
)

// Proxy defines the primitives to implement an http server that handles
// client side requests.
type Proxy interface {
	// Listen starts the proxy server. This call is assumed to be blocking.
	Listen()

	// Stop stops the proxy server.
	Stop()

	// GetAddr returns the address the server is listening on, or nil when
	// the server is not running.
	GetAddr() net.Addr

	// RegisterHandler registers a new handler.
	RegisterHandler(path string, handler func(http.ResponseWriter, *http.Request))
}
