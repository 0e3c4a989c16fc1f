// Package registry defines the format registry mechanism.
//
// A message registers one format engine per supported encoding, and the
// default implementation returns an empty engine for unknown formats so that
// the serialization fails with a meaningful error.
//
// Documentation Last Review: 25.08.2026
//
package registry

import (
	"go.dedis.ch/custody/serde"
)

// Registry is an interface to register and get format engines for a specific
// format.
type Registry interface {
	// Register takes a format and its engine and it registers them so that the
	// engine can be looked up later.
	Register(serde.Format, serde.FormatEngine)

	// Get returns the engine associated with the format.
	Get(serde.Format) serde.FormatEngine
}
