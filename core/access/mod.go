// Package access defines the interfaces to control the access to a resource.
//
// The package only states what an identity is, which is the smallest piece of
// information a service needs to grant or deny an access. The services
// themselves define the rules they enforce.
//
// Documentation Last Review: 25.08.2026
//
package access

import (
	"go.dedis.ch/custody/serde"
)

// Identity is an abstraction to uniquely identify a signer.
type Identity interface {
	serde.Message

	// Equal returns true when the other object is equal to the identity.
	Equal(other interface{}) bool
}
