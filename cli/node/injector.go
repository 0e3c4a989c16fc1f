// This file implements the dependency injector of the daemon. Controllers
// inject the services they start so that actions running later can resolve
// them by type.
//
// Documentation Last Review: 25.08.2026
//

package node

import (
	"reflect"

	"golang.org/x/xerrors"
)

// typeInjector is a dependency injector that stores the dependencies by their
// concrete type and resolves them by assignability.
//
// - implements node.Injector
type typeInjector struct {
	deps map[reflect.Type]interface{}
}

// NewInjector returns a new empty injector.
func NewInjector() Injector {
	return &typeInjector{
		deps: make(map[reflect.Type]interface{}),
	}
}

// Resolve implements node.Injector. It fills the given pointer with the first
// dependency assignable to its type.
func (inj *typeInjector) Resolve(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return xerrors.New("expect a pointer")
	}

	if !rv.Elem().IsValid() {
		return xerrors.Errorf("reflect value '%v' is invalid", rv)
	}

	for typ, dep := range inj.deps {
		if typ.AssignableTo(rv.Elem().Type()) {
			rv.Elem().Set(reflect.ValueOf(dep))
			return nil
		}
	}

	return xerrors.Errorf("couldn't find dependency for '%v'", rv.Elem().Type())
}

// Inject implements node.Injector. It stores the dependency so that later
// calls to Resolve can find it.
func (inj *typeInjector) Inject(v interface{}) {
	inj.deps[reflect.TypeOf(v)] = v
}
