// Package controller implements a controller to open the database of the
// daemon and share it with the other controllers.
//
// Documentation Last Review: 25.08.2026
//
package controller

import (
	"path/filepath"

	"go.dedis.ch/custody/cli"
	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/core/store/kv"
	"golang.org/x/xerrors"
)

// dbFile is the name of the database file inside the config folder.
const dbFile = "custody.db"

// minimal is an initializer for the database. It must run before the
// initializers that resolve the database from the injector.
//
// - implements node.Initializer
type minimal struct{}

// NewController returns a new controller for the database.
func NewController() node.Initializer {
	return minimal{}
}

// SetCommands implements node.Initializer. The database has no command.
func (m minimal) SetCommands(builder node.Builder) {}

// OnStart implements node.Initializer. It opens the database in the config
// folder and injects it.
func (m minimal) OnStart(flags cli.Flags, inj node.Injector) error {
	db, err := kv.New(filepath.Join(flags.Path("config"), dbFile))
	if err != nil {
		return xerrors.Errorf("db: %v", err)
	}

	inj.Inject(db)

	return nil
}

// OnStop implements node.Initializer. It closes the database.
func (m minimal) OnStop(inj node.Injector) error {
	var db kv.DB
	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	err = db.Close()
	if err != nil {
		return xerrors.Errorf("while closing db: %v", err)
	}

	return nil
}
