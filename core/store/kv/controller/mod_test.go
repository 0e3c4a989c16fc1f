package controller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/core/store/kv"
	"go.dedis.ch/custody/internal/testing/fake"
)

func TestMinimal_SetCommands(t *testing.T) {
	NewController().SetCommands(nil)
}

func TestMinimal_OnStart(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "custody-test-")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	ctrl := NewController()

	inj := node.NewInjector()

	err = ctrl.OnStart(node.FlagSet{"config": dir}, inj)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, dbFile))

	var db kv.DB
	err = inj.Resolve(&db)
	require.NoError(t, err)

	require.NoError(t, db.Close())

	err = ctrl.OnStart(node.FlagSet{"config": filepath.Join(dir, "missing")}, inj)
	require.Regexp(t, "^db: failed to open db:", err.Error())
}

func TestMinimal_OnStop(t *testing.T) {
	ctrl := NewController()

	err := ctrl.OnStop(node.NewInjector())
	require.EqualError(t, err, "injector: couldn't find dependency for 'kv.DB'")

	dir, err := os.MkdirTemp(os.TempDir(), "custody-test-")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	db, err := kv.New(filepath.Join(dir, dbFile))
	require.NoError(t, err)

	inj := node.NewInjector()
	inj.Inject(db)

	err = ctrl.OnStop(inj)
	require.NoError(t, err)

	inj = node.NewInjector()
	inj.Inject(fakeDb{err: fake.GetError()})

	err = ctrl.OnStop(inj)
	require.EqualError(t, err, fake.Err("while closing db"))
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeDb struct {
	kv.DB

	err error
}

func (db fakeDb) Close() error {
	return db.err
}
