package controller

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/custody/cli"
	"go.dedis.ch/custody/cli/node"
	"go.dedis.ch/custody/core/sandbox"
	"go.dedis.ch/custody/core/store/kv"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/internal/testing/fake"
	"go.dedis.ch/custody/proxy"
)

func TestMiniController_SetCommands(t *testing.T) {
	ctrl := NewController()

	call := &fake.Call{}
	ctrl.SetCommands(fakeBuilder{call: call})

	require.Equal(t, 17, call.Len())
	require.Equal(t, "vault", call.Get(0, 0))
	require.Equal(t, "interact with the vault", call.Get(1, 0))
	require.Equal(t, "deploy", call.Get(2, 0))
	require.Len(t, call.Get(4, 0), 2)
	require.IsType(t, deployAction{}, call.Get(5, 0))
	require.Equal(t, "invoke", call.Get(7, 0))
	require.Len(t, call.Get(9, 0), 4)
	require.IsType(t, invokeAction{}, call.Get(10, 0))
	require.Equal(t, "nonce", call.Get(12, 0))
	require.Len(t, call.Get(14, 0), 1)
	require.IsType(t, nonceAction{}, call.Get(15, 0))
}

func TestMiniController_OnStart(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "custody-test-")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	db, err := kv.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	defer db.Close()

	ctrl := NewController()

	inj := node.NewInjector()
	err = ctrl.OnStart(node.FlagSet{}, inj)
	require.EqualError(t, err, "injector: couldn't find dependency for 'kv.DB'")

	inj.Inject(db)

	flags := node.FlagSet{"config": dir}

	err = ctrl.OnStart(flags, inj)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, privateKeyFile))

	var srvc *sandbox.Service
	err = inj.Resolve(&srvc)
	require.NoError(t, err)

	var signer crypto.Signer
	err = inj.Resolve(&signer)
	require.NoError(t, err)
}

func TestMiniController_OnStart_WithProxy(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "custody-test-")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	db, err := kv.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	defer db.Close()

	inj := node.NewInjector()
	inj.Inject(db)

	px := &fakeProxy{}
	inj.Inject(px)

	err = NewController().OnStart(node.FlagSet{"config": dir}, inj)
	require.NoError(t, err)

	require.Equal(t, []string{"/invoke", "/nonce"}, px.paths)
}

func TestMiniController_OnStart_BadSigner(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "custody-test-")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	db, err := kv.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	defer db.Close()

	err = os.WriteFile(filepath.Join(dir, privateKeyFile), []byte("bad signer"), os.ModePerm)
	require.NoError(t, err)

	inj := node.NewInjector()
	inj.Inject(db)

	err = NewController().OnStart(node.FlagSet{"config": dir}, inj)
	require.EqualError(t, err,
		"signer: while unmarshaling: while unmarshaling scalar: wrong size buffer")

	if runtime.GOOS != "windows" {
		err = NewController().OnStart(node.FlagSet{"config": "/not/exist"}, inj)
		require.Regexp(t,
			"^signer: while loading: while creating file: open /not/exist/private.key:",
			err.Error())
	}
}

func TestMiniController_OnStop(t *testing.T) {
	err := NewController().OnStop(nil)
	require.NoError(t, err)
}

func TestLoadSigner(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "custody-test-")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	path := filepath.Join(dir, privateKeyFile)

	signer, err := loadSigner(path)
	require.NoError(t, err)

	// The keyfile is reused so that the daemon keeps its identity across
	// restarts.
	reloaded, err := loadSigner(path)
	require.NoError(t, err)
	require.True(t, signer.GetPublicKey().Equal(reloaded.GetPublicKey()))
}

func TestGenerator_Generate(t *testing.T) {
	data, err := generator{}.Generate()
	require.NoError(t, err)
	require.Len(t, data, 32)
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeCommandBuilder struct {
	call *fake.Call
}

func (b fakeCommandBuilder) SetSubCommand(name string) cli.CommandBuilder {
	b.call.Add(name)
	return b
}

func (b fakeCommandBuilder) SetDescription(value string) {
	b.call.Add(value)
}

func (b fakeCommandBuilder) SetFlags(flags ...cli.Flag) {
	b.call.Add(flags)
}

func (b fakeCommandBuilder) SetAction(a cli.Action) {
	b.call.Add(a)
}

type fakeBuilder struct {
	call *fake.Call
}

func (b fakeBuilder) SetCommand(name string) cli.CommandBuilder {
	b.call.Add(name)
	return fakeCommandBuilder(b)
}

func (b fakeBuilder) SetStartFlags(flags ...cli.Flag) {
	b.call.Add(flags)
}

func (b fakeBuilder) MakeAction(tmpl node.ActionTemplate) cli.Action {
	b.call.Add(tmpl)
	return nil
}

type fakeProxy struct {
	proxy.Proxy

	paths []string
}

func (p *fakeProxy) RegisterHandler(path string, h func(http.ResponseWriter, *http.Request)) {
	p.paths = append(p.paths, path)
}
