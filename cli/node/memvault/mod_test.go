package main

import (
	"bytes"
	"encoding/hex"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemvault_Main(t *testing.T) {
	main()
}

func TestMemvault_Scenario_HoldKey(t *testing.T) {
	sigs := make(chan os.Signal)
	wg := sync.WaitGroup{}
	wg.Add(1)

	node1 := filepath.Join(os.TempDir(), "memvault", "node1")

	cfg := config{Channel: sigs, Writer: io.Discard}

	go func() {
		defer wg.Done()

		err := runWithCfg([]string{os.Args[0], "--config", node1, "start"}, cfg)
		require.NoError(t, err)
	}()

	defer func() {
		// Simulate a Ctrl+C
		close(sigs)
		wg.Wait()

		os.RemoveAll(node1)
	}()

	waitDaemon(t, []string{node1})

	// Create the client key and deploy an instance of the holding contract.
	identity := callCmd(t, node1, "holding", "keygen")

	printed := callCmd(t, node1, "vault", "deploy",
		"--contract", "go.dedis.ch/custody.Holding")
	require.Regexp(t, "^instance [0-9a-f]{64} deployed$", printed)

	instance := strings.TrimSuffix(strings.TrimPrefix(printed, "instance "), " deployed")

	key := hex.EncodeToString([]byte("hello"))

	// The key holds no value yet.
	printed = callCmd(t, node1, "holding", "get", "--instance", instance, "--key", key)
	require.Equal(t,
		"transaction rejected: failed to GET: key '68656c6c6f': key does not exist",
		printed)

	// Store the client identity under the key and read it back.
	printed = callCmd(t, node1, "holding", "set",
		"--instance", instance, "--key", key, "--value", identity)
	require.Equal(t, "value set", printed)

	printed = callCmd(t, node1, "holding", "get", "--instance", instance, "--key", key)
	require.Equal(t, identity, printed)

	// Hand the key over to another identity with a signed claim.
	other := callCmd(t, node1, "holding", "keygen",
		"--signer", filepath.Join(node1, "other.key"))

	proof := callCmd(t, node1, "holding", "sign", "--key", key, "--value", other)

	printed = callCmd(t, node1, "holding", "signedset",
		"--instance", instance, "--key", key, "--value", other, "--signature", proof)
	require.Equal(t, "value set", printed)

	printed = callCmd(t, node1, "holding", "get", "--instance", instance, "--key", key)
	require.Equal(t, other, printed)

	// The daemon key deployed the instance, the client key ran the commands,
	// including the rejected read of the missing key.
	printed = callCmd(t, node1, "vault", "nonce")
	require.Equal(t, "1", printed)

	printed = callCmd(t, node1, "vault", "nonce",
		"--key", filepath.Join(node1, "holding.key"))
	require.Equal(t, "5", printed)

	// Test a bad command.
	err := runWithCfg([]string{os.Args[0], "--config", node1, "vault", "deploy"}, cfg)
	require.EqualError(t, err, `Required flag "contract" not set`)
}

// -----------------------------------------------------------------------------
// Utility functions

func waitDaemon(t *testing.T, daemons []string) {
	num := 50

	for _, daemon := range daemons {
		for i := 0; i < num; i++ {
			// Windows: we have to check the file as Dial on Windows creates the
			// file and prevent to listen.
			_, err := os.Stat(filepath.Join(daemon, "daemon.sock"))
			if !os.IsNotExist(err) {
				conn, err := net.Dial("unix", filepath.Join(daemon, "daemon.sock"))
				if err == nil {
					conn.Close()
					break
				}
			}

			time.Sleep(30 * time.Millisecond)

			if i+1 >= num {
				t.Fatal("timeout")
			}
		}
	}
}

func callCmd(t *testing.T, path string, args ...string) string {
	buffer := new(bytes.Buffer)
	cfg := config{
		Writer: buffer,
	}

	cmd := append([]string{os.Args[0], "--config", path}, args...)

	err := runWithCfg(cmd, cfg)
	require.NoError(t, err)

	return strings.TrimSpace(buffer.String())
}
