package nodebuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// TestChainID is the dependent chain relayed by nodes built with TestNode.
const TestChainID = "dependent"

// TestConfig returns a Config listening on loopback only, on ports picked by the OS.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Relay.ChainID = TestChainID
	cfg.P2P.ListenAddresses = []string{"/ip4/127.0.0.1/tcp/0"}
	cfg.P2P.PersistPeers = false
	cfg.RPC.Address = "127.0.0.1"
	cfg.RPC.Port = "0"
	return cfg
}

// TestNode initializes a Store in a temporary directory and builds a Node over it.
func TestNode(t *testing.T, opts ...fx.Option) *Node {
	return TestNodeWithConfig(t, TestConfig(), opts...)
}

// TestNodeWithConfig is like TestNode, but uses the given Config.
func TestNodeWithConfig(t *testing.T, cfg *Config, opts ...fx.Option) *Node {
	dir := t.TempDir()
	require.NoError(t, Init(*cfg, dir))

	store, err := OpenStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	nd, err := New(store, opts...)
	require.NoError(t, err)
	return nd
}
