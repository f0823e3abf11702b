package p2p

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/head-relay/libs/keystore"
)

func TestKey(t *testing.T) {
	ks := keystore.NewMapKeystore()

	first, err := Key(ks)
	require.NoError(t, err)
	second, err := Key(ks)
	require.NoError(t, err)
	assert.True(t, first.Equals(second))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.BootstrapPeers = []string{"/ip4/10.0.0.1/tcp/2131"}
	require.Error(t, cfg.Validate(), "bootstrap peer without peer id")

	cfg = DefaultConfig()
	cfg.ListenAddresses = []string{"garbage"}
	require.Error(t, cfg.Validate())
}
