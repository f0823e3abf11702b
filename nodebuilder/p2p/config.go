package p2p

import (
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// Config combines all configuration fields for P2P subsystem.
type Config struct {
	// ListenAddresses - Addresses to listen to on local NIC.
	ListenAddresses []string
	// BootstrapPeers are peers serving the authority topics the node connects to on start.
	BootstrapPeers []string
	// PersistPeers stores the peers connected on stop and reconnects to them on the next start.
	PersistPeers bool
}

// DefaultConfig returns default configuration for P2P subsystem.
func DefaultConfig() Config {
	return Config{
		ListenAddresses: []string{
			"/ip4/0.0.0.0/udp/2131/quic-v1",
			"/ip6/::/udp/2131/quic-v1",
			"/ip4/0.0.0.0/tcp/2131",
			"/ip6/::/tcp/2131",
		},
		BootstrapPeers: []string{},
		PersistPeers:   true,
	}
}

// Validate performs basic validation of the config.
func (cfg *Config) Validate() error {
	for _, addr := range cfg.ListenAddresses {
		if _, err := ma.NewMultiaddr(addr); err != nil {
			return fmt.Errorf("p2p: invalid listen address %s: %w", addr, err)
		}
	}
	_, err := cfg.bootstrappers()
	return err
}

func (cfg *Config) bootstrappers() (_ []peer.AddrInfo, err error) {
	maddrs := make([]ma.Multiaddr, len(cfg.BootstrapPeers))
	for i, addr := range cfg.BootstrapPeers {
		maddrs[i], err = ma.NewMultiaddr(addr)
		if err != nil {
			return nil, fmt.Errorf("failure to parse config.P2P.BootstrapPeers: %w", err)
		}
	}

	return peer.AddrInfosFromP2pAddrs(maddrs...)
}
