package relay

import (
	"errors"
	"fmt"
	"net/url"
)

// Config combines all configuration fields for the relay.
type Config struct {
	// ChainID identifies the dependent chain whose heads are relayed.
	ChainID string
	// RemoteChain is the RPC URL of a node holding the local chain.
	// When empty, heads are relayed into the chain store of this node.
	RemoteChain string
	// RemoteToken authenticates the relay at RemoteChain.
	RemoteToken string
}

// DefaultConfig returns default configuration for the relay.
func DefaultConfig() Config {
	return Config{
		ChainID: "",
	}
}

// Validate performs basic validation of the config.
func (cfg *Config) Validate() error {
	if cfg.ChainID == "" {
		return errors.New("relay: chain id is not set")
	}
	if cfg.RemoteChain != "" {
		if _, err := url.ParseRequestURI(cfg.RemoteChain); err != nil {
			return fmt.Errorf("relay: invalid remote chain url: %w", err)
		}
	}
	return nil
}
