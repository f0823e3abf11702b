package relay

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	chainIDFlag     = "relay.chain-id"
	remoteChainFlag = "relay.remote-chain"
	remoteTokenFlag = "relay.remote-token"
)

// Flags gives a set of hardcoded relay flags.
func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(
		chainIDFlag,
		"",
		"ID of the dependent chain whose heads are relayed",
	)
	flags.String(
		remoteChainFlag,
		"",
		"RPC URL of a node holding the local chain. Relays into the chain store of this node if not set",
	)
	flags.String(
		remoteTokenFlag,
		"",
		"Auth token for the remote chain RPC",
	)

	return flags
}

// ParseFlags parses relay flags from the given cmd and saves them to the passed config.
func ParseFlags(cmd *cobra.Command, cfg *Config) {
	if id := cmd.Flag(chainIDFlag).Value.String(); id != "" {
		cfg.ChainID = id
	}
	if remote := cmd.Flag(remoteChainFlag).Value.String(); remote != "" {
		cfg.RemoteChain = remote
	}
	if token := cmd.Flag(remoteTokenFlag).Value.String(); token != "" {
		cfg.RemoteToken = token
	}
}
