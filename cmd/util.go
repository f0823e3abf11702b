package cmd

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/celestiaorg/head-relay/nodebuilder/p2p"
	"github.com/celestiaorg/head-relay/nodebuilder/relay"
	rpc_cfg "github.com/celestiaorg/head-relay/nodebuilder/rpc"
)

var log = logging.Logger("cmd")

// PersistentPreRunEnv loads the stored config into the Env and applies all the flags
// passed to the given cmd on top of it.
func PersistentPreRunEnv(cmd *cobra.Command, _ []string) error {
	var (
		ctx = cmd.Context()
		err error
	)

	// loads existing config into the environment
	ctx, err = ParseNodeFlags(ctx, cmd)
	if err != nil {
		return err
	}

	cfg := NodeConfig(ctx)

	err = p2p.ParseFlags(cmd, &cfg.P2P)
	if err != nil {
		return err
	}

	relay.ParseFlags(cmd, &cfg.Relay)
	rpc_cfg.ParseFlags(cmd, &cfg.RPC)

	// apply the parsed config before misc flags read it
	ctx = WithNodeConfig(ctx, &cfg)
	ctx, err = ParseMiscFlags(ctx, cmd)
	if err != nil {
		return err
	}

	cmd.SetContext(ctx)
	return nil
}

// WithSubcommands adds every head relay subcommand to the given cmd.
func WithSubcommands() func(*cobra.Command, []*flag.FlagSet) {
	return func(c *cobra.Command, flags []*flag.FlagSet) {
		c.AddCommand(
			Init(flags...),
			Start(flags...),
			AuthCmd(flags...),
			RemoveConfigCmd(flags...),
			UpdateConfigCmd(flags...),
		)
	}
}
