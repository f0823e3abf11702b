package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/celestiaorg/head-relay/nodebuilder/p2p"
	"github.com/celestiaorg/head-relay/nodebuilder/relay"
	"github.com/celestiaorg/head-relay/nodebuilder/rpc"
)

// NewRelay constructs the root command of the head relay.
func NewRelay(options ...func(*cobra.Command, []*pflag.FlagSet)) *cobra.Command {
	flags := []*pflag.FlagSet{
		NodeFlags(),
		p2p.Flags(),
		relay.Flags(),
		rpc.Flags(),
		MiscFlags(),
	}
	cmd := &cobra.Command{
		Use:   "head-relay [subcommand]",
		Args:  cobra.NoArgs,
		Short: "Relays the heads of a dependent chain announced by its authority chain",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: PersistentPreRunEnv,
	}
	for _, option := range options {
		option(cmd, flags)
	}
	return cmd
}
