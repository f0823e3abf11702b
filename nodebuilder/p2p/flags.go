package p2p

import (
	"fmt"

	"github.com/multiformats/go-multiaddr"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	p2pListenFlag    = "p2p.listen"
	p2pBootstrapFlag = "p2p.bootstrap"
)

// Flags gives a set of p2p flags.
func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.StringSlice(
		p2pListenFlag,
		nil,
		"Comma-separated multiaddresses to listen on. (Format: multiformats.io/multiaddr)",
	)
	flags.StringSlice(
		p2pBootstrapFlag,
		nil,
		`Comma-separated multiaddresses of peers serving the authority topics.
The node connects to them on start. (Format: multiformats.io/multiaddr)
`,
	)

	return flags
}

// ParseFlags parses P2P flags from the given cmd and saves them to the passed config.
func ParseFlags(
	cmd *cobra.Command,
	cfg *Config,
) error {
	listen, err := cmd.Flags().GetStringSlice(p2pListenFlag)
	if err != nil {
		return err
	}
	bootstrap, err := cmd.Flags().GetStringSlice(p2pBootstrapFlag)
	if err != nil {
		return err
	}

	for _, addrs := range [][]string{listen, bootstrap} {
		for _, addr := range addrs {
			_, err = multiaddr.NewMultiaddr(addr)
			if err != nil {
				return fmt.Errorf("cmd: while parsing '%s': %w", addr, err)
			}
		}
	}

	if len(listen) != 0 {
		cfg.ListenAddresses = listen
	}
	if len(bootstrap) != 0 {
		cfg.BootstrapPeers = bootstrap
	}
	return nil
}
