package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/celestiaorg/head-relay/nodebuilder"
)

func RemoveConfigCmd(fsets ...*pflag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config-remove",
		Args:  cobra.NoArgs,
		Short: "Deletes the node's config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return nodebuilder.RemoveConfig(StorePath(cmd.Context()))
		},
	}

	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

func UpdateConfigCmd(fsets ...*pflag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config-update",
		Args:  cobra.NoArgs,
		Short: "Updates the node's outdated config with default values from newly-added fields. Check the config " +
			" afterwards to ensure all old custom values were preserved.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return nodebuilder.UpdateConfig(StorePath(cmd.Context()))
		},
	}

	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}
