package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	cmdnode "github.com/celestiaorg/head-relay/cmd"
)

func main() {
	err := run()
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	rootCmd := cmdnode.NewRelay(cmdnode.WithSubcommands())
	rootCmd.SetHelpCommand(&cobra.Command{})
	return rootCmd.ExecuteContext(context.Background())
}
