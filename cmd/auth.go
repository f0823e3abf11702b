package cmd

import (
	"fmt"

	"github.com/cristalhq/jwt/v5"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/celestiaorg/head-relay/api/rpc/perms"
	"github.com/celestiaorg/head-relay/nodebuilder"
)

var authTTLFlag = "ttl"

func AuthCmd(fsets ...*flag.FlagSet) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "auth [permission-level (e.g. read || write || admin)]",
		Short: "Signs and outputs a JWT token with the given permissions.",
		Long: "Signs and outputs a JWT token with the given permissions. NOTE: only use this command when " +
			"the node has already been initialized and is not running.",
		Args: cobra.ExactArgs(1),
		RunE: newToken,
	}

	cmd.Flags().Duration(authTTLFlag, 0, "Time the token stays valid for. Never expires if zero")
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

func newToken(cmd *cobra.Command, args []string) (err error) {
	permissions, err := perms.FromLevel(args[0])
	if err != nil {
		return err
	}
	ttl, err := cmd.Flags().GetDuration(authTTLFlag)
	if err != nil {
		return err
	}

	store, err := nodebuilder.OpenStore(StorePath(cmd.Context()))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ks, err := store.Keystore()
	if err != nil {
		return err
	}
	key, err := nodebuilder.Secret(ks)
	if err != nil {
		return err
	}

	signer, err := jwt.NewSignerHS(jwt.HS256, key.Body)
	if err != nil {
		return err
	}

	token, err := perms.NewTokenWithPerms(signer, permissions, ttl)
	if err != nil {
		return err
	}

	fmt.Printf("%s", token)
	return nil
}
