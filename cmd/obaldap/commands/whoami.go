package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Issue the Who Am I? extended operation (RFC 4532)",
	Args:  cobra.NoArgs,
	RunE:  runWhoAmI,
}

func runWhoAmI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	authzID, err := client.WhoAmI(reqCtx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), authzID)
	return nil
}
