package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <dn>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	if err := client.Delete(reqCtx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
