package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var compareCmd = &cobra.Command{
	Use:   "compare <dn> <attr>=<value>",
	Short: "Check whether an entry has the given attribute value",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	eq := strings.IndexByte(args[1], '=')
	if eq < 0 {
		return fmt.Errorf("invalid comparison %q, want attr=value", args[1])
	}
	attr, value := args[1][:eq], args[1][eq+1:]

	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	match, err := client.Compare(reqCtx, args[0], attr, []byte(value))
	if err != nil {
		return err
	}
	if match {
		fmt.Fprintln(cmd.OutOrStdout(), "true")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "false")
	}
	return nil
}
