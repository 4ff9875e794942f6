package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var (
	newSuperior  string
	deleteOldRDN bool
)

var modifyDNCmd = &cobra.Command{
	Use:   "modifydn <dn> <new-rdn>",
	Short: "Rename and/or move an entry",
	Long: `Rename (and optionally move) an entry.

Example:
  obaldap modifydn 'cn=Old,ou=People,dc=example,dc=org' 'cn=New' \
    --new-superior 'ou=Former Employees,dc=example,dc=org'`,
	Args: cobra.ExactArgs(2),
	RunE: runModifyDN,
}

func init() {
	flags := modifyDNCmd.Flags()
	flags.StringVar(&newSuperior, "new-superior", "", "Move the entry under this DN (empty = keep current parent)")
	flags.BoolVar(&deleteOldRDN, "delete-old-rdn", true, "Remove the old RDN's attribute value after the rename")
}

func runModifyDN(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	if err := client.ModifyDN(reqCtx, args[0], args[1], deleteOldRDN, newSuperior); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", args[0], args[1])
	return nil
}
