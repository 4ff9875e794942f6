package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc"
	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var (
	modAdd     []string
	modDelete  []string
	modReplace []string
)

var modifyCmd = &cobra.Command{
	Use:   "modify <dn>",
	Short: "Add, delete, or replace attribute values on an entry",
	Long: `Apply add/delete/replace changes to an entry's attributes.

Example:
  obaldap modify 'cn=New User,ou=People,dc=example,dc=org' \
    --replace mail=new@example.org --add telephoneNumber=555-0100`,
	Args: cobra.ExactArgs(1),
	RunE: runModify,
}

func init() {
	flags := modifyCmd.Flags()
	flags.StringArrayVar(&modAdd, "add", nil, "attr=value to add (repeatable)")
	flags.StringArrayVar(&modDelete, "delete", nil, "attr or attr=value to delete (repeatable; bare attr deletes all values)")
	flags.StringArrayVar(&modReplace, "replace", nil, "attr=value to replace with (repeatable)")
}

func runModify(cmd *cobra.Command, args []string) error {
	var mods []ldapc.Modification

	addAttrs, err := parseAttrPairs(modAdd)
	if err != nil {
		return fmt.Errorf("--add: %w", err)
	}
	for _, a := range addAttrs {
		mods = append(mods, ldapc.Modification{Op: ldapc.ModAdd, Attribute: a})
	}

	for _, spec := range modDelete {
		if eq := strings.IndexByte(spec, '='); eq >= 0 {
			mods = append(mods, ldapc.Modification{
				Op:        ldapc.ModDelete,
				Attribute: ldapc.Attribute{Type: spec[:eq], Values: [][]byte{[]byte(spec[eq+1:])}},
			})
			continue
		}
		mods = append(mods, ldapc.Modification{Op: ldapc.ModDelete, Attribute: ldapc.Attribute{Type: spec}})
	}

	replaceAttrs, err := parseAttrPairs(modReplace)
	if err != nil {
		return fmt.Errorf("--replace: %w", err)
	}
	for _, a := range replaceAttrs {
		mods = append(mods, ldapc.Modification{Op: ldapc.ModReplace, Attribute: a})
	}

	if len(mods) == 0 {
		return fmt.Errorf("at least one of --add, --delete, --replace is required")
	}

	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	if err := client.Modify(reqCtx, args[0], mods); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "modified %s\n", args[0])
	return nil
}
